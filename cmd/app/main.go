// Pixel transforms - batch runner for teaching image-processing fundamentals
// License: MIT

package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	AppName    = "pixel-transforms"
	AppVersion = "1.0.0"
)

var rootCmd = &cobra.Command{
	Use:     AppName,
	Short:   "Quantize, smooth, rotate and pixelate images",
	Version: AppVersion,
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode with verbose logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogger initializes the logger with appropriate level
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
