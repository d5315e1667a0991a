package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pixel-transforms/internal/config"
	"pixel-transforms/internal/core"
	"pixel-transforms/internal/imageio"
	"pixel-transforms/internal/imageio/opencv"
	"pixel-transforms/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every configured sweep on one image and write the results",
	RunE:  runSweeps,
}

func init() {
	runCmd.Flags().StringP("config", "c", "", "YAML task plan (defaults to the built-in plan)")
	runCmd.Flags().StringP("input", "i", "", "Input image file")
	runCmd.Flags().StringP("output-dir", "o", "", "Directory for result images")
	runCmd.Flags().Bool("grayscale", false, "Decode the input as a single channel")
	runCmd.Flags().String("codec", "", "Image codec: gocv or native")
	runCmd.Flags().Int("concurrency", 0, "Maximum tasks in flight (0 = GOMAXPROCS)")
	rootCmd.AddCommand(runCmd)
}

func runSweeps(cmd *cobra.Command, args []string) error {
	debugMode, _ := cmd.Flags().GetBool("debug")
	logger := initLogger(debugMode)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Input == "" {
		return fmt.Errorf("no input image: set --input or input in the config")
	}

	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"input":      cfg.Input,
		"output_dir": cfg.OutputDir,
		"codec":      cfg.Codec,
		"grayscale":  cfg.Grayscale,
	}).Info("Starting sweep run")

	codec := newCodec(cfg.Codec, logger)
	src, err := codec.LoadImage(cfg.Input, cfg.Grayscale)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewRunner(logger, pipeline.WithConcurrency(cfg.Concurrency))
	report, err := runner.Run(ctx, src, cfg.Tasks(), saveResult(codec, cfg.OutputDir, logger))
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if failed := report.Failed(); len(failed) > 0 {
		for _, res := range failed {
			logger.WithField("task_id", res.Task.ID).WithError(res.Err).Error("Task did not complete")
		}
		return fmt.Errorf("%d of %d tasks failed", len(failed), len(report.Results))
	}

	logger.WithField("tasks", report.Succeeded()).Info("All tasks completed")
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input, _ = flags.GetString("input")
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("grayscale") {
		cfg.Grayscale, _ = flags.GetBool("grayscale")
	}
	if flags.Changed("codec") {
		cfg.Codec, _ = flags.GetString("codec")
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newCodec(name string, logger *logrus.Logger) imageio.Codec {
	if name == config.CodecNative {
		return imageio.NewNativeLoader(logger)
	}
	return opencv.NewLoader(logger)
}

// saveResult writes each buffer as <dir>/<task id>.png and logs its metadata.
func saveResult(codec imageio.Codec, dir string, logger *logrus.Logger) pipeline.ResultHandler {
	return func(taskID string, buf *core.Buffer, meta pipeline.Metadata) error {
		path := filepath.Join(dir, taskID+".png")
		if err := codec.SaveImage(buf, path); err != nil {
			return err
		}

		fields := logrus.Fields{
			"task_id":   taskID,
			"parameter": meta.Parameter,
			"value":     meta.Value,
			"rows":      meta.Rows,
			"cols":      meta.Cols,
			"channels":  meta.Channels,
			"path":      path,
		}
		logger.WithFields(fields).WithFields(metricFields(meta.Metrics)).Info("Result written")
		return nil
	}
}

// metricFields prefixes metric names for logging. Non-finite values, such as
// the PSNR of an unchanged image, are logged as strings since JSON has no
// encoding for them.
func metricFields(metrics map[string]float64) logrus.Fields {
	fields := make(logrus.Fields, len(metrics))
	for name, v := range metrics {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			fields["metric_"+name] = strconv.FormatFloat(v, 'g', -1, 64)
			continue
		}
		fields["metric_"+name] = v
	}
	return fields
}
