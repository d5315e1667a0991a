package algorithms

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"pixel-transforms/internal/core"
)

// gradient returns a deterministic buffer whose samples vary with position
// and channel.
func gradient(t *testing.T, rows, cols, channels int) *core.Buffer {
	t.Helper()
	b, err := core.NewBuffer(rows, cols, channels)
	require.NoError(t, err)
	for r := range rows {
		for c := range cols {
			for k := range channels {
				b.Set(r, c, k, uint8((r*7+c*13+k*50)%256))
			}
		}
	}
	return b
}

func constant(t *testing.T, rows, cols, channels int, v uint8) *core.Buffer {
	t.Helper()
	b, err := core.NewBuffer(rows, cols, channels)
	require.NoError(t, err)
	for i := range b.Pix {
		b.Pix[i] = v
	}
	return b
}

func requireSameBuffer(t *testing.T, want, got *core.Buffer) {
	t.Helper()
	require.Equal(t, want.Metadata(), got.Metadata())
	if diff := cmp.Diff(want.Pix, got.Pix); diff != "" {
		t.Fatalf("samples differ (-want +got):\n%s", diff)
	}
}
