package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixel-transforms/internal/core"
)

func TestRegistryNames(t *testing.T) {
	assert.Equal(t, []string{"block_average", "block_means", "box_average", "quantize", "rotate"}, Names())
	for _, names := range GetAlgorithmsByCategory() {
		for _, name := range names {
			assert.True(t, IsValidAlgorithm(name), name)
		}
	}
}

func TestRegistryApply(t *testing.T) {
	src := gradient(t, 6, 6, 1)

	tests := []struct {
		name   string
		params Params
		want   func(*core.Buffer) (*core.Buffer, error)
	}{
		{"quantize", Params{"levels": 4}, func(b *core.Buffer) (*core.Buffer, error) { return Quantize(b, 4) }},
		{"quantize", Params{"levels": 16.0}, func(b *core.Buffer) (*core.Buffer, error) { return Quantize(b, 16) }},
		{"box_average", Params{"kernel_size": 3}, func(b *core.Buffer) (*core.Buffer, error) { return BoxAverage(b, 3) }},
		{"rotate", Params{"angle": 90}, func(b *core.Buffer) (*core.Buffer, error) { return Rotate(b, 90) }},
		{"rotate", Params{"angle": 30.5}, func(b *core.Buffer) (*core.Buffer, error) { return Rotate(b, 30.5) }},
		{"block_average", Params{"block_size": int64(4)}, func(b *core.Buffer) (*core.Buffer, error) { return BlockAverage(b, 4) }},
		{"block_means", Params{"block_size": 2}, func(b *core.Buffer) (*core.Buffer, error) { return BlockMeans(b, 2) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.name, src, tt.params)
			require.NoError(t, err)
			want, err := tt.want(src)
			require.NoError(t, err)
			requireSameBuffer(t, want, got)
		})
	}
}

func TestRegistryDefaults(t *testing.T) {
	src := gradient(t, 4, 4, 3)
	for _, name := range Names() {
		algorithm, ok := Get(name)
		require.True(t, ok)
		assert.NotEmpty(t, algorithm.GetName())
		assert.NotEmpty(t, algorithm.GetDescription())
		assert.NotEmpty(t, algorithm.GetParameterInfo())

		params := algorithm.GetDefaultParams()
		require.NoError(t, algorithm.Validate(params), name)
		_, err := algorithm.Apply(src, params)
		require.NoError(t, err, name)
	}
}

func TestRegistryInvalidParameters(t *testing.T) {
	src := gradient(t, 4, 4, 1)
	tests := []struct {
		name   string
		params Params
	}{
		{"quantize", Params{"levels": 1}},
		{"quantize", Params{"levels": 2.5}},
		{"quantize", Params{"levels": "eight"}},
		{"box_average", Params{"kernel_size": 4}},
		{"rotate", Params{"angle": "ninety"}},
		{"block_average", Params{"block_size": 0}},
		{"no_such_algorithm", Params{}},
	}
	for _, tt := range tests {
		err := ValidateParameters(tt.name, tt.params)
		assert.ErrorIs(t, err, core.ErrInvalidParameter, "%s %v", tt.name, tt.params)
		out, err := Apply(tt.name, src, tt.params)
		assert.ErrorIs(t, err, core.ErrInvalidParameter)
		assert.Nil(t, out)
	}
}
