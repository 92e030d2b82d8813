package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0b5bf2c5-9a4d-4b0e-8d5e-2b3c4d5e6f70", "up0:0b5bf2c59a4d4b0e8d5e2b3c4d5e6f70"},
		{"A1B2C3D4-0000-4000-8000-00000000000F", "up0:a1b2c3d400004000800000000000000f"},
	}
	for _, tt := range tests {
		got, err := ImportID(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.want, got)
		assert.LessOrEqual(t, len(got), MaxImportIDLen)
		assert.NotContains(t, got, "-")
	}
}

func TestImportID_Deterministic(t *testing.T) {
	const src = "6c3a1f0e-2d4b-4c5a-9e8f-7a6b5c4d3e2f"
	first, err := ImportID(src)
	require.NoError(t, err)
	for n := 0; n < 5; n++ {
		again, err := ImportID(src)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestImportID_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"not-a-uuid",
		"0b5bf2c5-9a4d-4b0e-8d5e",
	}
	for _, input := range badInputs {
		_, err := ImportID(input)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}

func TestSourceID(t *testing.T) {
	const src = "0b5bf2c5-9a4d-4b0e-8d5e-2b3c4d5e6f70"
	imp, err := ImportID(src)
	require.NoError(t, err)

	got, err := SourceID(imp)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestIsOwn(t *testing.T) {
	assert.True(t, IsOwn("up0:0b5bf2c59a4d4b0e8d5e2b3c4d5e6f70"))
	assert.False(t, IsOwn("YNAB:-5500:2021-03-04:1"))
	assert.False(t, IsOwn("up0:zz"))
	assert.False(t, IsOwn("up0:"+strings.Repeat("a", 30)))
}
