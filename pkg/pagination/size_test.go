package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", PageDefaultSize},
		{"5", 5},
		{"100000", PageMaxSize},
	}
	for _, tt := range tests {
		got, err := ParseSize(tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.raw)
	}

	for _, raw := range []string{"0", "-3", "ten"} {
		_, err := ParseSize(raw)
		assert.Error(t, err, raw)
	}
}
