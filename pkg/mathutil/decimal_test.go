package mathutil_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

func TestParseDecimal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		expected string
	}{
		{"1", "1000000000000000000"},
		{"0.002", "2000000000000000"},
		{"100", "100000000000000000000"},
		{"0.000000000000000001", "1"},
		{"0", "0"},
	}

	for _, tt := range tests {
		got, err := mathutil.ParseDecimal(tt.in)
		require.NoError(t, err)
		require.Equal(t, tt.expected, mathutil.FormatUnits(got))
		require.Equal(t, tt.in, mathutil.FormatDecimal(got))
	}
}

func TestFailingParseDecimal(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"-1", "abc", "0.0000000000000000001", "1e80",
	} {
		_, err := mathutil.ParseDecimal(in)
		require.ErrorIs(t, err, mathutil.ErrInvalidDecimal, in)
	}
}

func TestUnits(t *testing.T) {
	t.Parallel()

	v, err := mathutil.ParseUnits("986174542266106307")
	require.NoError(t, err)
	require.Equal(t, "986174542266106307", mathutil.FormatUnits(v))
	require.Equal(t, "0.986174542266106307", mathutil.FormatDecimal(v))

	_, err = mathutil.ParseUnits("1.5")
	require.ErrorIs(t, err, mathutil.ErrInvalidDecimal)
}
