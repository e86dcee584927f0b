package pricing

import (
	"math"
	"testing"

	"github.com/leviwiederhold/forman/pkg/enums"
	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "exact cents", in: 12.34, want: 12.34},
		{name: "half cent rounds up", in: 0.125, want: 0.13},
		{name: "binary representation nudge", in: 1.005, want: 1.01},
		{name: "below half rounds down", in: 2.344, want: 2.34},
		{name: "product rounded before floor", in: 2.675, want: 2.68},
		{name: "negative ties toward positive", in: -0.125, want: -0.12},
		{name: "nan coerces to zero", in: math.NaN(), want: 0},
		{name: "inf coerces to zero", in: math.Inf(1), want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Round2(tc.in))
		})
	}
}

func TestNormalizeSquares(t *testing.T) {
	assert.Equal(t, 24.0, NormalizeSquares(2400, enums.RoofSizeUnitSqft))
	assert.Equal(t, 24.0, NormalizeSquares(24, enums.RoofSizeUnitSquares))
	assert.Equal(t, 23.456, NormalizeSquares(23.456, enums.RoofSizeUnitSquares))
	assert.Equal(t, 0.0, NormalizeSquares(0, enums.RoofSizeUnitSquares))
	assert.Equal(t, 0.0, NormalizeSquares(-5, enums.RoofSizeUnitSqft))
	assert.Equal(t, 0.0, NormalizeSquares(math.NaN(), enums.RoofSizeUnitSquares))
}
