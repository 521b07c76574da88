package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverallBand(t *testing.T) {
	tests := []struct {
		name string
		ta   float64
		cc   float64
		lr   float64
		gr   float64
		want float64
	}{
		{"quarter rounds up", 6.5, 6.0, 7.0, 6.0, 6.5},   // avg 6.375
		{"three quarter rounds up", 6.5, 6.5, 7.0, 7.0, 7.0}, // avg 6.75
		{"exact half stays", 6.5, 6.5, 6.5, 6.5, 6.5},
		{"exact whole stays", 7.0, 7.0, 7.0, 7.0, 7.0},
		{"all nines", 9.0, 9.0, 9.0, 9.0, 9.0},
		{"all zeros", 0, 0, 0, 0, 0},
		{"low eighth rounds down", 6.0, 6.0, 6.0, 6.5, 6.0}, // avg 6.125
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, OverallBand(tc.ta, tc.cc, tc.lr, tc.gr))
		})
	}
}
