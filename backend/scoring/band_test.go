package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandForReading(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		want    float64
	}{
		{"perfect", 40, 40, 9.0},
		{"36 of 40", 36, 40, 9.0},
		{"35 of 40", 35, 40, 8.5},
		{"30 of 40", 30, 40, 8.0},
		{"27 of 40", 27, 40, 7.5},
		{"24 of 40", 24, 40, 7.0},
		{"21 of 40", 21, 40, 6.5},
		{"18 of 40", 18, 40, 6.0},
		{"15 of 40", 15, 40, 5.5},
		{"12 of 40", 12, 40, 5.0},
		{"9 of 40", 9, 40, 4.5},
		{"6 of 40", 6, 40, 4.0},
		{"3 of 40", 3, 40, 3.5},
		{"2 of 40 floors at 3.0", 2, 40, 3.0},
		{"zero correct", 0, 40, 3.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BandFor(SkillReading, tc.correct, tc.total))
		})
	}
}

func TestBandForListening(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		want    float64
	}{
		{"perfect", 40, 40, 9.0},
		{"39 of 40", 39, 40, 9.0},
		{"38 of 40", 38, 40, 8.5},
		{"36 of 40", 36, 40, 8.5},
		{"33 of 40", 33, 40, 8.0},
		{"30 of 40", 30, 40, 7.5},
		{"27 of 40", 27, 40, 7.0},
		{"24 of 40", 24, 40, 6.5},
		{"21 of 40", 21, 40, 6.0},
		{"18 of 40", 18, 40, 5.5},
		{"15 of 40", 15, 40, 5.0},
		{"12 of 40", 12, 40, 4.5},
		{"9 of 40", 9, 40, 4.0},
		{"6 of 40", 6, 40, 3.5},
		{"5 of 40 floors at 3.0", 5, 40, 3.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BandFor(SkillListening, tc.correct, tc.total))
		})
	}
}

func TestBandForZeroTotal(t *testing.T) {
	assert.Equal(t, 0.0, BandFor(SkillReading, 0, 0))
	assert.Equal(t, 0.0, BandFor(SkillListening, 0, 0))
}

func TestBandForMonotonic(t *testing.T) {
	for _, skill := range []Skill{SkillReading, SkillListening} {
		prev := 0.0
		for correct := 0; correct <= 40; correct++ {
			band := BandFor(skill, correct, 40)
			assert.GreaterOrEqual(t, band, prev, "band dropped at correct=%d", correct)
			prev = band
		}
	}
}

func TestBandThresholdsApplyToAnyTotal(t *testing.T) {
	// Thresholds are percentage-based and calibrated for 40 questions, but
	// the same brackets apply to any test length.
	assert.Equal(t, 7.0, BandFor(SkillReading, 2, 3)) // 66.67% -> >=0.60 bracket
	assert.Equal(t, 9.0, BandFor(SkillReading, 3, 3))
	assert.Equal(t, 9.0, BandFor(SkillListening, 10, 10))
	assert.Equal(t, 8.5, BandFor(SkillListening, 9, 10)) // 0.90 bracket
}
