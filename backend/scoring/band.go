package scoring

type bandStep struct {
	minPercentage float64
	band          float64
}

// Published IELTS raw-score conversion, calibrated for a 40-question test.
// The same percentage thresholds are applied to any total; the tables stop
// at band 3.0 and are not extrapolated below it.

var readingBands = []bandStep{
	{0.90, 9.0},
	{0.825, 8.5},
	{0.75, 8.0},
	{0.675, 7.5},
	{0.60, 7.0},
	{0.525, 6.5},
	{0.45, 6.0},
	{0.375, 5.5},
	{0.30, 5.0},
	{0.225, 4.5},
	{0.15, 4.0},
	{0.075, 3.5},
}

var listeningBands = []bandStep{
	{0.975, 9.0},
	{0.90, 8.5},
	{0.825, 8.0},
	{0.75, 7.5},
	{0.675, 7.0},
	{0.60, 6.5},
	{0.525, 6.0},
	{0.45, 5.5},
	{0.375, 5.0},
	{0.30, 4.5},
	{0.225, 4.0},
	{0.15, 3.5},
}

// BandFor converts a raw correct count into a band score for the skill.
// A zero total means an ungraded/empty test and yields 0.0.
func BandFor(skill Skill, correct, total int) float64 {
	if total == 0 {
		return 0.0
	}

	percentage := float64(correct) / float64(total)

	steps := readingBands
	if skill == SkillListening {
		steps = listeningBands
	}

	for _, step := range steps {
		if percentage >= step.minPercentage {
			return step.band
		}
	}
	return 3.0
}
