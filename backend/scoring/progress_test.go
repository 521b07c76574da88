package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func listeningPlanTwoSections() TestPlan {
	return TestPlan{
		Skill: SkillListening,
		Units: []Unit{
			{
				Key: "section1",
				Packs: []Pack{
					{Start: 1, End: 3, Answers: map[string][]string{}},
				},
			},
			{
				Key: "section2",
				Packs: []Pack{
					{Start: 4, End: 6, Answers: map[string][]string{}},
				},
			},
		},
	}
}

func TestProgressEmpty(t *testing.T) {
	info := Progress(listeningPlanTwoSections(), nil)

	assert.Equal(t, 6, info.Total)
	assert.Equal(t, 0, info.Answered)
	assert.Equal(t, 0.0, info.Percentage)
	assert.Equal(t, "section1", info.CurrentSection)
}

func TestProgressPartial(t *testing.T) {
	info := Progress(listeningPlanTwoSections(), []int{1, 2})

	assert.Equal(t, 2, info.Answered)
	assert.InDelta(t, 33.33, info.Percentage, 0.01)
	assert.Equal(t, "section1", info.CurrentSection)
}

func TestProgressAdvancesPastCompletedSection(t *testing.T) {
	info := Progress(listeningPlanTwoSections(), []int{1, 2, 3})

	assert.Equal(t, "section2", info.CurrentSection)
}

func TestProgressOutOfOrderAnswering(t *testing.T) {
	// A user who jumps ahead is still pointed back at the earliest open
	// section, even though the highest answered question sits further on.
	info := Progress(listeningPlanTwoSections(), []int{4, 5, 6})

	assert.Equal(t, 3, info.Answered)
	assert.Equal(t, "section1", info.CurrentSection)
}

func TestProgressAllAnswered(t *testing.T) {
	info := Progress(listeningPlanTwoSections(), []int{1, 2, 3, 4, 5, 6})

	assert.Equal(t, 100.0, info.Percentage)
	assert.Equal(t, "", info.CurrentSection)
}

func TestProgressReadingPlanHasNoSection(t *testing.T) {
	plan := TestPlan{
		Skill: SkillReading,
		Units: []Unit{{Packs: []Pack{{Start: 1, End: 4}}}},
	}

	info := Progress(plan, []int{1, 2})

	assert.Equal(t, 4, info.Total)
	assert.Equal(t, 50.0, info.Percentage)
	assert.Equal(t, "", info.CurrentSection)
}

func TestProgressZeroTotal(t *testing.T) {
	info := Progress(TestPlan{}, nil)

	assert.Equal(t, 0, info.Total)
	assert.Equal(t, 0.0, info.Percentage)
}
