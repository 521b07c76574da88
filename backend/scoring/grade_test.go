package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readingPlanTwoPacks() TestPlan {
	return TestPlan{
		Skill: SkillReading,
		Units: []Unit{
			{
				Packs: []Pack{
					{
						Start:        1,
						End:          2,
						OrderMatters: true,
						Answers: map[string][]string{
							"1": {"London"},
							"2": {"Paris", "France"},
						},
					},
					{
						Start:        3,
						End:          3,
						OrderMatters: false,
						Answers: map[string][]string{
							"3": {"cat", "dog"},
						},
					},
				},
			},
		},
	}
}

func TestGradeAllCorrect(t *testing.T) {
	plan := readingPlanTwoPacks()
	answers := map[int][]string{
		1: {"london"},
		2: {"Paris", "France"},
		3: {"dog", "cat"},
	}

	result := Grade(plan, answers)

	assert.Equal(t, 3, result.Correct)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 100.0, result.Percentage)
	assert.Equal(t, 9.0, result.Band)
	assert.True(t, result.PerQuestion[1])
	assert.True(t, result.PerQuestion[2])
	assert.True(t, result.PerQuestion[3])
}

func TestGradeOrderSensitiveMiss(t *testing.T) {
	plan := readingPlanTwoPacks()
	answers := map[int][]string{
		1: {"london"},
		2: {"France", "Paris"}, // swapped, order matters
		3: {"dog", "cat"},
	}

	result := Grade(plan, answers)

	assert.Equal(t, 2, result.Correct)
	assert.Equal(t, 3, result.Total)
	assert.InDelta(t, 66.67, result.Percentage, 0.01)
	assert.Equal(t, 7.0, result.Band)
	assert.False(t, result.PerQuestion[2])
}

func TestGradeUnansweredCountsTowardTotal(t *testing.T) {
	plan := readingPlanTwoPacks()
	answers := map[int][]string{1: {"London"}}

	result := Grade(plan, answers)

	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 3, result.Total)
	// Unanswered questions carry no verdict at all.
	_, graded := result.PerQuestion[2]
	assert.False(t, graded)
}

func TestGradeUnconfiguredQuestionNeverCorrect(t *testing.T) {
	plan := TestPlan{
		Skill: SkillReading,
		Units: []Unit{{
			Packs: []Pack{{
				Start:        1,
				End:          2,
				OrderMatters: true,
				Answers:      map[string][]string{"1": {"yes"}}, // no entry for 2
			}},
		}},
	}

	result := Grade(plan, map[int][]string{1: {"yes"}, 2: {"whatever"}})

	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 2, result.Total)
	assert.False(t, result.PerQuestion[2])
}

func TestGradeEmptyPlan(t *testing.T) {
	result := Grade(TestPlan{Skill: SkillReading}, nil)

	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 0.0, result.Percentage)
	assert.Equal(t, 0.0, result.Band)
}

func TestGradeIdempotent(t *testing.T) {
	plan := readingPlanTwoPacks()
	answers := map[int][]string{
		1: {"london"},
		2: {"France", "Paris"},
		3: {"dog", "cat"},
	}

	first := Grade(plan, answers)
	second := Grade(plan, answers)

	assert.Equal(t, first.Correct, second.Correct)
	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first.Band, second.Band)
	assert.Equal(t, first.Percentage, second.Percentage)
	assert.Equal(t, first.PerQuestion, second.PerQuestion)
}

func TestGradeListeningSectionBreakdown(t *testing.T) {
	plan := TestPlan{
		Skill: SkillListening,
		Units: []Unit{
			{
				Key: "section1",
				Packs: []Pack{{
					Start:        1,
					End:          2,
					OrderMatters: true,
					Answers: map[string][]string{
						"1": {"bus"},
						"2": {"train"},
					},
				}},
			},
			{
				Key: "section2",
				Packs: []Pack{{
					Start:        3,
					End:          4,
					OrderMatters: true,
					Answers: map[string][]string{
						"3": {"library"},
						"4": {"museum"},
					},
				}},
			},
		},
	}

	answers := map[int][]string{
		1: {"Bus"},
		2: {"car"}, // wrong
		3: {"library"},
	}

	result := Grade(plan, answers)

	require.Contains(t, result.Sections, "section1")
	require.Contains(t, result.Sections, "section2")
	assert.Equal(t, SectionScore{Correct: 1, Total: 2, Percentage: 50.0}, result.Sections["section1"])
	assert.Equal(t, SectionScore{Correct: 1, Total: 2, Percentage: 50.0}, result.Sections["section2"])
	assert.Equal(t, 2, result.Correct)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 5.5, result.Band) // 50% on the listening table
}

func TestLocate(t *testing.T) {
	plan := readingPlanTwoPacks()

	pack, found := plan.Locate(2)
	require.True(t, found)
	assert.Equal(t, 1, pack.Start)
	assert.Equal(t, 2, pack.End)

	pack, found = plan.Locate(3)
	require.True(t, found)
	assert.False(t, pack.OrderMatters)

	_, found = plan.Locate(99)
	assert.False(t, found)
}

func TestTotalQuestions(t *testing.T) {
	assert.Equal(t, 3, readingPlanTwoPacks().TotalQuestions())
	assert.Equal(t, 0, TestPlan{}.TotalQuestions())
}
