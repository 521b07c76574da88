// Package scoring implements the answer-grading and band-score engine.
// It operates on plain data only: callers materialize the test structure
// and the submitted answers before invoking it, so nothing here touches
// the database or blocks on I/O.
package scoring

import "strconv"

// Skill selects which band conversion table applies.
type Skill int

const (
	SkillReading Skill = iota
	SkillListening
)

// Pack is the grading unit: a contiguous inclusive question range
// [Start, End] sharing one reference-answer map and one order rule.
type Pack struct {
	Start        int
	End          int
	OrderMatters bool
	// Answers maps the question number (as string, matching the stored
	// JSON format) to the list of accepted answers.
	Answers map[string][]string
}

// Contains reports whether the question number falls inside the pack range.
func (p Pack) Contains(questionNumber int) bool {
	return p.Start <= questionNumber && questionNumber <= p.End
}

// AnswersFor returns the accepted answers for a question, nil when the
// question has no entry in the key.
func (p Pack) AnswersFor(questionNumber int) []string {
	return p.Answers[strconv.Itoa(questionNumber)]
}

// Questions returns the count of questions in the pack.
func (p Pack) Questions() int {
	return p.End - p.Start + 1
}

// Unit is one content subdivision of a test: a reading passage or a
// listening section. Key identifies the unit in per-section breakdowns
// and is empty where no breakdown is wanted.
type Unit struct {
	Key   string
	Packs []Pack
}

// TestPlan is the static question structure of one test.
type TestPlan struct {
	Skill Skill
	Units []Unit
}

// Locate finds the pack containing a global question number. Ranges must
// not overlap within a unit, so at most one pack matches.
func (t TestPlan) Locate(questionNumber int) (Pack, bool) {
	for _, unit := range t.Units {
		for _, pack := range unit.Packs {
			if pack.Contains(questionNumber) {
				return pack, true
			}
		}
	}
	return Pack{}, false
}

// TotalQuestions sums the question counts of every pack in the plan.
func (t TestPlan) TotalQuestions() int {
	total := 0
	for _, unit := range t.Units {
		for _, pack := range unit.Packs {
			total += pack.Questions()
		}
	}
	return total
}
