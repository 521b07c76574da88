package scoring

// SectionScore is the per-section breakdown of a graded submission.
type SectionScore struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Result is the outcome of grading one full submission.
type Result struct {
	Correct    int
	Total      int
	Percentage float64
	Band       float64
	// PerQuestion holds the verdict for every answered question, so the
	// caller can persist correctness flags onto the stored answers.
	PerQuestion map[int]bool
	// Sections is keyed by unit key and only populated for units that
	// carry one (listening sections).
	Sections map[string]SectionScore
}

// Grade walks every pack of every unit and scores the submitted answers
// against the reference keys. A missing answer counts toward the total but
// never toward the correct count; so does a question with no reference
// entry. Grading is pure: calling it twice with the same inputs yields the
// same result.
func Grade(plan TestPlan, answers map[int][]string) Result {
	result := Result{
		PerQuestion: make(map[int]bool),
		Sections:    make(map[string]SectionScore),
	}

	for _, unit := range plan.Units {
		sectionCorrect := 0
		sectionTotal := 0

		for _, pack := range unit.Packs {
			for q := pack.Start; q <= pack.End; q++ {
				result.Total++
				sectionTotal++

				userAnswers, answered := answers[q]
				if !answered {
					continue
				}

				correct := IsCorrect(userAnswers, pack.AnswersFor(q), pack.OrderMatters)
				result.PerQuestion[q] = correct
				if correct {
					result.Correct++
					sectionCorrect++
				}
			}
		}

		if unit.Key != "" {
			score := SectionScore{Correct: sectionCorrect, Total: sectionTotal}
			if sectionTotal > 0 {
				score.Percentage = float64(sectionCorrect) / float64(sectionTotal) * 100
			}
			result.Sections[unit.Key] = score
		}
	}

	if result.Total > 0 {
		result.Percentage = float64(result.Correct) / float64(result.Total) * 100
	}
	result.Band = BandFor(plan.Skill, result.Correct, result.Total)

	return result
}
