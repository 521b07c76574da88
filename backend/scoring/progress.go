package scoring

// ProgressInfo describes how far a submission has advanced through a test.
type ProgressInfo struct {
	Total      int
	Answered   int
	Percentage float64
	// CurrentSection is the key of the first unit whose question range is
	// not yet fully answered. Empty when the plan has no keyed units or
	// every section is complete.
	CurrentSection string
}

// Progress computes completion from the set of answered question numbers.
func Progress(plan TestPlan, answered []int) ProgressInfo {
	info := ProgressInfo{
		Total:    plan.TotalQuestions(),
		Answered: len(answered),
	}
	if info.Total > 0 {
		info.Percentage = float64(info.Answered) / float64(info.Total) * 100
	}

	answeredSet := make(map[int]struct{}, len(answered))
	for _, q := range answered {
		answeredSet[q] = struct{}{}
	}

	if len(answered) == 0 {
		// Nothing answered yet: the user is on the first section.
		for _, unit := range plan.Units {
			if unit.Key != "" {
				info.CurrentSection = unit.Key
				break
			}
		}
		return info
	}

	for _, unit := range plan.Units {
		if unit.Key == "" {
			continue
		}
		if !unitFullyAnswered(unit, answeredSet) {
			info.CurrentSection = unit.Key
			break
		}
	}

	return info
}

func unitFullyAnswered(unit Unit, answered map[int]struct{}) bool {
	for _, pack := range unit.Packs {
		for q := pack.Start; q <= pack.End; q++ {
			if _, ok := answered[q]; !ok {
				return false
			}
		}
	}
	return true
}
