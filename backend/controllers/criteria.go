package controllers

import "errors"

var (
	errCriterionMissing    = errors.New("all four criterion scores are required")
	errCriterionOutOfRange = errors.New("criterion scores must be between 0 and 9")
)

// criterionValues unwraps the four criterion scores of a marking request.
// A band is only computed from a complete set, so an absent criterion is an
// error rather than an implicit 0.
func criterionValues(ptrs ...*float64) ([]float64, error) {
	values := make([]float64, 0, len(ptrs))
	for _, p := range ptrs {
		if p == nil {
			return nil, errCriterionMissing
		}
		if *p < 0 || *p > 9 {
			return nil, errCriterionOutOfRange
		}
		values = append(values, *p)
	}
	return values, nil
}
