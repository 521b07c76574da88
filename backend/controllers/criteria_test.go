package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestCriterionValuesComplete(t *testing.T) {
	values, err := criterionValues(floatPtr(6.5), floatPtr(7.0), floatPtr(6.0), floatPtr(6.5))
	require.NoError(t, err)
	assert.Equal(t, []float64{6.5, 7.0, 6.0, 6.5}, values)
}

func TestCriterionValuesRejectsMissing(t *testing.T) {
	// A criterion left out of the request must not default to 0.
	_, err := criterionValues(floatPtr(6.5), nil, floatPtr(6.0), floatPtr(6.5))
	require.Error(t, err)
	assert.Equal(t, errCriterionMissing, err)

	_, err = criterionValues(nil, nil, nil, nil)
	assert.Equal(t, errCriterionMissing, err)
}

func TestCriterionValuesRejectsOutOfRange(t *testing.T) {
	_, err := criterionValues(floatPtr(6.5), floatPtr(9.5), floatPtr(6.0), floatPtr(6.5))
	assert.Equal(t, errCriterionOutOfRange, err)

	_, err = criterionValues(floatPtr(-1), floatPtr(7.0), floatPtr(6.0), floatPtr(6.5))
	assert.Equal(t, errCriterionOutOfRange, err)
}

func TestCriterionValuesBounds(t *testing.T) {
	values, err := criterionValues(floatPtr(0), floatPtr(9), floatPtr(0), floatPtr(9))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 9, 0, 9}, values)
}
