package scoring

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanFollowUp(t *testing.T) {
	assert.True(t, CanFollowUp(0, 1))
	assert.False(t, CanFollowUp(1, 1))
	assert.True(t, CanFollowUp(1, 2))
	assert.False(t, CanFollowUp(2, 2))
	assert.False(t, CanFollowUp(0, 0))
}

func TestPickEmpty(t *testing.T) {
	s := NewQuestionSelector()

	_, ok := s.Pick(nil)
	assert.False(t, ok)

	_, ok = s.Pick([]Candidate{})
	assert.False(t, ok)
}

func TestPickSingleCandidate(t *testing.T) {
	s := NewQuestionSelector()
	only := Candidate{ID: 7, Weight: 3}

	for i := 0; i < 50; i++ {
		picked, ok := s.Pick([]Candidate{only})
		require.True(t, ok)
		assert.Equal(t, only.ID, picked.ID)
	}
}

func TestPickNeverSelectsZeroWeight(t *testing.T) {
	s := NewQuestionSelector()
	candidates := []Candidate{
		{ID: 1, Weight: 0},
		{ID: 2, Weight: 5},
		{ID: 3, Weight: 0},
	}

	for i := 0; i < 200; i++ {
		picked, ok := s.Pick(candidates)
		require.True(t, ok)
		assert.Equal(t, uint(2), picked.ID)
	}
}

func TestPickAllZeroWeight(t *testing.T) {
	s := NewQuestionSelector()

	_, ok := s.Pick([]Candidate{{ID: 1, Weight: 0}, {ID: 2, Weight: 0}})
	assert.False(t, ok)
}

func TestPickConcurrent(t *testing.T) {
	s := NewQuestionSelector()
	candidates := []Candidate{
		{ID: 1, Weight: 1},
		{ID: 2, Weight: 3},
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				picked, ok := s.Pick(candidates)
				assert.True(t, ok)
				assert.Contains(t, []uint{1, 2}, picked.ID)
			}
		}()
	}
	wg.Wait()
}

func TestPickDistributionFollowsWeights(t *testing.T) {
	s := NewQuestionSelector()
	candidates := []Candidate{
		{ID: 1, Weight: 1},
		{ID: 2, Weight: 3},
	}

	const trials = 40000
	counts := make(map[uint]int)
	for i := 0; i < trials; i++ {
		picked, ok := s.Pick(candidates)
		require.True(t, ok)
		counts[picked.ID]++
	}

	// Expected shares 25% / 75%; allow a generous tolerance.
	share1 := float64(counts[1]) / trials
	share2 := float64(counts[2]) / trials
	assert.InDelta(t, 0.25, share1, 0.03)
	assert.InDelta(t, 0.75, share2, 0.03)
}
