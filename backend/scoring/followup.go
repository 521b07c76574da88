package scoring

import (
	"math/rand"
	"sync"
	"time"
)

// CanFollowUp reports whether another follow-up question may be asked for a
// topic, given how many have been asked already and the topic's cap.
func CanFollowUp(followupCount, maxFollowups int) bool {
	return followupCount < maxFollowups
}

// Candidate is one selectable speaking question with its difficulty weight.
type Candidate struct {
	ID     uint
	Weight int
}

// QuestionSelector draws questions with probability proportional to their
// difficulty weight. Zero- and negative-weight candidates are never drawn.
// Safe for concurrent use: rand.Rand is not, so draws are serialized.
type QuestionSelector struct {
	mu   sync.Mutex
	rand *rand.Rand
}

func NewQuestionSelector() *QuestionSelector {
	return &QuestionSelector{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Pick returns one candidate by weighted random draw, or false when no
// candidate has positive weight.
func (s *QuestionSelector) Pick(candidates []Candidate) (Candidate, bool) {
	totalWeight := 0
	for _, c := range candidates {
		if c.Weight > 0 {
			totalWeight += c.Weight
		}
	}
	if totalWeight == 0 {
		return Candidate{}, false
	}

	s.mu.Lock()
	r := s.rand.Intn(totalWeight)
	s.mu.Unlock()
	cumulative := 0
	for _, c := range candidates {
		if c.Weight <= 0 {
			continue
		}
		cumulative += c.Weight
		if r < cumulative {
			return c, true
		}
	}

	// Unreachable: the cumulative sum covers [0, totalWeight).
	return Candidate{}, false
}
