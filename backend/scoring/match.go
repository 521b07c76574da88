package scoring

// IsCorrect compares a user's answers against the reference answers for one
// question. Both sides are normalized first. With orderMatters the
// sequences must match element by element; otherwise they are compared as
// sets, which covers matching-type tasks where items may come in any order.
// An empty reference list never matches: an unconfigured question cannot be
// marked correct.
func IsCorrect(userAnswers, referenceAnswers []string, orderMatters bool) bool {
	if len(referenceAnswers) == 0 {
		return false
	}

	user := normalizeAll(userAnswers)
	reference := normalizeAll(referenceAnswers)

	if orderMatters {
		if len(user) != len(reference) {
			return false
		}
		for i := range user {
			if user[i] != reference[i] {
				return false
			}
		}
		return true
	}

	return setEqual(toSet(user), toSet(reference))
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
