package scoring

import "strings"

// spellingPairs are British/American alternatives accepted as equivalent
// when authoring reference answers.
var spellingPairs = [][2]string{
	{"colour", "color"},
	{"centre", "center"},
	{"favourite", "favorite"},
	{"theatre", "theater"},
	{"metre", "meter"},
	{"litre", "liter"},
	{"organise", "organize"},
	{"programme", "program"},
}

// Normalize canonicalizes one answer token for comparison.
func Normalize(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}

func normalizeAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = Normalize(t)
	}
	return out
}

// ExpandVariants expands reference answers into their accepted spelling and
// case variants. It is an authoring utility: the matcher normalizes both
// sides instead of pre-expanding, so only admin tooling calls this.
func ExpandVariants(answers []string) []string {
	seen := make(map[string]struct{})
	var variants []string

	add := func(v string) {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			variants = append(variants, v)
		}
	}

	for _, answer := range answers {
		add(answer)

		lower := strings.ToLower(answer)
		for _, pair := range spellingPairs {
			if strings.Contains(lower, pair[0]) {
				add(replaceSpelling(answer, pair[0], pair[1]))
			}
			if strings.Contains(lower, pair[1]) {
				add(replaceSpelling(answer, pair[1], pair[0]))
			}
		}

		add(strings.ToLower(answer))
		add(strings.ToUpper(answer))
		add(capitalize(answer))
	}

	return variants
}

// replaceSpelling swaps both the lowercase and capitalized form of a word.
func replaceSpelling(s, from, to string) string {
	s = strings.ReplaceAll(s, from, to)
	return strings.ReplaceAll(s, capitalize(from), capitalize(to))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
