package match

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns the Unicode case-folded form of s with surrounding
// whitespace removed. Folded strings compare equal regardless of case,
// including accented letters such as "Ã" and "ã".
//
// A new Caser is created per call because Casers are stateful and must not
// be shared between goroutines.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Keywords is a list of keywords stored in folded form.
// It is built once and reused for every comparison.
type Keywords []string

// NewKeywords folds the given keywords.
func NewKeywords(words ...string) Keywords {
	k := make(Keywords, len(words))
	for i, w := range words {
		k[i] = Fold(w)
	}
	return k
}

// AnyIn reports whether any keyword is a substring of the folded name.
func (k Keywords) AnyIn(folded string) bool {
	for _, w := range k {
		if strings.Contains(folded, w) {
			return true
		}
	}
	return false
}

// AllIn reports whether every keyword is a substring of the folded name.
func (k Keywords) AllIn(folded string) bool {
	for _, w := range k {
		if !strings.Contains(folded, w) {
			return false
		}
	}
	return len(k) > 0
}
