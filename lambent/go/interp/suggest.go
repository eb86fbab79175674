package interp

import (
	"fmt"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// maxSuggestDistance is the largest edit distance, with substitutions
// costing 2, at which a defined name is offered as a suggestion.
const maxSuggestDistance = 2

// SuggestionError decorates an undefined variable error with the closest
// defined global name.
type SuggestionError struct {
	Err        error
	Suggestion string
}

// Error implements the error interface.
func (e *SuggestionError) Error() string {
	return fmt.Sprintf("%s; did you mean %q?", e.Err, e.Suggestion)
}

// Unwrap returns the undefined variable error.
func (e *SuggestionError) Unwrap() error {
	return e.Err
}

// Suggest returns the name in names closest to name, or "" if none is close
// enough. Ties go to the earliest name in names.
func Suggest(name string, names []string) string {
	best := ""
	bestDistance := maxSuggestDistance + 1
	src := []rune(name)
	for _, candidate := range names {
		if candidate == name {
			continue
		}
		target := []rune(candidate)
		// Single character names are too easy to confuse with each other.
		if len(target) < 2 {
			continue
		}
		d := levenshtein.DistanceForStrings(src, target, levenshtein.DefaultOptions)
		if d < bestDistance {
			best = candidate
			bestDistance = d
		}
	}
	return best
}
