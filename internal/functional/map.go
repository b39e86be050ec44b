package functional

import (
	"github.com/agext/levenshtein"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func Map[T any, U any](slice []T, f func(T) U) []U {
	result := make([]U, len(slice))
	for i, t := range slice {
		result[i] = f(t)
	}
	return result
}

// SortedKeys returns the keys of m in ascending order
func SortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// Suggest the option closest to text. Options that are as far away as
// rewriting text entirely are not considered a suggestion
func Suggest(text string, options []string) string {
	suggestion := ""
	bestDistance := len(text)
	for _, option := range options {
		dist := levenshtein.Distance(text, option, nil)
		if dist < bestDistance {
			suggestion = option
			bestDistance = dist
		}
	}

	return suggestion
}
