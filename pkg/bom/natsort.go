package bom

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// chunk is one run of a natural sort key. Keys always alternate text,
// digits, text, ... starting with a (possibly empty) text run, so chunks
// at the same index are of the same kind.
type chunk struct {
	text  string
	digit bool
}

func naturalKey(s string, fold cases.Caser) []chunk {
	var key []chunk
	digit := false
	start := 0
	for i, r := range s {
		isDigit := r >= '0' && r <= '9'
		if isDigit != digit {
			key = append(key, chunk{text: s[start:i], digit: digit})
			start, digit = i, isDigit
		}
	}
	key = append(key, chunk{text: s[start:], digit: digit})

	for i := range key {
		if !key[i].digit {
			key[i].text = fold.String(key[i].text)
		}
	}
	return key
}

// compareDigits compares two runs of ASCII digits by numeric value.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func compareKeys(a, b []chunk) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		var c int
		if a[i].digit {
			c = compareDigits(a[i].text, b[i].text)
		} else {
			c = strings.Compare(a[i].text, b[i].text)
		}
		if c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// NaturalCompare orders strings with embedded numbers by value:
// "R2" < "R10". Text runs compare case-insensitively. Strings that differ
// only in case or leading zeros compare equal.
func NaturalCompare(a, b string) int {
	fold := cases.Fold()
	return compareKeys(naturalKey(a, fold), naturalKey(b, fold))
}

// NaturalLess reports whether a sorts before b in natural order.
func NaturalLess(a, b string) bool {
	return NaturalCompare(a, b) < 0
}

// NaturalSort sorts refs in place in natural order. The sort is stable.
func NaturalSort(refs []string) {
	fold := cases.Fold()
	keys := make(map[string][]chunk, len(refs))
	for _, r := range refs {
		if _, ok := keys[r]; !ok {
			keys[r] = naturalKey(r, fold)
		}
	}
	slices.SortStableFunc(refs, func(a, b string) int {
		return compareKeys(keys[a], keys[b])
	})
}
