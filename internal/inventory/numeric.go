package inventory

import "strings"

// compareTaskNames orders task names with awareness of a leading numeric
// prefix, so "2_task" sorts before "10_task" rather than after it.
//
// A name splits into a leading digit run (possibly empty) and the rest.
// When both names have digit runs the runs compare numerically, then the
// suffixes compare lexically. A name without a digit run sorts before
// any name with one. Returns -1, 0 or 1; callers needing a total order
// break the remaining ties on the raw strings.
func compareTaskNames(a, b string) int {
	aDigits, aRest := splitNumericPrefix(a)
	bDigits, bRest := splitNumericPrefix(b)
	switch {
	case aDigits != "" && bDigits != "":
		if c := compareDigitRuns(aDigits, bDigits); c != 0 {
			return c
		}
		return strings.Compare(aRest, bRest)
	case aDigits == "" && bDigits == "":
		return strings.Compare(a, b)
	case aDigits == "":
		return -1
	default:
		return 1
	}
}

func splitNumericPrefix(s string) (digits, rest string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}

// compareDigitRuns compares two non-empty digit strings by numeric value
// without parsing them, so arbitrarily long runs cannot overflow.
func compareDigitRuns(a, b string) int {
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
