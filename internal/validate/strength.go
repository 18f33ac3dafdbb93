package validate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// guessable words drop a short admin password one class.
var guessable = []string{"admin", "password", "earthy", "reads", "book"}

// Strength scores an admin password 0..4 for the startup warning. It is a
// coarse length and character-class heuristic, not an entropy estimate.
func Strength(pwd string) (score int, reason string) {
	n := utf8.RuneCountInString(pwd)
	var lower, upper, digit, other bool
	for _, r := range pwd {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			other = true
		}
	}
	classes := 0
	for _, ok := range []bool{lower, upper, digit, other} {
		if ok {
			classes++
		}
	}

	if n < 16 && classes > 1 {
		low := strings.ToLower(pwd)
		for _, w := range guessable {
			if strings.Contains(low, w) {
				classes--
				break
			}
		}
	}

	switch {
	case n >= 14 && classes >= 3:
		return 4, ""
	case n >= 12 && classes >= 3:
		return 3, ""
	case n >= 10 && classes >= 2:
		return 2, "short or low variety"
	case n >= 8:
		return 1, "too short or predictable"
	default:
		return 0, "shorter than 8 characters"
	}
}
