// Package phone holds the contact number format shared by accounts and pets.
package phone

import "regexp"

const (
	// MaxLength bounds the stored text, separators included.
	MaxLength = 20
	// MinDigits and MaxDigits bound the digit count; 15 is the E.164 limit.
	MinDigits = 8
	MaxDigits = 15
)

var pattern = regexp.MustCompile(`^\+?[0-9(][0-9 ().-]*$`)

// Valid reports whether value is digits with an optional leading '+' and the
// separators space, '-', '.', '(' and ')'.
func Valid(value string) bool {
	if len(value) > MaxLength || !pattern.MatchString(value) {
		return false
	}
	digits := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= MinDigits && digits <= MaxDigits
}
