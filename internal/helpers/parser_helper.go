package helpers

import (
	"strconv"

	"github.com/nyaruka/phonenumbers"
)

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// ValidContactNumber checks a contact number in international format
// (leading +). Validation is local and synchronous; a bad number blocks the
// request before any database write.
func ValidContactNumber(number string) bool {
	parsed, err := phonenumbers.Parse(number, "")
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(parsed)
}
