package validator

import (
	"errors"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ValidateCode normalizes an IATA city/airport code.
func ValidateCode(s string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(s))
	if len(c) < 2 || len(c) > 4 {
		return "", errors.New("invalid code")
	}
	for _, r := range c {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", errors.New("invalid code")
		}
	}
	return c, nil
}

// ValidateDate accepts YYYY-MM-DD and, as the upstream API does, YYYY-MM.
func ValidateDate(dateStr string) (time.Time, error) {
	s := strings.TrimSpace(dateStr)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01", s); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("invalid date")
}

func ParseBool(s string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return def, errors.New("invalid boolean")
}
