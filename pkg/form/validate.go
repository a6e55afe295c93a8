package form

import "unicode/utf8"

// FieldErrors maps a field name to its message. Fields that passed are absent.
type FieldErrors map[string]string

func (fe FieldErrors) Any() bool {
	return len(fe) > 0
}

// Validator returns a message for an invalid value, or "" when it is valid.
type Validator func(value string) string

// MinLength counts characters, not bytes.
func MinLength(n int, message string) Validator {
	return func(value string) string {
		if utf8.RuneCountInString(value) < n {
			return message
		}
		return ""
	}
}

// MaxBytes counts bytes, for limits imposed by a downstream encoding.
func MaxBytes(n int, message string) Validator {
	return func(value string) string {
		if len(value) > n {
			return message
		}
		return ""
	}
}

type Check struct {
	Field     string
	Value     string
	Validator Validator
}

// Validate runs every check. Later checks on the same field do not
// overwrite an earlier failure.
func Validate(checks ...Check) FieldErrors {
	errs := make(FieldErrors)
	for _, c := range checks {
		if _, failed := errs[c.Field]; failed {
			continue
		}
		if msg := c.Validator(c.Value); msg != "" {
			errs[c.Field] = msg
		}
	}
	return errs
}
