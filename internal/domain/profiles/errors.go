package profiles

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")

	ErrLocationTooLong   = errors.New("location must be at most 30 characters")
	ErrInvalidBirthDate  = errors.New("birth date must be YYYY-MM-DD")
	ErrBirthDateInFuture = errors.New("birth date cannot be in the future")
)

func IsValidation(err error) bool {
	return errors.Is(err, ErrLocationTooLong) ||
		errors.Is(err, ErrInvalidBirthDate) ||
		errors.Is(err, ErrBirthDateInFuture)
}
