package registrations

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/sra-webinar/backend/internal/apierr"
)

var validate = validator.New()

// ValidateWebinarID checks that id is exactly 11 numeric digits.
func ValidateWebinarID(id string) error {
	if utf8.RuneCountInString(id) != 11 {
		return apierr.NewValidationError("id", "Webinar ID must be 11 digits long")
	}
	for _, r := range id {
		if !unicode.IsDigit(r) {
			return apierr.NewValidationError("id", "Webinar ID must be numeric")
		}
	}
	return nil
}

// ValidateRegistration checks the full registration input before any store
// or network access. Rules run in order and stop at the first violation.
// Length bounds count characters, not bytes. Name fields are expected to be
// trimmed already.
func ValidateRegistration(in RegisterInput) error {
	if err := ValidateWebinarID(in.WebinarID); err != nil {
		return err
	}
	if l := utf8.RuneCountInString(in.FirstName); l < 1 || l > 64 {
		return apierr.NewValidationError("fname", "First Name cannot be blank and must have <= 64 characters")
	}
	if utf8.RuneCountInString(in.LastName) > 64 {
		return apierr.NewValidationError("lname", "Last Name must have <= 64 characters")
	}
	if err := validate.Var(in.Email, "email"); err != nil {
		return apierr.NewValidationError("email", "Email is not a valid email address")
	}
	if l := utf8.RuneCountInString(in.Email); l < 6 || l > 128 {
		return apierr.NewValidationError("email", "Email must be >= 6 characters and <= 128 characters")
	}
	return nil
}

func trimInput(in RegisterInput) RegisterInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	return in
}
