package auth

import (
	"net/mail"
	"strings"
	"unicode"

	"github.com/example/task-tracker/domain/validation"
)

// Registration input rules. Each rule appends a field-scoped message; nothing
// short-circuits, so the caller gets every failure in one pass. Uniqueness
// checks live in the service because they need the repository.
func validateRegistration(req RegisterRequest) validation.FieldErrors {
	errs := validation.FieldErrors{}

	if req.Username == "" {
		errs.Add("username", "This field is required.")
	} else if strings.IndexFunc(req.Username, unicode.IsSpace) >= 0 {
		errs.Add("username", "Username must not contain whitespace.")
	}

	if req.Email == "" {
		errs.Add("email", "This field is required.")
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		errs.Add("email", "Enter a valid email address.")
	}

	validatePassword(req.Password, errs)

	if req.Username != "" && req.Email != "" &&
		(req.Username == req.Email || strings.Contains(req.Email, req.Username)) {
		errs.Add("username", "Username must not equal or be contained in the email.")
	}

	return errs
}

func validatePassword(password string, errs validation.FieldErrors) {
	if password == "" {
		errs.Add("password", "This field is required.")
		return
	}
	if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters.")
	}
	// bcrypt silently truncates beyond 72 bytes.
	if len(password) > 72 {
		errs.Add("password", "Password must be at most 72 characters.")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		errs.Add("password", "Password must contain both letters and digits.")
	}
}
