package auth

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	minPasswordLength = 8
	maxNameLength     = 50
	passwordSymbols   = "@$!%*?&"
)

var emailValidator = validator.New()

// htmlEscaper neutralizes markup in stored free text.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// ValidationErrors maps a request field to a human-readable message.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// SignupInput is the raw signup payload.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// LoginInput is the raw login payload.
type LoginInput struct {
	Email    string
	Password string
}

// SignupValidation is the outcome of ValidateSignup. Sanitized is only
// meaningful when IsValid is true.
type SignupValidation struct {
	IsValid   bool
	Errors    ValidationErrors
	Sanitized SignupInput
}

type LoginValidation struct {
	IsValid   bool
	Errors    ValidationErrors
	Sanitized LoginInput
}

type ProfileValidation struct {
	IsValid   bool
	Errors    ValidationErrors
	Sanitized ProfilePatch
}

// ValidateSignup checks every signup rule and reports all violations at once.
func ValidateSignup(in SignupInput) SignupValidation {
	errs := ValidationErrors{}

	if msg := checkName(in.FirstName, "First name"); msg != "" {
		errs["firstName"] = msg
	}
	if msg := checkName(in.LastName, "Last name"); msg != "" {
		errs["lastName"] = msg
	}
	if msg := checkEmail(in.Email); msg != "" {
		errs["email"] = msg
	}
	if msg := checkPassword(in.Password); msg != "" {
		errs["password"] = msg
	}

	if len(errs) > 0 {
		return SignupValidation{Errors: errs}
	}
	return SignupValidation{
		IsValid: true,
		Errors:  errs,
		Sanitized: SignupInput{
			FirstName: sanitizeText(in.FirstName),
			LastName:  sanitizeText(in.LastName),
			Email:     NormalizeEmail(in.Email),
			Password:  in.Password,
		},
	}
}

// ValidateLogin checks that both credentials are present and the email is well formed.
func ValidateLogin(in LoginInput) LoginValidation {
	errs := ValidationErrors{}
	if msg := checkEmail(in.Email); msg != "" {
		errs["email"] = msg
	}
	if in.Password == "" {
		errs["password"] = "Password is required"
	}
	if len(errs) > 0 {
		return LoginValidation{Errors: errs}
	}
	return LoginValidation{
		IsValid:   true,
		Errors:    errs,
		Sanitized: LoginInput{Email: NormalizeEmail(in.Email), Password: in.Password},
	}
}

// ValidateProfileUpdate revalidates the supplied name fields against the
// stored schema. The image source is passed through untouched.
func ValidateProfileUpdate(in ProfilePatch) ProfileValidation {
	errs := ValidationErrors{}
	out := ProfilePatch{ProfileImg: in.ProfileImg}

	if in.FirstName != nil {
		if msg := checkName(*in.FirstName, "First name"); msg != "" {
			errs["firstName"] = msg
		} else {
			v := sanitizeText(*in.FirstName)
			out.FirstName = &v
		}
	}
	if in.LastName != nil {
		if msg := checkName(*in.LastName, "Last name"); msg != "" {
			errs["lastName"] = msg
		} else {
			v := sanitizeText(*in.LastName)
			out.LastName = &v
		}
	}

	if len(errs) > 0 {
		return ProfileValidation{Errors: errs}
	}
	return ProfileValidation{IsValid: true, Errors: errs, Sanitized: out}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sanitizeText(s string) string {
	return htmlEscaper.Replace(strings.TrimSpace(s))
}

func checkEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required"
	}
	if emailValidator.Var(email, "email") != nil {
		return "Please provide a valid email address"
	}
	return ""
}

// checkName measures the stored form, so escaping cannot push a name past
// the column width.
func checkName(name, label string) string {
	stored := sanitizeText(name)
	if stored == "" {
		return label + " is required"
	}
	if utf8.RuneCountInString(stored) > maxNameLength {
		return label + " cannot exceed 50 characters"
	}
	return ""
}

func checkPassword(password string) string {
	if password == "" {
		return "Password is required"
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return "Password must be at least 8 characters long"
	}
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	if !lower || !upper || !digit || !symbol {
		return "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"
	}
	return ""
}
