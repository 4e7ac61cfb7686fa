package validator

import (
	"strings"

	"lostfound/internal/domain"
)

// ErrorMap maps a field name to its current message; "" means valid.
type ErrorMap map[string]string

// Clean reports whether no non-empty message remains.
func (m ErrorMap) Clean() bool {
	for _, msg := range m {
		if msg != "" {
			return false
		}
	}
	return true
}

// Set records the result of validating field against raw.
func (m ErrorMap) Set(field, raw string) {
	m[field] = Field(field, raw)
}

// SanitizeReport strips angle brackets from every report field.
func SanitizeReport(f domain.ReportForm) domain.ReportForm {
	return domain.ReportForm{
		Name:        Sanitize(f.Name),
		Description: Sanitize(f.Description),
		Location:    Sanitize(f.Location),
		Contact:     Sanitize(f.Contact),
		Category:    Sanitize(f.Category),
	}
}

// ValidateReport runs Field over every report field.
func ValidateReport(f domain.ReportForm) ErrorMap {
	errs := ErrorMap{}
	errs.Set(FieldName, f.Name)
	errs.Set(FieldDescription, f.Description)
	errs.Set(FieldLocation, f.Location)
	errs.Set(FieldContact, f.Contact)
	errs.Set(FieldCategory, f.Category)
	return errs
}

// IsReportReady combines the length and format checks with "no field
// error outstanding". Submission is only allowed when this is true.
func IsReportReady(f domain.ReportForm, errs ErrorMap) bool {
	return len([]rune(strings.TrimSpace(f.Name))) >= 3 &&
		len([]rune(strings.TrimSpace(f.Description))) >= 10 &&
		strings.TrimSpace(f.Location) != "" &&
		IsEmail(f.Contact) &&
		domain.Category(f.Category).Valid() &&
		errs.Clean()
}

// SignupForm is the account creation form.
type SignupForm struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginForm is the sign-in form.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateSignup runs Field over every signup field.
func ValidateSignup(f SignupForm) ErrorMap {
	errs := ErrorMap{}
	errs.Set(FieldFirstname, f.Firstname)
	errs.Set(FieldLastname, f.Lastname)
	errs.Set(FieldUsername, f.Username)
	errs.Set(FieldPhone, f.Phone)
	errs.Set(FieldEmail, f.Email)
	errs.Set(FieldPassword, f.Password)
	return errs
}

// IsSignupReady reports whether the signup form may be submitted.
func IsSignupReady(f SignupForm, errs ErrorMap) bool {
	return len([]rune(strings.TrimSpace(f.Firstname))) >= 3 &&
		len([]rune(strings.TrimSpace(f.Lastname))) >= 3 &&
		IsUsername(f.Username) &&
		IsPhone(f.Phone) &&
		IsEmail(f.Email) &&
		IsPassword(f.Password) &&
		errs.Clean()
}

// ValidateLogin runs Field over the login fields.
func ValidateLogin(f LoginForm) ErrorMap {
	errs := ErrorMap{}
	errs.Set(FieldEmail, f.Email)
	errs.Set(FieldPassword, f.Password)
	return errs
}

// IsLoginReady reports whether the login form may be submitted.
func IsLoginReady(f LoginForm, errs ErrorMap) bool {
	return IsEmail(f.Email) && IsPassword(f.Password) && errs.Clean()
}
