package handler

import (
	"github.com/gin-gonic/gin"

	"lostfound/internal/domain"
	"lostfound/internal/validator"
)

// Form names accepted by ValidateHandler.
const (
	FormReport = "report"
	FormSignup = "signup"
	FormLogin  = "login"
)

// ValidateInput is either a single field check (Field, Value) or a whole
// form check (Form, Values).
type ValidateInput struct {
	Field  string            `json:"field"`
	Value  string            `json:"value"`
	Form   string            `json:"form"`
	Values map[string]string `json:"values"`
}

// ValidateHandler serves live, per-keystroke validation.
type ValidateHandler struct{}

// NewValidateHandler creates a new ValidateHandler.
func NewValidateHandler() *ValidateHandler {
	return &ValidateHandler{}
}

// Validate handles POST /api/v1/validate
func (h *ValidateHandler) Validate(c *gin.Context) {
	var input ValidateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if input.Form == "" {
		if input.Field == "" {
			badRequest(c, "field or form is required")
			return
		}
		msg := validator.Field(input.Field, input.Value)
		RespondOK(c, gin.H{"field": input.Field, "message": msg, "valid": msg == ""})
		return
	}

	v := input.Values
	var (
		errs  validator.ErrorMap
		ready bool
	)
	switch input.Form {
	case FormReport:
		form := validator.SanitizeReport(domain.ReportForm{
			Name:        v[validator.FieldName],
			Description: v[validator.FieldDescription],
			Location:    v[validator.FieldLocation],
			Contact:     v[validator.FieldContact],
			Category:    v[validator.FieldCategory],
		})
		errs = validator.ValidateReport(form)
		ready = validator.IsReportReady(form, errs)
	case FormSignup:
		form := validator.SignupForm{
			Firstname: v[validator.FieldFirstname],
			Lastname:  v[validator.FieldLastname],
			Username:  v[validator.FieldUsername],
			Phone:     v[validator.FieldPhone],
			Email:     v[validator.FieldEmail],
			Password:  v[validator.FieldPassword],
		}
		errs = validator.ValidateSignup(form)
		ready = validator.IsSignupReady(form, errs)
	case FormLogin:
		form := validator.LoginForm{Email: v[validator.FieldEmail], Password: v[validator.FieldPassword]}
		errs = validator.ValidateLogin(form)
		ready = validator.IsLoginReady(form, errs)
	default:
		badRequest(c, "form must be report, signup or login")
		return
	}

	RespondOK(c, gin.H{"form": input.Form, "errors": errs, "ready": ready})
}
