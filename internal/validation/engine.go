package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gobarber/gobarber-client/internal/models"
)

// Field names as they appear on the profile form and in the API payload
const (
	FieldName                 = "name"
	FieldEmail                = "email"
	FieldOldPassword          = "old_password"
	FieldPassword             = "password"
	FieldPasswordConfirmation = "password_confirmation"
)

// FieldError is a single rule violation on one form field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PasswordCondition selects which rule subset applies to the password fields
type PasswordCondition int

const (
	NoPasswordChange PasswordCondition = iota
	PasswordChangeRequested
)

func (c PasswordCondition) String() string {
	if c == PasswordChangeRequested {
		return "password_change_requested"
	}
	return "no_password_change"
}

// ConditionOf resolves the password condition from old_password only
func ConditionOf(in models.ProfileFormInput) PasswordCondition {
	if in.PasswordChangeRequested() {
		return PasswordChangeRequested
	}
	return NoPasswordChange
}

// ValidatedFields is the input after it passed every rule
type ValidatedFields struct {
	Input     models.ProfileFormInput
	Condition PasswordCondition
}

// Payload builds the minimal PUT /profile body. The password triple is
// present only when a password change was requested.
func (v ValidatedFields) Payload() *models.UpdateProfileRequest {
	req := &models.UpdateProfileRequest{
		Name:  v.Input.Name,
		Email: v.Input.Email,
	}
	if v.Condition == PasswordChangeRequested {
		req.OldPassword = v.Input.OldPassword
		req.Password = v.Input.Password
		req.PasswordConfirmation = v.Input.PasswordConfirmation
	}
	return req
}

// Result is the outcome of one validation call. Errors is ordered by field
// declaration order; the result is OK only when Errors is empty.
type Result struct {
	Fields ValidatedFields
	Errors []FieldError
}

// OK reports whether no rule was violated
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

type rule struct {
	field string
	tag   string
	value func(models.ProfileFormInput) string
	// other is compared against value by cross-field tags such as eqfield
	other     func(models.ProfileFormInput) string
	skipEmpty bool
}

var commonRules = []rule{
	{field: FieldName, tag: "required", value: func(in models.ProfileFormInput) string { return strings.TrimSpace(in.Name) }},
	{field: FieldEmail, tag: "required", value: func(in models.ProfileFormInput) string { return in.Email }},
	{field: FieldEmail, tag: "email", value: func(in models.ProfileFormInput) string { return in.Email }, skipEmpty: true},
}

var passwordChangeRules = []rule{
	{field: FieldPassword, tag: "required", value: func(in models.ProfileFormInput) string { return in.Password }},
	{field: FieldPasswordConfirmation, tag: "required", value: func(in models.ProfileFormInput) string { return in.PasswordConfirmation }},
	{
		field: FieldPasswordConfirmation,
		tag:   "eqfield",
		value: func(in models.ProfileFormInput) string { return in.PasswordConfirmation },
		other: func(in models.ProfileFormInput) string { return in.Password },
	},
}

// Engine evaluates the profile form rules
type Engine struct {
	validate *validator.Validate
	messages map[string]string
}

// Option customises an Engine
type Option func(*Engine)

// WithMessages overrides messages keyed by "field.tag", e.g. "name.required"
func WithMessages(messages map[string]string) Option {
	return func(e *Engine) {
		for k, v := range messages {
			e.messages[k] = v
		}
	}
}

// NewEngine creates a validation engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		validate: validator.New(),
		messages: map[string]string{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate runs every applicable rule against the input without stopping at
// the first failure. The returned error is reserved for a misconfigured rule
// set; user input problems are reported in Result.Errors.
func (e *Engine) Validate(in models.ProfileFormInput) (Result, error) {
	condition := ConditionOf(in)

	var fieldErrors []FieldError
	for _, r := range rulesFor(condition) {
		failed, err := e.check(r, in)
		if err != nil {
			return Result{}, fmt.Errorf("rule %s.%s: %w", r.field, r.tag, err)
		}
		if failed {
			fieldErrors = append(fieldErrors, FieldError{
				Field:   r.field,
				Message: e.messageFor(r.field, r.tag),
			})
		}
	}

	return Result{
		Fields: ValidatedFields{Input: in, Condition: condition},
		Errors: fieldErrors,
	}, nil
}

func rulesFor(condition PasswordCondition) []rule {
	if condition == PasswordChangeRequested {
		rules := make([]rule, 0, len(commonRules)+len(passwordChangeRules))
		rules = append(rules, commonRules...)
		return append(rules, passwordChangeRules...)
	}
	return commonRules
}

func (e *Engine) check(r rule, in models.ProfileFormInput) (bool, error) {
	value := r.value(in)
	if r.skipEmpty && value == "" {
		return false, nil
	}

	var err error
	if r.other != nil {
		err = e.validate.VarWithValue(value, r.other(in), r.tag)
	} else {
		err = e.validate.Var(value, r.tag)
	}
	if err == nil {
		return false, nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return true, nil
	}
	return false, err
}

func (e *Engine) messageFor(field, tag string) string {
	if msg, ok := e.messages[field+"."+tag]; ok {
		return msg
	}

	switch tag {
	case "required":
		switch field {
		case FieldName:
			return "Name is required"
		case FieldEmail:
			return "E-mail is required"
		default:
			return "Field is required"
		}
	case "email":
		return "Enter a valid e-mail"
	case "eqfield":
		return "Confirmation does not match"
	default:
		return field + " is invalid"
	}
}
