package validation_test

import (
	"testing"

	"github.com/gobarber/gobarber-client/internal/models"
	"github.com/gobarber/gobarber-client/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(errs []validation.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		out = append(out, fe.Field)
	}
	return out
}

func TestEngine_Validate_NoPasswordChange(t *testing.T) {
	engine := validation.NewEngine()

	result, err := engine.Validate(models.ProfileFormInput{
		Name:  "Ana",
		Email: "ana@x.com",
	})
	require.NoError(t, err)

	assert.True(t, result.OK())
	assert.Equal(t, validation.NoPasswordChange, result.Fields.Condition)
	assert.Equal(t, &models.UpdateProfileRequest{Name: "Ana", Email: "ana@x.com"}, result.Fields.Payload())
}

func TestEngine_Validate_IgnoresPasswordsWithoutOldPassword(t *testing.T) {
	engine := validation.NewEngine()

	tests := []struct {
		name         string
		password     string
		confirmation string
	}{
		{name: "both empty"},
		{name: "password only", password: "abc123"},
		{name: "confirmation only", confirmation: "xyz"},
		{name: "mismatch", password: "abc123", confirmation: "xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Validate(models.ProfileFormInput{
				Name:                 "Ana",
				Email:                "ana@x.com",
				Password:             tt.password,
				PasswordConfirmation: tt.confirmation,
			})
			require.NoError(t, err)

			assert.True(t, result.OK())
			payload := result.Fields.Payload()
			assert.False(t, payload.HasPasswordChange())
			assert.Empty(t, payload.Password)
			assert.Empty(t, payload.PasswordConfirmation)
		})
	}
}

func TestEngine_Validate_PasswordChangeRequested(t *testing.T) {
	engine := validation.NewEngine()

	tests := []struct {
		name           string
		password       string
		confirmation   string
		expectedFields []string
	}{
		{
			name:           "missing password and confirmation",
			expectedFields: []string{validation.FieldPassword, validation.FieldPasswordConfirmation},
		},
		{
			name:           "confirmation differs",
			password:       "abc123",
			confirmation:   "xyz",
			expectedFields: []string{validation.FieldPasswordConfirmation},
		},
		{
			name:           "confirmation differs only by case",
			password:       "abc123",
			confirmation:   "ABC123",
			expectedFields: []string{validation.FieldPasswordConfirmation},
		},
		{
			name:           "missing confirmation",
			password:       "abc123",
			expectedFields: []string{validation.FieldPasswordConfirmation, validation.FieldPasswordConfirmation},
		},
		{
			name:         "matching",
			password:     "abc123",
			confirmation: "abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Validate(models.ProfileFormInput{
				Name:                 "Ana",
				Email:                "ana@x.com",
				OldPassword:          "123",
				Password:             tt.password,
				PasswordConfirmation: tt.confirmation,
			})
			require.NoError(t, err)

			assert.Equal(t, validation.PasswordChangeRequested, result.Fields.Condition)
			if tt.expectedFields == nil {
				assert.True(t, result.OK())
				return
			}
			assert.False(t, result.OK())
			assert.Equal(t, tt.expectedFields, fields(result.Errors))
		})
	}
}

func TestEngine_Validate_PayloadCarriesPasswordTriple(t *testing.T) {
	engine := validation.NewEngine()

	result, err := engine.Validate(models.ProfileFormInput{
		Name:                 "Ana",
		Email:                "ana@x.com",
		OldPassword:          "123",
		Password:             "abc123",
		PasswordConfirmation: "abc123",
	})
	require.NoError(t, err)
	require.True(t, result.OK())

	assert.Equal(t, &models.UpdateProfileRequest{
		Name:                 "Ana",
		Email:                "ana@x.com",
		OldPassword:          "123",
		Password:             "abc123",
		PasswordConfirmation: "abc123",
	}, result.Fields.Payload())
}

func TestEngine_Validate_NameAndEmail(t *testing.T) {
	engine := validation.NewEngine()

	tests := []struct {
		name             string
		input            models.ProfileFormInput
		expectedFields   []string
		expectedMessages []string
	}{
		{
			name:             "empty name",
			input:            models.ProfileFormInput{Name: "", Email: "ana@x.com"},
			expectedFields:   []string{validation.FieldName},
			expectedMessages: []string{"Name is required"},
		},
		{
			name:             "blank name",
			input:            models.ProfileFormInput{Name: "   ", Email: "ana@x.com"},
			expectedFields:   []string{validation.FieldName},
			expectedMessages: []string{"Name is required"},
		},
		{
			name:             "empty email reports only required",
			input:            models.ProfileFormInput{Name: "Ana"},
			expectedFields:   []string{validation.FieldEmail},
			expectedMessages: []string{"E-mail is required"},
		},
		{
			name:             "malformed email",
			input:            models.ProfileFormInput{Name: "Ana", Email: "ana.x.com"},
			expectedFields:   []string{validation.FieldEmail},
			expectedMessages: []string{"Enter a valid e-mail"},
		},
		{
			name: "every field invalid reports in declaration order",
			input: models.ProfileFormInput{
				Email:                "nope",
				OldPassword:          "123",
				Password:             "abc123",
				PasswordConfirmation: "xyz",
			},
			expectedFields:   []string{validation.FieldName, validation.FieldEmail, validation.FieldPasswordConfirmation},
			expectedMessages: []string{"Name is required", "Enter a valid e-mail", "Confirmation does not match"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Validate(tt.input)
			require.NoError(t, err)

			assert.False(t, result.OK())
			assert.Equal(t, tt.expectedFields, fields(result.Errors))
			for i, msg := range tt.expectedMessages {
				assert.Equal(t, msg, result.Errors[i].Message)
			}
		})
	}
}

func TestEngine_Validate_NameErrorIndependentOfOtherFields(t *testing.T) {
	engine := validation.NewEngine()

	inputs := []models.ProfileFormInput{
		{Email: "ana@x.com"},
		{Email: "bad"},
		{Email: "ana@x.com", OldPassword: "123"},
		{Email: "ana@x.com", OldPassword: "123", Password: "a", PasswordConfirmation: "a"},
	}

	for _, in := range inputs {
		result, err := engine.Validate(in)
		require.NoError(t, err)
		assert.Contains(t, fields(result.Errors), validation.FieldName)
	}
}

func TestEngine_WithMessages(t *testing.T) {
	engine := validation.NewEngine(validation.WithMessages(map[string]string{
		"name.required":                 "Nome obrigatório",
		"password_confirmation.eqfield": "Confirmação incorreta",
	}))

	result, err := engine.Validate(models.ProfileFormInput{
		Email:                "ana@x.com",
		OldPassword:          "123",
		Password:             "abc123",
		PasswordConfirmation: "xyz",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		validation.FieldName:                 "Nome obrigatório",
		validation.FieldPasswordConfirmation: "Confirmação incorreta",
	}, validation.MapErrors(result.Errors))
}
