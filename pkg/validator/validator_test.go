package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signUpForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
	Website  string `json:"website" validate:"omitempty,url"`
}

func TestValidate_Passes(t *testing.T) {
	err := Validate(&signUpForm{
		Email:    "reader@bestopia.net",
		Password: "long-enough",
	})
	assert.NoError(t, err)
}

func TestValidate_CollectsEveryFailingField(t *testing.T) {
	err := Validate(&signUpForm{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	fields := ve.Fields()
	assert.Equal(t, "must be a valid email address", fields["Email"])
	assert.Equal(t, "must be at least 8 characters", fields["Password"])
	assert.Len(t, fields, 2)
}

func TestValidate_TagMessages(t *testing.T) {
	tests := []struct {
		name  string
		form  signUpForm
		field string
		want  string
	}{
		{
			name:  "required",
			form:  signUpForm{Password: "long-enough"},
			field: "Email",
			want:  "is required",
		},
		{
			name:  "oneof",
			form:  signUpForm{Email: "a@b.co", Password: "long-enough", Role: "owner"},
			field: "Role",
			want:  "must be one of: user admin",
		},
		{
			name:  "url",
			form:  signUpForm{Email: "a@b.co", Password: "long-enough", Website: "not a url"},
			field: "Website",
			want:  "must be a valid URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ve *ValidationError
			require.ErrorAs(t, Validate(&tt.form), &ve)
			assert.Equal(t, tt.want, ve.Fields()[tt.field])
		})
	}
}

func TestValidationError_ErrorJoinsFields(t *testing.T) {
	var ve *ValidationError
	require.ErrorAs(t, Validate(&signUpForm{}), &ve)

	msg := ve.Error()
	assert.Contains(t, msg, "field 'Email' is required")
	assert.Contains(t, msg, "field 'Password' is required")
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(
			`{"email":"reader@bestopia.net","password":"long-enough"}`))
		var form signUpForm
		require.NoError(t, DecodeAndValidate(req, &form))
		assert.Equal(t, "reader@bestopia.net", form.Email)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":`))
		var form signUpForm
		err := DecodeAndValidate(req, &form)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode request body")
	})

	t.Run("decoded but invalid", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"nope"}`))
		var form signUpForm
		var ve *ValidationError
		require.ErrorAs(t, DecodeAndValidate(req, &form), &ve)
	})
}
