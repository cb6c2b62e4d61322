package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSignup_SanitizesInput(t *testing.T) {
	v := ValidateSignup(SignupInput{
		FirstName: " Ann ",
		LastName:  "<b>Lee</b>",
		Email:     "A@X.com ",
		Password:  "Abc12345!",
	})

	require.True(t, v.IsValid)
	assert.Empty(t, v.Errors)
	assert.Equal(t, "Ann", v.Sanitized.FirstName)
	assert.Equal(t, "&lt;b&gt;Lee&lt;&#x2F;b&gt;", v.Sanitized.LastName)
	assert.Equal(t, "a@x.com", v.Sanitized.Email)
	assert.Equal(t, "Abc12345!", v.Sanitized.Password)
}

func TestValidateSignup_ReportsEveryField(t *testing.T) {
	v := ValidateSignup(SignupInput{FirstName: "  ", Email: "not-an-email", Password: "short1!"})

	assert.False(t, v.IsValid)
	assert.Equal(t, "First name is required", v.Errors["firstName"])
	assert.Equal(t, "Last name is required", v.Errors["lastName"])
	assert.Equal(t, "Please provide a valid email address", v.Errors["email"])
	assert.Equal(t, "Password must be at least 8 characters long", v.Errors["password"])
}

func TestValidateSignup_PasswordRules(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"all classes", "Abc12345!", true},
		{"no upper", "abc12345!", false},
		{"no lower", "ABC12345!", false},
		{"no digit", "Abcdefgh!", false},
		{"no symbol", "Abc123456", false},
		{"symbol outside set", "Abc12345#", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateSignup(SignupInput{FirstName: "A", LastName: "B", Email: "a@x.com", Password: tt.password})
			assert.Equal(t, tt.valid, v.IsValid)
			if !tt.valid {
				assert.NotEmpty(t, v.Errors["password"])
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	v := ValidateLogin(LoginInput{Email: " Bob@Example.COM", Password: "x"})
	require.True(t, v.IsValid)
	assert.Equal(t, "bob@example.com", v.Sanitized.Email)

	v = ValidateLogin(LoginInput{})
	assert.False(t, v.IsValid)
	assert.Equal(t, "Email is required", v.Errors["email"])
	assert.Equal(t, "Password is required", v.Errors["password"])
}

func TestValidateProfileUpdate(t *testing.T) {
	name := " <i>Anna</i> "
	img := "data:image/png;base64,AAAA"
	v := ValidateProfileUpdate(ProfilePatch{FirstName: &name, ProfileImg: &img})

	require.True(t, v.IsValid)
	require.NotNil(t, v.Sanitized.FirstName)
	assert.Equal(t, "&lt;i&gt;Anna&lt;&#x2F;i&gt;", *v.Sanitized.FirstName)
	assert.Nil(t, v.Sanitized.LastName)
	assert.Equal(t, &img, v.Sanitized.ProfileImg)

	blank := "   "
	long := strings.Repeat("a", 51)
	v = ValidateProfileUpdate(ProfilePatch{FirstName: &blank, LastName: &long})
	assert.False(t, v.IsValid)
	assert.Equal(t, "First name is required", v.Errors["firstName"])
	assert.Equal(t, "Last name cannot exceed 50 characters", v.Errors["lastName"])
}

func TestValidationErrors_Error(t *testing.T) {
	err := ValidationErrors{"password": "x", "email": "y"}
	assert.Equal(t, "validation failed: email, password", err.Error())
}

func TestNameLengthCountsEscapedForm(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"exactly 50", strings.Repeat("a", 50), true},
		{"51 plain", strings.Repeat("a", 51), false},
		{"ampersand fits after escaping", strings.Repeat("a", 41) + " & Co", true},
		{"48 with ampersand grows past 50", strings.Repeat("a", 47) + "&", false},
		{"45 plus ' & Co' grows to 54", strings.Repeat("a", 45) + " & Co", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signup := ValidateSignup(SignupInput{FirstName: tt.value, LastName: "Lee", Email: "a@x.com", Password: "Abc12345!"})
			assert.Equal(t, tt.valid, signup.IsValid)

			v := tt.value
			update := ValidateProfileUpdate(ProfilePatch{LastName: &v})
			assert.Equal(t, tt.valid, update.IsValid)

			if tt.valid {
				assert.LessOrEqual(t, len([]rune(signup.Sanitized.FirstName)), 50)
				assert.LessOrEqual(t, len([]rune(*update.Sanitized.LastName)), 50)
			} else {
				assert.Equal(t, "First name cannot exceed 50 characters", signup.Errors["firstName"])
				assert.Equal(t, "Last name cannot exceed 50 characters", update.Errors["lastName"])
			}
		})
	}
}
