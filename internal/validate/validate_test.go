package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/upstic/admin-console/pkg/errors"
)

func TestSubdomain(t *testing.T) {
	valid := []string{"acme", "my-agency", "a1", "0start", "a", "agency-42"}
	for _, s := range valid {
		assert.True(t, Subdomain(s), "expected %q to be valid", s)
	}

	invalid := []string{"", "My_Agency", "-leading", "trailing-", "UPPER", "has space", "dot.com"}
	for _, s := range invalid {
		assert.False(t, Subdomain(s), "expected %q to be invalid", s)
	}
}

func TestPhone(t *testing.T) {
	valid := []string{"+44 20 7946 0958", "020-7946-0958", "(415) 555-2671"}
	for _, s := range valid {
		assert.True(t, Phone(s), "expected %q to be valid", s)
	}

	invalid := []string{"", "12345", "phone-number", "+44abc207946"}
	for _, s := range invalid {
		assert.False(t, Phone(s), "expected %q to be invalid", s)
	}
}

type contactForm struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Phone string `validate:"required,phone"`
	Slug  string `validate:"required,subdomain"`
}

func TestStructReportsFirstFailure(t *testing.T) {
	err := Struct(contactForm{
		Name:  "Acme",
		Email: "not-an-email",
		Phone: "+44 20 7946 0958",
		Slug:  "acme",
	})
	require.Error(t, err)

	apiErr := apierrors.AsAPIError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierrors.ErrValidation, apiErr.Code)
	assert.Contains(t, apiErr.Message, "email")
}

func TestStructAcceptsValidInput(t *testing.T) {
	err := Struct(contactForm{
		Name:  "Acme",
		Email: "ops@acme.com",
		Phone: "+44 20 7946 0958",
		Slug:  "acme",
	})
	assert.NoError(t, err)
}

func TestStructSubdomainMessage(t *testing.T) {
	err := Struct(contactForm{
		Name:  "Acme",
		Email: "ops@acme.com",
		Phone: "+44 20 7946 0958",
		Slug:  "Not_Valid",
	})
	require.Error(t, err)

	apiErr := apierrors.AsAPIError(err)
	assert.Contains(t, apiErr.Message, "subdomain")
}
