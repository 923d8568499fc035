package address

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

func strPtr(s string) *string { return &s }

func fixedClock() func() time.Time {
	ts := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

func validPatch() Patch {
	return Patch{
		Name:         strPtr("X"),
		Address:      strPtr("Y"),
		Pincode:      strPtr("1"),
		MobileNumber: strPtr("9876543210"),
	}
}

func requireValidationKind(t *testing.T, err error, kind errors.ValidationKind) *errors.ValidationError {
	t.Helper()
	var vErr *errors.ValidationError
	require.True(t, stderrors.As(err, &vErr), "expected ValidationError, got %v", err)
	assert.Equal(t, kind, vErr.Kind)
	return vErr
}

func TestNewForm_InitialState(t *testing.T) {
	form := NewForm(fixedClock())
	draft := form.Draft()

	assert.Empty(t, draft.Name)
	assert.Empty(t, draft.MobileNumber)
	assert.Equal(t, "2026-10-16T12:00:00.000Z", draft.Time)
	assert.Equal(t, "Oct 16, 2026", draft.Date)
}

func TestUpdate_MergesOnlyProvidedFields(t *testing.T) {
	form := NewForm(fixedClock())
	form.Update(validPatch())

	draft := form.Update(Patch{Pincode: strPtr("560001")})

	assert.Equal(t, "X", draft.Name)
	assert.Equal(t, "560001", draft.Pincode)
	assert.Equal(t, "9876543210", draft.MobileNumber)
}

func TestValidate_Valid(t *testing.T) {
	form := NewForm(fixedClock())
	form.Update(validPatch())

	assert.NoError(t, form.Validate())
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		clear func(p *Patch)
		field string
	}{
		{"name", func(p *Patch) { p.Name = nil }, "name"},
		{"address", func(p *Patch) { p.Address = nil }, "address"},
		{"pincode", func(p *Patch) { p.Pincode = nil }, "pincode"},
		{"mobile", func(p *Patch) { p.MobileNumber = nil }, "mobileNumber"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPatch()
			tt.clear(&p)
			form := NewForm(fixedClock())
			form.Update(p)

			vErr := requireValidationKind(t, form.Validate(), errors.MissingField)
			assert.Equal(t, tt.field, vErr.Field)
			assert.Equal(t, "All fields are required", vErr.UserMessage())
		})
	}
}

func TestValidate_InvalidMobile(t *testing.T) {
	for _, mobile := range []string{"987654321", "98765432101", "abcdefghij", "98765 4321", "+919876543"} {
		t.Run(mobile, func(t *testing.T) {
			p := validPatch()
			p.MobileNumber = strPtr(mobile)
			form := NewForm(fixedClock())
			form.Update(p)

			vErr := requireValidationKind(t, form.Validate(), errors.InvalidMobile)
			assert.Equal(t, "Please enter a valid mobile number", vErr.UserMessage())
		})
	}
}

func TestValidate_MissingFieldReportedBeforeMobileFormat(t *testing.T) {
	err := Validate(domain.AddressInfo{Name: "X", MobileNumber: "12"})

	vErr := requireValidationKind(t, err, errors.MissingField)
	assert.Equal(t, "address", vErr.Field)
}

func TestValidate_NoExtraRules(t *testing.T) {
	err := Validate(domain.AddressInfo{
		Name:         "?",
		Address:      "-",
		Pincode:      "not-a-pincode",
		MobileNumber: "0000000000",
	})

	assert.NoError(t, err)
}

func TestReset(t *testing.T) {
	form := NewForm(fixedClock())
	form.Update(validPatch())

	form.Reset()

	assert.Equal(t, domain.NewAddressInfo(fixedClock()()), form.Draft())
}
