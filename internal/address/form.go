// Package address holds the draft delivery address of a checkout.
package address

import (
	"regexp"
	"sync"
	"time"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

var mobileRegex = regexp.MustCompile(`^[0-9]{10}$`)

// Patch carries the fields a user changed; nil fields are left as they are
type Patch struct {
	Name         *string `json:"name,omitempty"`
	Address      *string `json:"address,omitempty"`
	Pincode      *string `json:"pincode,omitempty"`
	MobileNumber *string `json:"mobileNumber,omitempty"`
}

// Form is a single mutable draft address
type Form struct {
	mu    sync.Mutex
	draft domain.AddressInfo
	now   func() time.Time
}

// NewForm creates a form in its empty initial state
func NewForm(now func() time.Time) *Form {
	if now == nil {
		now = time.Now
	}
	return &Form{
		draft: domain.NewAddressInfo(now()),
		now:   now,
	}
}

// Update merges the non-nil fields of p into the draft
func (f *Form) Update(p Patch) domain.AddressInfo {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p.Name != nil {
		f.draft.Name = *p.Name
	}
	if p.Address != nil {
		f.draft.Address = *p.Address
	}
	if p.Pincode != nil {
		f.draft.Pincode = *p.Pincode
	}
	if p.MobileNumber != nil {
		f.draft.MobileNumber = *p.MobileNumber
	}
	return f.draft
}

// Draft returns a copy of the current draft
func (f *Form) Draft() domain.AddressInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Validate checks the current draft
func (f *Form) Validate() error {
	return Validate(f.Draft())
}

// Reset returns the draft to its empty initial state
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = domain.NewAddressInfo(f.now())
}

// Validate reports the first problem of info: a missing required field
// (name, address, pincode, mobile number in that order), then a mobile
// number that is not exactly 10 digits.
func Validate(info domain.AddressInfo) error {
	required := []struct {
		field string
		value string
	}{
		{"name", info.Name},
		{"address", info.Address},
		{"pincode", info.Pincode},
		{"mobileNumber", info.MobileNumber},
	}
	for _, r := range required {
		if r.value == "" {
			return &errors.ValidationError{Kind: errors.MissingField, Field: r.field}
		}
	}

	if !mobileRegex.MatchString(info.MobileNumber) {
		return &errors.ValidationError{Kind: errors.InvalidMobile, Field: "mobileNumber"}
	}
	return nil
}
