package enums

import "fmt"

// RegistrationStatus tracks the approval lifecycle of an installation registration.
type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "pending"
	RegistrationStatusApproved RegistrationStatus = "approved"
	RegistrationStatusRejected RegistrationStatus = "rejected"
)

var validRegistrationStatuses = []RegistrationStatus{
	RegistrationStatusPending,
	RegistrationStatusApproved,
	RegistrationStatusRejected,
}

// String implements fmt.Stringer.
func (r RegistrationStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RegistrationStatus.
func (r RegistrationStatus) IsValid() bool {
	for _, candidate := range validRegistrationStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRegistrationStatus converts raw input into a RegistrationStatus.
func ParseRegistrationStatus(value string) (RegistrationStatus, error) {
	for _, candidate := range validRegistrationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid registration status %q", value)
}
