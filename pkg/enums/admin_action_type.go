package enums

import "fmt"

// AdminActionType labels entries in the append-only admin action log.
type AdminActionType string

const (
	AdminActionRegistrationApprove AdminActionType = "registration_approve"
	AdminActionRegistrationStatus  AdminActionType = "registration_status"
	AdminActionRegistrationDelete  AdminActionType = "registration_delete"
	AdminActionRegistrationLink    AdminActionType = "registration_link"
	AdminActionRegistrationImport  AdminActionType = "registration_import"
	AdminActionPointsAdjust        AdminActionType = "points_adjust"
	AdminActionUserUpdate          AdminActionType = "user_update"
)

var validAdminActionTypes = []AdminActionType{
	AdminActionRegistrationApprove,
	AdminActionRegistrationStatus,
	AdminActionRegistrationDelete,
	AdminActionRegistrationLink,
	AdminActionRegistrationImport,
	AdminActionPointsAdjust,
	AdminActionUserUpdate,
}

// String implements fmt.Stringer.
func (a AdminActionType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdminActionType.
func (a AdminActionType) IsValid() bool {
	for _, candidate := range validAdminActionTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdminActionType converts raw input into an AdminActionType.
func ParseAdminActionType(value string) (AdminActionType, error) {
	for _, candidate := range validAdminActionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid admin action type %q", value)
}
