package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateRegistration OutboxAggregateType = "registration"
	AggregateUser         OutboxAggregateType = "user"
	AggregateOrder        OutboxAggregateType = "order"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateRegistration,
	AggregateUser,
	AggregateOrder,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventRegistrationCreated       OutboxEventType = "registration_created"
	EventRegistrationApproved      OutboxEventType = "registration_approved"
	EventRegistrationStatusChanged OutboxEventType = "registration_status_changed"
	EventRegistrationDeleted       OutboxEventType = "registration_deleted"
	EventRegistrationLinked        OutboxEventType = "registration_linked"
	EventRegistrationImported      OutboxEventType = "registration_imported"
	EventPointsCredited            OutboxEventType = "points_credited"
	EventPointsDebited             OutboxEventType = "points_debited"
	EventOrderPlaced               OutboxEventType = "order_placed"
)

var validOutboxEventTypes = []OutboxEventType{
	EventRegistrationCreated,
	EventRegistrationApproved,
	EventRegistrationStatusChanged,
	EventRegistrationDeleted,
	EventRegistrationLinked,
	EventRegistrationImported,
	EventPointsCredited,
	EventPointsDebited,
	EventOrderPlaced,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
