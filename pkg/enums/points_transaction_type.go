package enums

import "fmt"

// PointsTransactionType classifies entries in the Drops ledger.
type PointsTransactionType string

const (
	PointsTransactionCredit PointsTransactionType = "credit"
	PointsTransactionDebit  PointsTransactionType = "debit"
	PointsTransactionAdjust PointsTransactionType = "adjust"
)

var validPointsTransactionTypes = []PointsTransactionType{
	PointsTransactionCredit,
	PointsTransactionDebit,
	PointsTransactionAdjust,
}

// String implements fmt.Stringer.
func (p PointsTransactionType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PointsTransactionType.
func (p PointsTransactionType) IsValid() bool {
	for _, candidate := range validPointsTransactionTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePointsTransactionType converts raw input into a PointsTransactionType.
func ParsePointsTransactionType(value string) (PointsTransactionType, error) {
	for _, candidate := range validPointsTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid points transaction type %q", value)
}
