package enums

import "fmt"

// MovementType is the direction of a stock change.
type MovementType string

const (
	MovementTypeIn  MovementType = "in"
	MovementTypeOut MovementType = "out"
)

var validMovementTypes = []MovementType{
	MovementTypeIn,
	MovementTypeOut,
}

// String implements fmt.Stringer.
func (m MovementType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MovementType.
func (m MovementType) IsValid() bool {
	for _, candidate := range validMovementTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMovementType converts raw input into a MovementType.
func ParseMovementType(value string) (MovementType, error) {
	for _, candidate := range validMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement type %q", value)
}

// MovementReference identifies what caused a stock change.
type MovementReference string

const (
	MovementReferenceOrder          MovementReference = "order"
	MovementReferenceOrderCancelled MovementReference = "order_cancelled"
	MovementReferenceAdjustment     MovementReference = "adjustment"
)

var validMovementReferences = []MovementReference{
	MovementReferenceOrder,
	MovementReferenceOrderCancelled,
	MovementReferenceAdjustment,
}

// String implements fmt.Stringer.
func (m MovementReference) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MovementReference.
func (m MovementReference) IsValid() bool {
	for _, candidate := range validMovementReferences {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMovementReference converts raw input into a MovementReference.
func ParseMovementReference(value string) (MovementReference, error) {
	for _, candidate := range validMovementReferences {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement reference %q", value)
}
