package core

import (
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	ReportID      ID
	TreatmentName ID
)

func (id ReportID) String() string      { return ID(id).String() }
func (id TreatmentName) String() string { return ID(id).String() }

// NewReportID creates a time-ordered report identifier
func NewReportID() ReportID {
	return ReportID(NewID())
}

// ParseTreatmentName validates a treatment name. Surrounding whitespace is
// significant to callers (it shows up in rendered tables), so it is rejected
// rather than trimmed.
func ParseTreatmentName(s string) (TreatmentName, error) {
	if strings.TrimSpace(s) == "" {
		return "", NewInvalidTreatmentError(s, "name cannot be empty")
	}
	if strings.TrimSpace(s) != s {
		return "", NewInvalidTreatmentError(s, "name has surrounding whitespace")
	}
	return TreatmentName(s), nil
}
