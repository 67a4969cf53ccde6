package complaints

import (
	"strings"

	apperrors "github.com/louisbranch/civicreporter/internal/platform/errors"
)

// Status is the triage state reported by the complaints API.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

var statuses = []Status{StatusPending, StatusInProgress, StatusResolved}

// Statuses returns the known statuses in display order.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// ParseStatus accepts one of the exact status spellings.
func ParseStatus(value string) (Status, error) {
	trimmed := strings.TrimSpace(value)
	for _, status := range statuses {
		if string(status) == trimmed {
			return status, nil
		}
	}
	return "", apperrors.WithMetadata(apperrors.CodeInvalidStatus, "unknown status", map[string]string{"Status": trimmed})
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// MessageKey returns the catalog key used to display the status.
func (s Status) MessageKey() string {
	switch s {
	case StatusPending:
		return "core.status.pending"
	case StatusInProgress:
		return "core.status.in_progress"
	case StatusResolved:
		return "core.status.resolved"
	default:
		return ""
	}
}

// StatusFilter narrows a listing to one status; the zero value lists everything.
type StatusFilter Status

// FilterAll lists complaints regardless of status.
const FilterAll StatusFilter = ""

// ParseStatusFilter treats blank input as FilterAll.
func ParseStatusFilter(value string) (StatusFilter, error) {
	if strings.TrimSpace(value) == "" {
		return FilterAll, nil
	}
	status, err := ParseStatus(value)
	if err != nil {
		return FilterAll, err
	}
	return StatusFilter(status), nil
}

// IsAll reports whether the filter lists every status.
func (f StatusFilter) IsAll() bool {
	return f == FilterAll
}
