package payroll

import (
	"fmt"
	"time"
)

// Status of a payroll run.
type Status int16

const (
	StatusDraft     Status = 0
	StatusGenerated Status = 1
	StatusApproved  Status = 2
	StatusRejected  Status = 3
	StatusCancelled Status = 4
)

var statusNames = map[Status]string{
	StatusDraft:     "Draft",
	StatusGenerated: "Generated",
	StatusApproved:  "Approved",
	StatusRejected:  "Rejected",
	StatusCancelled: "Cancelled",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int16(s))
}

func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// Editable reports whether header and detail lines may still change.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusGenerated
}

// ClosedStatuses do not occupy their month.
var ClosedStatuses = []Status{StatusRejected, StatusCancelled}

// OccupiesMonth reports whether a payroll in this status blocks another
// payroll for the same month.
func (s Status) OccupiesMonth() bool {
	for _, closed := range ClosedStatuses {
		if s == closed {
			return false
		}
	}
	return true
}

var transitions = map[Status][]Status{
	StatusDraft:     {StatusGenerated, StatusCancelled},
	StatusGenerated: {StatusApproved, StatusRejected, StatusCancelled},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DetailStatus of a payroll detail line.
type DetailStatus int16

const (
	DetailCurrent DetailStatus = 1
	DetailArrear  DetailStatus = 2
)

func (s DetailStatus) String() string {
	switch s {
	case DetailCurrent:
		return "Current"
	case DetailArrear:
		return "Arrear"
	default:
		return fmt.Sprintf("DetailStatus(%d)", int16(s))
	}
}

const dateLayout = "2006-01-02"

// NormalizeDate maps any date to the last day of its month, in UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)
}

// MonthBounds returns the first and last day of the month containing t.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC), NormalizeDate(t)
}

// ParseMonth accepts YYYY-MM-DD or YYYY-MM and returns the month-end date.
func ParseMonth(value string) (time.Time, error) {
	for _, layout := range []string{dateLayout, "2006-01"} {
		if t, err := time.Parse(layout, value); err == nil {
			return NormalizeDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid payroll date %q", value)
}
