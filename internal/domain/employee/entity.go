package employee

import "time"

// Status of an employee record.
type Status int16

const (
	StatusInactive Status = 0
	StatusActive   Status = 1
)

// SalaryPurpose explains why a salary history row was appended.
type SalaryPurpose int16

const (
	PurposeInitial   SalaryPurpose = 1
	PurposeIncrement SalaryPurpose = 2
	PurposePromotion SalaryPurpose = 3
)

func (p SalaryPurpose) String() string {
	switch p {
	case PurposeInitial:
		return "Initial"
	case PurposeIncrement:
		return "Increment"
	case PurposePromotion:
		return "Promotion"
	default:
		return "Unknown"
	}
}

const dateLayout = "2006-01-02"

func parseDate(value string) time.Time {
	t, _ := time.Parse(dateLayout, value)
	return t
}
