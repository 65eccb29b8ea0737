package salaryhead

import "github.com/shopspring/decimal"

// Kind is the head_type column.
type Kind int16

const (
	KindEarning   Kind = 1
	KindDeduction Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindEarning:
		return "Earning"
	case KindDeduction:
		return "Deduction"
	default:
		return "Unknown"
	}
}

func (k Kind) Valid() bool {
	return k == KindEarning || k == KindDeduction
}

const (
	StatusInactive int16 = 0
	StatusActive   int16 = 1
)

// SalaryHead is a named salary component.
type SalaryHead struct {
	ID                int64           `json:"id"`
	Name              string          `json:"head_name"`
	Kind              Kind            `json:"head_type"`
	Amount            decimal.Decimal `json:"head_amount"`
	IsPercentage      bool            `json:"is_percentage"`
	IsVariable        bool            `json:"is_variable"`
	IsTaxable         bool            `json:"is_taxable"`
	IsPersonalSavings bool            `json:"is_personal_savings"`
	Priority          int             `json:"priority"`
	Status            int16           `json:"status"`
}
