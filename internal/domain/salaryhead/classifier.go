package salaryhead

import (
	"sort"

	"github.com/shopspring/decimal"
)

type Bucket string

const (
	BucketEarnings   Bucket = "earnings"
	BucketDeductions Bucket = "deductions"
	BucketNonTaxable Bucket = "non_taxable"
)

// Classification partitions salary heads into disjoint buckets, each ordered
// by priority ascending.
type Classification struct {
	Earnings   []SalaryHead `json:"earnings"`
	Deductions []SalaryHead `json:"deductions"`
	NonTaxable []SalaryHead `json:"non_taxable"`
}

// Classify puts non-taxable heads in NonTaxable regardless of kind; the rest
// go to Earnings or Deductions by kind.
func Classify(heads []SalaryHead) Classification {
	ordered := make([]SalaryHead, len(heads))
	copy(ordered, heads)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	c := Classification{
		Earnings:   []SalaryHead{},
		Deductions: []SalaryHead{},
		NonTaxable: []SalaryHead{},
	}
	for _, head := range ordered {
		switch {
		case !head.IsTaxable:
			c.NonTaxable = append(c.NonTaxable, head)
		case head.Kind == KindDeduction:
			c.Deductions = append(c.Deductions, head)
		default:
			c.Earnings = append(c.Earnings, head)
		}
	}
	return c
}

// BucketOf returns the bucket holding the head with the given id.
func (c Classification) BucketOf(id int64) (Bucket, bool) {
	for _, h := range c.Earnings {
		if h.ID == id {
			return BucketEarnings, true
		}
	}
	for _, h := range c.Deductions {
		if h.ID == id {
			return BucketDeductions, true
		}
	}
	for _, h := range c.NonTaxable {
		if h.ID == id {
			return BucketNonTaxable, true
		}
	}
	return "", false
}

// Heads returns every classified head in bucket order.
func (c Classification) Heads() []SalaryHead {
	out := make([]SalaryHead, 0, len(c.Earnings)+len(c.Deductions)+len(c.NonTaxable))
	out = append(out, c.Earnings...)
	out = append(out, c.Deductions...)
	return append(out, c.NonTaxable...)
}

// Breakdown is a salary details map split by bucket.
type Breakdown struct {
	Earnings   Details `json:"earnings"`
	Deductions Details `json:"deductions"`
	NonTaxable Details `json:"non_taxable"`
}

// Breakdown splits details by bucket. Ids missing from the classification are
// left out; they stay available in the raw details.
func (c Classification) Breakdown(details Details) Breakdown {
	b := Breakdown{
		Earnings:   Details{},
		Deductions: Details{},
		NonTaxable: Details{},
	}
	for id, amount := range details {
		bucket, ok := c.BucketOf(id)
		if !ok {
			continue
		}
		switch bucket {
		case BucketEarnings:
			b.Earnings[id] = amount
		case BucketDeductions:
			b.Deductions[id] = amount
		case BucketNonTaxable:
			b.NonTaxable[id] = amount
		}
	}
	return b
}

// Flatten merges the buckets back into one details map.
func (b Breakdown) Flatten() Details {
	out := Details{}
	for _, part := range []Details{b.Earnings, b.Deductions, b.NonTaxable} {
		for id, amount := range part {
			out[id] = amount
		}
	}
	return out
}

// Totals sums each bucket.
func (b Breakdown) Totals() (earnings, deductions, nonTaxable decimal.Decimal) {
	return b.Earnings.Sum(), b.Deductions.Sum(), b.NonTaxable.Sum()
}
