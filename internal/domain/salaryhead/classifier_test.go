package salaryhead

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHeads() []SalaryHead {
	return []SalaryHead{
		{ID: 1, Name: "House Rent", Kind: KindEarning, IsTaxable: true, Priority: 2},
		{ID: 2, Name: "Provident Fund", Kind: KindDeduction, IsTaxable: true, Priority: 1},
		{ID: 3, Name: "Medical", Kind: KindEarning, IsTaxable: false, Priority: 3},
		{ID: 4, Name: "Transport", Kind: KindEarning, IsTaxable: true, Priority: 1},
		{ID: 5, Name: "Loan Recovery", Kind: KindDeduction, IsTaxable: false, Priority: 0},
	}
}

func TestClassify_Buckets(t *testing.T) {
	c := Classify(sampleHeads())

	ids := func(heads []SalaryHead) []int64 {
		out := []int64{}
		for _, h := range heads {
			out = append(out, h.ID)
		}
		return out
	}

	assert.Equal(t, []int64{4, 1}, ids(c.Earnings))
	assert.Equal(t, []int64{2}, ids(c.Deductions))
	assert.Equal(t, []int64{5, 3}, ids(c.NonTaxable))
}

func TestClassify_TotalAndDisjoint(t *testing.T) {
	heads := sampleHeads()
	c := Classify(heads)

	seen := map[int64]int{}
	for _, h := range c.Heads() {
		seen[h.ID]++
	}
	require.Len(t, seen, len(heads))
	for id, n := range seen {
		assert.Equal(t, 1, n, "head %d classified %d times", id, n)
	}
}

func TestClassify_EmptyInput(t *testing.T) {
	c := Classify(nil)
	assert.NotNil(t, c.Earnings)
	assert.NotNil(t, c.Deductions)
	assert.NotNil(t, c.NonTaxable)
	assert.Empty(t, c.Heads())
}

func TestBreakdown_UnknownHeadsStayRaw(t *testing.T) {
	c := Classify(sampleHeads())
	details := Details{
		1:  decimal.NewFromInt(1000),
		2:  decimal.NewFromInt(250),
		3:  decimal.NewFromInt(300),
		99: decimal.NewFromInt(42),
	}

	b := c.Breakdown(details)

	assert.True(t, b.Earnings[1].Equal(decimal.NewFromInt(1000)))
	assert.True(t, b.Deductions[2].Equal(decimal.NewFromInt(250)))
	assert.True(t, b.NonTaxable[3].Equal(decimal.NewFromInt(300)))
	assert.Len(t, b.Flatten(), 3)
	assert.Contains(t, details, int64(99))

	earn, ded, non := b.Totals()
	assert.Equal(t, "1000", earn.String())
	assert.Equal(t, "250", ded.String())
	assert.Equal(t, "300", non.String())
}

func TestBucketOf(t *testing.T) {
	c := Classify(sampleHeads())

	bucket, ok := c.BucketOf(5)
	assert.True(t, ok)
	assert.Equal(t, BucketNonTaxable, bucket)

	_, ok = c.BucketOf(404)
	assert.False(t, ok)
}
