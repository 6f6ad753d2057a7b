package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testSlabs = []FeeSlab{
	{MinAmount: 0, MaxAmount: 5000, Fees: 50},
	{MinAmount: 5001, MaxAmount: 20000, Fees: 100},
}

func TestServiceFee(t *testing.T) {
	tests := []struct {
		name   string
		amount int
		slabs  []FeeSlab
		want   int
	}{
		{"first slab", 3000, testSlabs, 50},
		{"second slab", 10000, testSlabs, 100},
		{"lower boundary inclusive", 0, testSlabs, 50},
		{"upper boundary inclusive", 5000, testSlabs, 50},
		{"boundary of second slab", 5001, testSlabs, 100},
		{"top boundary inclusive", 20000, testSlabs, 100},
		{"above all slabs", 20001, testSlabs, 0},
		{"gap between slabs", 750, []FeeSlab{{MinAmount: 100, MaxAmount: 500, Fees: 10}, {MinAmount: 1000, MaxAmount: 2000, Fees: 20}}, 0},
		{"nil slabs", 3000, nil, 0},
		{"empty slabs", 3000, []FeeSlab{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ServiceFee(tt.amount, tt.slabs))
		})
	}
}

func TestServiceFee_TotalOverConfiguredRange(t *testing.T) {
	// Contiguous, non-overlapping slabs must yield exactly one match
	// for every amount in the configured range.
	slabs := []FeeSlab{
		{MinAmount: 0, MaxAmount: 999, Fees: 10},
		{MinAmount: 1000, MaxAmount: 4999, Fees: 25},
		{MinAmount: 5000, MaxAmount: 10000, Fees: 60},
	}
	for amount := 0; amount <= 10000; amount += 7 {
		matches := 0
		for _, s := range slabs {
			if amount >= s.MinAmount && amount <= s.MaxAmount {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "amount %d", amount)
		assert.NotZero(t, ServiceFee(amount, slabs), "amount %d", amount)
	}
}

func TestTotalPayable(t *testing.T) {
	assert.Equal(t, 3050, TotalPayable(3000, testSlabs))
	assert.Equal(t, 10100, TotalPayable(10000, testSlabs))
	assert.Equal(t, 25000, TotalPayable(25000, testSlabs)) // outside slabs, fee 0
}

func TestDefaultWithdrawAmount(t *testing.T) {
	tests := []struct {
		name      string
		minWages  int
		available int
		want      int
	}{
		{"wide range caps at 1000 over minimum", 1000, 10000, 2000},
		{"narrow range takes a quarter", 1000, 3000, 1500},
		{"quarter rounds down to step", 1000, 2500, 1300},
		{"zero available pins to minimum", 1000, 0, 1000},
		{"negative available pins to minimum", 1000, -500, 1000},
		{"minimum above available pins to minimum", 2000, 1500, 2000},
		{"minimum equals available", 1000, 1000, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultWithdrawAmount(tt.minWages, tt.available))
		})
	}
}

func TestDefaultWithdrawAmount_Bounded(t *testing.T) {
	// For every valid (minWages, available) pair the default stays in
	// [minWages, available] and lands on a 100-taka step.
	for minWages := 100; minWages <= 3000; minWages += 100 {
		for available := minWages; available <= minWages+12000; available += 300 {
			got := DefaultWithdrawAmount(minWages, available)
			assert.GreaterOrEqual(t, got, minWages, "min=%d avail=%d", minWages, available)
			assert.LessOrEqual(t, got, available, "min=%d avail=%d", minWages, available)
			assert.Zero(t, got%100, "min=%d avail=%d got=%d", minWages, available, got)
		}
	}
}

func TestCanSubmit_TruthTable(t *testing.T) {
	// Guard must be false whenever any blocking condition holds.
	type cond struct {
		available, amount int
		enabled, inFlight bool
	}
	for _, belowMin := range []bool{false, true} {
		for _, zeroAmount := range []bool{false, true} {
			for _, disabled := range []bool{false, true} {
				for _, inFlight := range []bool{false, true} {
					c := cond{available: 5000, amount: 2000, enabled: !disabled, inFlight: inFlight}
					if belowMin {
						c.available = 500
					}
					if zeroAmount {
						c.amount = 0
					}
					want := !belowMin && !zeroAmount && !disabled && !inFlight
					got := CanSubmit(c.available, 1000, c.amount, c.enabled, c.inFlight)
					assert.Equal(t, want, got,
						"belowMin=%v zeroAmount=%v disabled=%v inFlight=%v", belowMin, zeroAmount, disabled, inFlight)
				}
			}
		}
	}
}

func TestSubmitBlockReason(t *testing.T) {
	assert.NoError(t, SubmitBlockReason(5000, 1000, 2000, true, false))
	assert.ErrorIs(t, SubmitBlockReason(5000, 1000, 2000, true, true), ErrSubmissionInFlight)
	assert.ErrorIs(t, SubmitBlockReason(5000, 1000, 2000, false, false), ErrEWADisabled)
	assert.ErrorIs(t, SubmitBlockReason(500, 1000, 2000, true, false), ErrBelowMinimum)
	assert.ErrorIs(t, SubmitBlockReason(5000, 1000, 0, true, false), ErrInvalidAmount)
}
