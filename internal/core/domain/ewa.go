package domain

// Pure withdrawal math. Everything here is a deterministic function of
// its arguments; the services layer owns fetching and caching.

// defaultAmountOffsetCap caps how far above the minimum the suggested
// default amount starts, regardless of how wide the claimable range is.
const defaultAmountOffsetCap = 1000

// defaultAmountStep is the increment the suggested amount snaps to.
const defaultAmountStep = 100

// ServiceFee returns the flat fee for the slab containing amount, with
// inclusive bounds on both ends. No matching slab, or an empty table,
// yields zero: amounts outside the configured range are not extrapolated.
func ServiceFee(amount int, slabs []FeeSlab) int {
	for _, slab := range slabs {
		if amount >= slab.MinAmount && amount <= slab.MaxAmount {
			return slab.Fees
		}
	}
	return 0
}

// TotalPayable is the requested amount plus the slab fee. The fee is an
// additive surcharge, not deducted from the payout.
func TotalPayable(amount int, slabs []FeeSlab) int {
	return amount + ServiceFee(amount, slabs)
}

// DefaultWithdrawAmount suggests an initial withdrawal amount: 25% of
// the way from the minimum to the claimable ceiling, at most 1000 above
// the minimum, rounded down to the nearest 100 and clamped back into
// [minWages, available]. A non-positive ceiling pins to minWages.
func DefaultWithdrawAmount(minWages, available int) int {
	if available <= 0 || minWages > available {
		return minWages
	}

	offset := (available - minWages) / 4
	if offset > defaultAmountOffsetCap {
		offset = defaultAmountOffsetCap
	}

	amount := minWages + offset
	amount = amount / defaultAmountStep * defaultAmountStep

	if amount < minWages {
		// Rounding down dropped below the floor; snap up instead.
		amount = (minWages + defaultAmountStep - 1) / defaultAmountStep * defaultAmountStep
	}
	if amount > available {
		amount = minWages
	}
	return amount
}

// CanSubmit is the withdrawal submission guard: claimable wages must
// cover the minimum, the amount must be positive, EWA must be enabled
// for the employee, and no submission may already be in flight.
func CanSubmit(available, minWages, amount int, enabled, inFlight bool) bool {
	return available >= minWages && amount > 0 && enabled && !inFlight
}

// SubmitBlockReason returns the sentinel explaining why CanSubmit is
// false, or nil when submission is allowed. Checks are ordered so the
// most actionable reason wins.
func SubmitBlockReason(available, minWages, amount int, enabled, inFlight bool) error {
	switch {
	case inFlight:
		return ErrSubmissionInFlight
	case !enabled:
		return ErrEWADisabled
	case available < minWages:
		return ErrBelowMinimum
	case amount <= 0:
		return ErrInvalidAmount
	}
	return nil
}
