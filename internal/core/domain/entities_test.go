package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want TransactionStatus
	}{
		{"completed", StatusCompleted},
		{"Approved", StatusApproved},
		{"PENDING", StatusPending},
		{"pending", StatusPending},
		{"rejected", StatusRejected},
		{"Cancelled", StatusCancelled},
		{" approved ", StatusApproved},
		{"weird", StatusOther},
		{"", StatusOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeStatus(tt.raw), "raw=%q", tt.raw)
	}
}

func TestPartitionTransactions(t *testing.T) {
	list := []Transaction{
		{RequestedAmount: 1000, Status: "completed", UpdatedAt: "2025-05-01T10:00:00Z"},
		{RequestedAmount: 2000, Status: "Approved", UpdatedAt: "2025-05-03T10:00:00Z"},
		{RequestedAmount: 3000, Status: "pending", UpdatedAt: "2025-05-02T10:00:00Z"},
		{RequestedAmount: 4000, Status: "PENDING", UpdatedAt: "2025-05-04T10:00:00Z"},
		{RequestedAmount: 5000, Status: "rejected", UpdatedAt: "2025-05-05T10:00:00Z"},
		{RequestedAmount: 6000, Status: "cancelled", UpdatedAt: "2025-05-06T10:00:00Z"},
		{RequestedAmount: 7000, Status: "weird", UpdatedAt: "2025-05-07T10:00:00Z"},
	}

	b := PartitionTransactions(list)

	amounts := func(txs []Transaction) []int {
		out := make([]int, len(txs))
		for i, tx := range txs {
			out[i] = tx.RequestedAmount
		}
		return out
	}

	// Approved holds completed+approved, pending both casings, rejected
	// holds rejected+cancelled; the unknown status lands only in All.
	assert.ElementsMatch(t, []int{1000, 2000}, amounts(b.Approved))
	assert.ElementsMatch(t, []int{3000, 4000}, amounts(b.Pending))
	assert.ElementsMatch(t, []int{5000, 6000}, amounts(b.Rejected))
	assert.Len(t, b.All, 7)
	assert.Contains(t, amounts(b.All), 7000)
	assert.NotContains(t, amounts(b.Approved), 7000)
	assert.NotContains(t, amounts(b.Pending), 7000)
	assert.NotContains(t, amounts(b.Rejected), 7000)

	// Each bucket sorted by updated_at descending.
	assert.Equal(t, []int{2000, 1000}, amounts(b.Approved))
	assert.Equal(t, []int{4000, 3000}, amounts(b.Pending))
	assert.Equal(t, []int{6000, 5000}, amounts(b.Rejected))
	assert.Equal(t, []int{7000, 6000, 5000, 4000, 3000, 2000, 1000}, amounts(b.All))
}

func TestPartitionTransactions_Empty(t *testing.T) {
	b := PartitionTransactions(nil)
	require.NotNil(t, b.All)
	assert.Empty(t, b.All)
	assert.Empty(t, b.Approved)
	assert.Empty(t, b.Pending)
	assert.Empty(t, b.Rejected)
}

func TestHasPending(t *testing.T) {
	assert.False(t, HasPending(nil))
	assert.False(t, HasPending([]Transaction{{Status: "approved"}}))
	assert.True(t, HasPending([]Transaction{{Status: "approved"}, {Status: "PENDING"}}))
}
