package model

import "time"

// AllocationStatus is the approval state of an allocation.
type AllocationStatus string

var (
	AllocationPending  AllocationStatus = "pending"
	AllocationApproved AllocationStatus = "approved"
	AllocationRejected AllocationStatus = "rejected"
)

// Valid reports whether s is a known allocation status.
func (s AllocationStatus) Valid() bool {
	switch s {
	case AllocationPending, AllocationApproved, AllocationRejected:
		return true
	default:
		return false
	}
}

// Allocation is a fund transfer to a district and its downstream progression flags.
type Allocation struct {
	ID             string           `json:"id"`
	District       string           `json:"district"`
	Amount         int64            `json:"amount"`
	Purpose        string           `json:"purpose"`
	Status         AllocationStatus `json:"status"`
	Received       bool             `json:"received"`
	BlockName      string           `json:"blockName,omitempty"`
	SchoolName     string           `json:"schoolName,omitempty"`
	Utilized       bool             `json:"utilized"`
	UtilizedAmount int64            `json:"utilizedAmount,omitempty"`
	Version        int64            `json:"version"`
	CreatedBy      string           `json:"createdBy"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// Revert undoes in cur the progression fields that next changed relative to prev, leaving
// fields changed by anyone else alone. It reports whether anything was reverted.
func Revert(cur, prev, next Allocation) (Allocation, bool) {
	reverted := false
	if prev.Status != next.Status && cur.Status == next.Status {
		cur.Status, reverted = prev.Status, true
	}
	if prev.Received != next.Received && cur.Received == next.Received {
		cur.Received, reverted = prev.Received, true
	}
	if prev.BlockName != next.BlockName && cur.BlockName == next.BlockName {
		cur.BlockName, reverted = prev.BlockName, true
	}
	if prev.SchoolName != next.SchoolName && cur.SchoolName == next.SchoolName {
		cur.SchoolName, reverted = prev.SchoolName, true
	}
	if (prev.Utilized != next.Utilized || prev.UtilizedAmount != next.UtilizedAmount) &&
		cur.Utilized == next.Utilized && cur.UtilizedAmount == next.UtilizedAmount {
		cur.Utilized, cur.UtilizedAmount, reverted = prev.Utilized, prev.UtilizedAmount, true
	}
	return cur, reverted
}

// NewAllocation holds the caller supplied fields of a new allocation.
type NewAllocation struct {
	District string `json:"district"`
	Amount   int64  `json:"amount"`
	Purpose  string `json:"purpose"`
}

// AllocationChange pairs the updated allocation with the block recording the transition.
type AllocationChange struct {
	Allocation Allocation `json:"allocation"`
	Block      Block      `json:"block"`
}
