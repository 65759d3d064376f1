// Package model defines domain models for the allocation ledger.
package model

import "time"

// GenesisPrevHash is the prevHash sentinel of the block at index 0.
const GenesisPrevHash = "GENESIS"

// Payload is the opaque snapshot of allocation fields changed by a transition.
type Payload map[string]any

// Block is one immutable, hash-linked record of an allocation transition.
type Block struct {
	Index        int64     `json:"index"`
	Timestamp    time.Time `json:"timestamp"`
	TxType       TxType    `json:"txType"`
	AllocationID string    `json:"allocationId"`
	Payload      Payload   `json:"payload"`
	PrevHash     string    `json:"prevHash"`
	Hash         string    `json:"hash"`
	SignerUserID string    `json:"signerUserId"`
}

// BlockFilter selects a page of blocks, newest first.
type BlockFilter struct {
	AllocationID string
	Page         int64
	PageSize     int64
}

// Offset returns the number of matching blocks preceding the requested page.
func (f BlockFilter) Offset() int64 {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// VerifyReport summarizes a chain verification run.
type VerifyReport struct {
	Valid             bool   `json:"valid"`
	Checked           int64  `json:"checked"`
	TailIndex         int64  `json:"tailIndex"`
	FirstInvalidIndex int64  `json:"firstInvalidIndex"`
	Reason            string `json:"reason,omitempty"`
}
