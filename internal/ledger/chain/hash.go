// Package chain implements hashing and link validation of ledger blocks.
package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
)

// TimestampLayout is the canonical timestamp rendering: UTC with millisecond digits.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// canonicalBlock fixes field order of the hashed tuple. Payload map keys are sorted by encoding/json.
type canonicalBlock struct {
	Index        int64           `json:"index"`
	Timestamp    string          `json:"timestamp"`
	TxType       model.TxType    `json:"txType"`
	AllocationID string          `json:"allocationId"`
	Payload      json.RawMessage `json:"payload"`
	PrevHash     string          `json:"prevHash"`
	SignerUserID string          `json:"signerUserId"`
}

// Canonical returns the byte form of every hashed field of b. The stored hash is ignored.
func Canonical(b model.Block) ([]byte, error) {
	payload, err := CanonicalPayload(b.Payload)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(canonicalBlock{
		Index:        b.Index,
		Timestamp:    b.Timestamp.UTC().Truncate(time.Millisecond).Format(TimestampLayout),
		TxType:       b.TxType,
		AllocationID: b.AllocationID,
		Payload:      payload,
		PrevHash:     b.PrevHash,
		SignerUserID: b.SignerUserID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal block: %w", err)
	}
	return data, nil
}

// CanonicalPayload returns the JSON form of p with sorted keys. An empty payload is {}.
func CanonicalPayload(p model.Payload) ([]byte, error) {
	if len(p) == 0 {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return data, nil
}

// Hash returns the hex encoded SHA-256 digest of the canonical form of b.
func Hash(b model.Block) (string, error) {
	data, err := Canonical(b)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
