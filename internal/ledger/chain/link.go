package chain

import (
	"errors"
	"fmt"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
)

// IntegrityError identifies the first block that fails to recompute or link.
type IntegrityError struct {
	Index  int64
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("block %d: %s", e.Index, e.Reason)
}

// AsIntegrityError unwraps err into an IntegrityError when it carries one.
func AsIntegrityError(err error) (*IntegrityError, bool) {
	var ie *IntegrityError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// Link checks cur against its predecessor. prev must be nil only for the genesis block.
func Link(prev *model.Block, cur model.Block) error {
	if prev == nil {
		if cur.Index != 0 {
			return &IntegrityError{Index: cur.Index, Reason: "missing predecessor"}
		}
		if cur.PrevHash != model.GenesisPrevHash {
			return &IntegrityError{Index: cur.Index, Reason: fmt.Sprintf("genesis prev hash %q, want %q", cur.PrevHash, model.GenesisPrevHash)}
		}
	} else {
		if cur.Index != prev.Index+1 {
			return &IntegrityError{Index: prev.Index + 1, Reason: fmt.Sprintf("index gap: expected %d, got %d", prev.Index+1, cur.Index)}
		}
		if cur.PrevHash != prev.Hash {
			return &IntegrityError{Index: cur.Index, Reason: fmt.Sprintf("prev hash %s does not match block %d hash %s", cur.PrevHash, prev.Index, prev.Hash)}
		}
	}

	expected, err := Hash(cur)
	if err != nil {
		return &IntegrityError{Index: cur.Index, Reason: err.Error()}
	}
	if cur.Hash != expected {
		return &IntegrityError{Index: cur.Index, Reason: fmt.Sprintf("hash mismatch: stored %s, recomputed %s", cur.Hash, expected)}
	}
	return nil
}

// Segment checks blocks in ascending order, the first one against prev.
// It returns the first IntegrityError found.
func Segment(prev *model.Block, blocks []model.Block) error {
	for i := range blocks {
		if err := Link(prev, blocks[i]); err != nil {
			return err
		}
		prev = &blocks[i]
	}
	return nil
}
