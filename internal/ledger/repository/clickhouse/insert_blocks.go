package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/chain"
	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
	"github.com/goodnatureofminers/fundledger-backend/pkg/safe"
)

// InsertBlocks stores block rows in ClickHouse. Re-inserting a block replaces the earlier row.
func (r *Repository) InsertBlocks(ctx context.Context, blocks []model.Block) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_blocks", err, start)
	}()

	if len(blocks) == 0 {
		return nil
	}

	const query = `
INSERT INTO ledger_blocks (
	block_index,
	timestamp,
	tx_type,
	allocation_id,
	payload,
	prev_hash,
	hash,
	signer_user_id
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare blocks batch: %w", err)
	}

	for _, block := range blocks {
		var index uint64
		index, err = safe.Uint64(block.Index)
		if err != nil {
			return fmt.Errorf("block index: %w", err)
		}
		var payload []byte
		payload, err = chain.CanonicalPayload(block.Payload)
		if err != nil {
			return fmt.Errorf("block %d payload: %w", block.Index, err)
		}

		if err = batch.Append(
			index,
			block.Timestamp.UTC(),
			string(block.TxType),
			block.AllocationID,
			string(payload),
			block.PrevHash,
			block.Hash,
			block.SignerUserID,
		); err != nil {
			return fmt.Errorf("append block: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert blocks: %w", err)
	}
	return nil
}
