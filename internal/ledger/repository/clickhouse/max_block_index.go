package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/fundledger-backend/pkg/safe"
)

// MaxBlockIndex returns the highest mirrored block index, or false when nothing is mirrored yet.
func (r *Repository) MaxBlockIndex(ctx context.Context) (index int64, ok bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("max_block_index", err, start)
	}()

	const query = `
SELECT count() AS blocks, coalesce(max(block_index), toUInt64(0)) AS max_index
FROM ledger_blocks`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return 0, false, fmt.Errorf("query max block index: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			index, ok, err = 0, false, fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		return 0, false, errors.New("max block index not found")
	}

	var count, maxIndex uint64
	if err = rows.Scan(&count, &maxIndex); err != nil {
		return 0, false, fmt.Errorf("scan max block index: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, false, fmt.Errorf("iterate max block index: %w", err)
	}
	if count == 0 {
		return 0, false, nil
	}

	if index, err = safe.Int64(maxIndex); err != nil {
		return 0, false, fmt.Errorf("max block index: %w", err)
	}
	return index, true, nil
}
