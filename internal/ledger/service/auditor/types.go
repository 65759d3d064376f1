package auditor

import (
	"context"
	"time"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// ChainReader verifies stored block ranges.
	ChainReader interface {
		Tail(ctx context.Context) (int64, bool, error)
		VerifyRange(ctx context.Context, from, to int64) (model.VerifyReport, error)
	}
	Metrics interface {
		ObserveChunk(err error, valid bool, started time.Time)
		ObserveAudit(report model.VerifyReport, err error)
	}
)
