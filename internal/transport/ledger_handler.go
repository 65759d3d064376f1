// Package transport exposes the ledger and allocation REST handlers.
package transport

import (
	"net/http"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

// LedgerHandler serves ledger reads.
type LedgerHandler struct {
	ledger Ledger
	logger *zap.Logger
}

// NewLedgerHandler returns a LedgerHandler instance.
func NewLedgerHandler(ledger Ledger, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHandler{ledger: ledger, logger: logger}
}

// Register mounts the ledger routes on mux.
func (h *LedgerHandler) Register(mux *gwruntime.ServeMux) error {
	routes := []struct {
		method, path string
		handler      gwruntime.HandlerFunc
	}{
		{http.MethodGet, "/allocations/ledger", h.listBlocks},
		{http.MethodGet, "/allocations/ledger/verify", h.verify},
	}
	for _, r := range routes {
		if err := mux.HandlePath(r.method, r.path, r.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *LedgerHandler) listBlocks(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	page, err := queryInt(r, "page", defaultPage)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	pageSize, err := queryInt(r, "pageSize", defaultPageSize)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	blocks, total, err := h.ledger.List(r.Context(), model.BlockFilter{
		AllocationID: r.URL.Query().Get("allocationId"),
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, pageResponse[model.Block]{Rows: blocks, Total: total})
}

func (h *LedgerHandler) verify(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	from, err := queryInt(r, "from", 0)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	to, err := queryInt(r, "to", -1)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	report, err := h.ledger.Verify(r.Context(), from, to)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, report)
}
