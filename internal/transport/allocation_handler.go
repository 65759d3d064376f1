package transport

import (
	"context"
	"net/http"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

type statusRequest struct {
	Status model.AllocationStatus `json:"status"`
}

type assignBlockRequest struct {
	BlockName string `json:"blockName"`
}

type assignSchoolRequest struct {
	SchoolName string `json:"schoolName"`
}

type utilizedRequest struct {
	UtilizedAmount int64 `json:"utilizedAmount"`
}

// AllocationHandler serves allocation mutations. Every successful mutation responds with the
// updated allocation and the block that records it.
type AllocationHandler struct {
	allocations Allocations
	logger      *zap.Logger
}

// NewAllocationHandler returns an AllocationHandler instance.
func NewAllocationHandler(allocations Allocations, logger *zap.Logger) *AllocationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationHandler{allocations: allocations, logger: logger}
}

// Register mounts the allocation routes on mux.
func (h *AllocationHandler) Register(mux *gwruntime.ServeMux) error {
	routes := []struct {
		method, path string
		handler      gwruntime.HandlerFunc
	}{
		{http.MethodGet, "/allocations", h.list},
		{http.MethodPost, "/allocations", h.create},
		{http.MethodPatch, "/allocations/{id}/status", h.changeStatus},
		{http.MethodPost, "/allocations/{id}/received", h.markReceived},
		{http.MethodPost, "/allocations/{id}/assign-block", h.assignBlock},
		{http.MethodPost, "/allocations/{id}/assign-school", h.assignSchool},
		{http.MethodPost, "/allocations/{id}/utilized", h.markUtilized},
	}
	for _, r := range routes {
		if err := mux.HandlePath(r.method, r.path, r.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *AllocationHandler) list(w http.ResponseWriter, r *http.Request, _ map[string]string) {
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

	rows, total, err := h.allocations.List(r.Context(), page, pageSize)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	if rows == nil {
		rows = []model.Allocation{}
	}
	writeJSON(h.logger, w, http.StatusOK, pageResponse[model.Allocation]{Rows: rows, Total: total})
}

func (h *AllocationHandler) create(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req model.NewAllocation
	h.mutate(w, r, &req, http.StatusCreated, func(ctx context.Context, signer string) (model.AllocationChange, error) {
		return h.allocations.Create(ctx, signer, req)
	})
}

func (h *AllocationHandler) changeStatus(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var req statusRequest
	h.mutate(w, r, &req, http.StatusOK, func(ctx context.Context, signer string) (model.AllocationChange, error) {
		return h.allocations.ChangeStatus(ctx, signer, params["id"], req.Status)
	})
}

func (h *AllocationHandler) markReceived(w http.ResponseWriter, r *http.Request, params map[string]string) {
	h.mutate(w, r, nil, http.StatusOK, func(ctx context.Context, signer string) (model.AllocationChange, error) {
		return h.allocations.MarkReceived(ctx, signer, params["id"])
	})
}

func (h *AllocationHandler) assignBlock(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var req assignBlockRequest
	h.mutate(w, r, &req, http.StatusOK, func(ctx context.Context, signer string) (model.AllocationChange, error) {
		return h.allocations.AssignBlock(ctx, signer, params["id"], req.BlockName)
	})
}

func (h *AllocationHandler) assignSchool(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var req assignSchoolRequest
	h.mutate(w, r, &req, http.StatusOK, func(ctx context.Context, signer string) (model.AllocationChange, error) {
		return h.allocations.AssignSchool(ctx, signer, params["id"], req.SchoolName)
	})
}

func (h *AllocationHandler) markUtilized(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var req utilizedRequest
	h.mutate(w, r, &req, http.StatusOK, func(ctx context.Context, signer string) (model.AllocationChange, error) {
		return h.allocations.MarkUtilized(ctx, signer, params["id"], req.UtilizedAmount)
	})
}

// mutate reads the signer and the optional body, then runs apply.
func (h *AllocationHandler) mutate(
	w http.ResponseWriter,
	r *http.Request,
	body any,
	status int,
	apply func(ctx context.Context, signer string) (model.AllocationChange, error),
) {
	signer, err := signerID(r)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	if body != nil {
		if err = decodeBody(w, r, body); err != nil {
			writeError(h.logger, w, err)
			return
		}
	}

	change, err := apply(r.Context(), signer)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, status, change)
}
