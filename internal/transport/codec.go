package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

const (
	// SignerHeader carries the acting user's id, set by the upstream identity layer.
	SignerHeader = "X-User-ID"

	defaultPage     = 1
	defaultPageSize = 20
	maxBodyBytes    = 1 << 20
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errorResponse struct {
	Error string `json:"error"`
}

type pageResponse[T any] struct {
	Rows  []T   `json:"rows"`
	Total int64 `json:"total"`
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("write response failed", zap.Error(err))
	}
}

func writeError(logger *zap.Logger, w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	} else {
		logger.Debug("request rejected", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(logger, w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrRetriesExhausted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decode body: %v", model.ErrInvalidInput, err)
	}
	return nil
}

func signerID(r *http.Request) (string, error) {
	id := r.Header.Get(SignerHeader)
	if id == "" {
		return "", fmt.Errorf("%w: %s header is required", model.ErrInvalidInput, SignerHeader)
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", model.ErrInvalidInput, name)
	}
	return v, nil
}
