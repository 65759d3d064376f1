package engine

import "time"

const (
	// MaxPageSize caps the page size accepted by List.
	MaxPageSize = 500

	defaultMaxAppendRetries = 5
	retryBaseDelay          = 5 * time.Millisecond
	retryMaxDelay           = 200 * time.Millisecond

	defaultVerifyPageSize int64 = 1000
)
