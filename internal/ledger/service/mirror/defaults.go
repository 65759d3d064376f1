package mirror

import "time"

const (
	defaultBatchSize = 500

	sleepDuration     = 5 * time.Second
	idleSleepDuration = 2 * time.Second

	batcherFlushSize     = 1000
	batcherFlushInterval = 1 * time.Second
	batcherFlushRPS      = 20
)
