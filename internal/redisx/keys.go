package redisx

import "time"

const (
	// Cached dashboard snapshot: dashboard:stats -> JSON document
	KeyDashboardStats = "dashboard:stats"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatsCache = 5 * time.Minute
	TTLDedup      = 48 * time.Hour
)
