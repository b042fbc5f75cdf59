package domain

// OpsMetrics is the operational snapshot served to the dashboard's
// ops widget. Values come from the in-process Prometheus counters.
type OpsMetrics struct {
	TotalRequests    int64   `json:"total_requests"`
	ErrorRate        float64 `json:"error_rate"`
	RefreshSuccesses int64   `json:"refresh_successes"`
	RefreshFailures  int64   `json:"refresh_failures"`
	StatsCacheHit    float64 `json:"stats_cache_hit_rate"`
}
