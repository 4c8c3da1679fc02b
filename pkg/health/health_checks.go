package health

import "time"

// SnapshotState describes the currently served result
type SnapshotState struct {
	Loaded     bool
	Generation string
	ComputedAt time.Time
	Source     string
}

// SnapshotCheck is unhealthy until a result has been computed.
func SnapshotCheck(state func() SnapshotState) CheckFunc {
	return func() Check {
		s := state()
		check := Check{
			Name:    "snapshot",
			Details: make(map[string]any),
		}

		if !s.Loaded {
			check.Status = StatusUnhealthy
			check.Message = "No result computed yet"
			return check
		}

		check.Status = StatusHealthy
		check.Message = "Result available"
		check.Details["generation"] = s.Generation
		check.Details["computed_at"] = s.ComputedAt
		check.Details["source"] = s.Source
		return check
	}
}

// RecomputeCheck is degraded while the most recent recompute has failed and
// an older result is still being served.
func RecomputeCheck(lastErr func() error) CheckFunc {
	return func() Check {
		check := Check{Name: "recompute"}

		if err := lastErr(); err != nil {
			check.Status = StatusDegraded
			check.Message = err.Error()
			return check
		}

		check.Status = StatusHealthy
		check.Message = "Last recompute succeeded"
		return check
	}
}
