package types

// HealthStatus is the state reported by the health endpoints.
type HealthStatus string

const (
	HealthStatusUp HealthStatus = "UP"
	// HealthStatusDegraded means the todo store works but an optional
	// dependency (redis) does not.
	HealthStatusDegraded HealthStatus = "DEGRADED"
	HealthStatusDown     HealthStatus = "DOWN"
)

// DependencyHealth is the result of probing one dependency.
type DependencyHealth struct {
	Status  HealthStatus `json:"status"`
	Latency string       `json:"latency,omitempty"`
	Details string       `json:"details,omitempty"`
}

// HealthReport is the body of GET /health.
type HealthReport struct {
	Status       HealthStatus                `json:"status"`
	Dependencies map[string]DependencyHealth `json:"dependencies"`
	Version      string                      `json:"version"`
	Timestamp    string                      `json:"timestamp"`
	Uptime       string                      `json:"uptime"`
}

// Ready reports whether the service can take traffic.
func (r HealthReport) Ready() bool {
	return r.Status != HealthStatusDown
}
