package status

import (
	"time"

	"raven/internal/repo"
	"raven/internal/service"
)

// Status aggregates the current state of a raven project
type Status struct {
	Project   string           `json:"project"`
	Session   SessionInfo      `json:"session"`
	Services  []service.Health `json:"services"`
	Repos     []repo.Status    `json:"repos"`
	Vitals    Vitals           `json:"vitals"`
	Timestamp time.Time        `json:"timestamp"`
}

// SessionInfo describes the recorded running session, if any
type SessionInfo struct {
	Active    bool      `json:"active"`
	Mode      string    `json:"mode,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`
}

// Vitals holds board-level diagnostics read from the kernel
type Vitals struct {
	CPUTempC float64 `json:"cpu_temp_c,omitempty"`
	Load1    float64 `json:"load_1m,omitempty"`
	VoltageV float64 `json:"voltage_v,omitempty"`
}

// Healthy reports whether every configured service is healthy
func (s *Status) Healthy() bool {
	return service.AllHealthy(s.Services)
}

// UnhealthyCount returns the number of unhealthy services
func (s *Status) UnhealthyCount() int {
	n := 0
	for _, h := range s.Services {
		if !h.Healthy {
			n++
		}
	}
	return n
}
