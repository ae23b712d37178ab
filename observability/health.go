package observability

import "time"

// HealthStatus is the state reported on /health.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

// Health is the state of one dependency or component.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ServiceHealth aggregates component results into one service status.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Version    string       `json:"version,omitempty"`
	Status     HealthStatus `json:"status"`
	CheckedAt  time.Time    `json:"checkedAt"`
	Components []Health     `json:"components,omitempty"`
}

// NewServiceHealth starts an aggregate in the up state.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{
		Service:   service,
		Version:   version,
		Status:    HealthStatusUp,
		CheckedAt: time.Now().UTC(),
	}
}

// AddComponent appends h. A component that is not up degrades the service.
func (sh *ServiceHealth) AddComponent(h Health) {
	sh.Components = append(sh.Components, h)
	if h.Status != HealthStatusUp && sh.Status == HealthStatusUp {
		sh.Status = HealthStatusDegraded
	}
}

// Unhealthy returns the names of components that are not up.
func (sh *ServiceHealth) Unhealthy() []string {
	var names []string
	for _, h := range sh.Components {
		if h.Status != HealthStatusUp {
			names = append(names, h.Name)
		}
	}
	return names
}
