package server

import (
	"context"

	"github.com/kbukum/getscript/component"
	"github.com/kbukum/getscript/observability"
)

const componentName = "http-server"

var _ component.Component = (*Component)(nil)

// Component adapts a Server to the component lifecycle.
type Component struct {
	server *Server
}

// NewComponent returns a component backed by s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

func (c *Component) Name() string { return componentName }

func (c *Component) Start(ctx context.Context) error { return c.server.Start(ctx) }

func (c *Component) Stop(ctx context.Context) error { return c.server.Stop(ctx) }

func (c *Component) Health(context.Context) observability.Health {
	if c.server.listener == nil {
		return observability.Health{Name: componentName, Status: observability.HealthStatusDown, Message: "not listening"}
	}
	return observability.Health{
		Name:    componentName,
		Status:  observability.HealthStatusUp,
		Details: map[string]string{"addr": c.server.Addr()},
	}
}
