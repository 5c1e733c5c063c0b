package client

import (
	"context"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Pinger checks whether the server is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Connectivity holds the process-wide mode flag. It only moves back to
// connected through Probe.
type Connectivity struct {
	connected *atomic.Bool
	pinger    Pinger
	logger    *zap.Logger
}

// NewConnectivity starts in connected mode until told otherwise
func NewConnectivity(pinger Pinger, logger *zap.Logger) *Connectivity {
	return &Connectivity{
		connected: atomic.NewBool(true),
		pinger:    pinger,
		logger:    logger,
	}
}

// Connected reports the current mode
func (c *Connectivity) Connected() bool {
	return c.connected.Load()
}

// MarkUnreachable switches to local mode
func (c *Connectivity) MarkUnreachable(reason error) {
	if c.connected.Swap(false) {
		c.logger.Warn("Server unreachable, switching to local mode", zap.Error(reason))
	}
}

// Probe pings the server and sets the mode from the answer
func (c *Connectivity) Probe(ctx context.Context) bool {
	if err := c.pinger.Ping(ctx); err != nil {
		c.MarkUnreachable(err)
		return false
	}

	if !c.connected.Swap(true) {
		c.logger.Info("Server reachable again, switching to remote mode")
	}
	return true
}
