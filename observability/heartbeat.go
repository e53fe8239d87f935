// Package observability reports process health while the server runs.
package observability

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ConnectionCounter exposes how many sockets are currently registered.
type ConnectionCounter interface {
	ClientCount() int
}

// Heartbeat periodically logs self CPU, RSS, and connection count. It is a
// supervised worker; a stats read failure is logged and retried on the next
// tick.
type Heartbeat struct {
	log      *slog.Logger
	counter  ConnectionCounter
	interval time.Duration
}

func NewHeartbeat(log *slog.Logger, counter ConnectionCounter, interval time.Duration) *Heartbeat {
	return &Heartbeat{log: log, counter: counter, interval: interval}
}

func (h *Heartbeat) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	self, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cpu, err := self.CPUPercent()
			if err != nil {
				h.log.Warn("Failed to read CPU stats", "error", err)
				continue
			}
			mem, err := self.MemoryInfo()
			if err != nil {
				h.log.Warn("Failed to read memory stats", "error", err)
				continue
			}
			h.log.Info("Heartbeat",
				"cpu_percent", cpu,
				"rss_bytes", mem.RSS,
				"connections", h.counter.ClientCount(),
			)
		}
	}
}
