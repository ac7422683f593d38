package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// HealthWorker periodically logs the gateway's own CPU and memory usage
// together with the number of tracked connections.
type HealthWorker struct {
	log      *slog.Logger
	interval time.Duration
	online   func() int
}

func NewHealthWorker(log *slog.Logger, interval time.Duration, online func() int) *HealthWorker {
	return &HealthWorker{log: log, interval: interval, online: online}
}

func (w *HealthWorker) Run(ctx context.Context) error {
	w.log.Info("Starting gateway health worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			w.log.Info("Gateway health",
				"cpu_percent", cpu,
				"ram_bytes", rss,
				"connected_users", w.online(),
			)
		}
	}
}

// selfStats retrieves memory and CPU usage for the given process.
func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
