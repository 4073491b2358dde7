package system

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessStats is a snapshot of this process's resource usage, reported in
// the bake performance summary.
type ProcessStats struct {
	RSSMegabytes float64
	CPUPercent   float64
	Threads      int32
}

// CollectProcessStats reads the current process's memory and CPU usage.
func CollectProcessStats() (ProcessStats, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return ProcessStats{}, err
	}

	var stats ProcessStats

	if mem, err := proc.MemoryInfo(); err == nil {
		stats.RSSMegabytes = float64(mem.RSS) / (1024 * 1024)
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	if threads, err := proc.NumThreads(); err == nil {
		stats.Threads = threads
	}

	return stats, nil
}
