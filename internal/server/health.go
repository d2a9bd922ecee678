package server

import (
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// handleHealth reports process and host health. Metric failures degrade to
// omitted fields rather than failing the endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	payload := map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.startedAt).Seconds()),
		"cache":          s.cache.GetStats(),
	}

	if cpuPercent, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(cpuPercent) > 0 {
		payload["cpu_percent"] = cpuPercent[0]
	}
	if memStat, err := mem.VirtualMemory(); err == nil {
		payload["memory_percent"] = memStat.UsedPercent
	}
	if diskStat, err := disk.Usage(s.cfg.DataDir); err == nil {
		payload["disk_percent"] = diskStat.UsedPercent
	}

	s.respondJSON(w, http.StatusOK, payload)
}
