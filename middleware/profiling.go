package middleware

import (
	"fmt"

	"github.com/grafana/pyroscope-go"

	"github.com/duynhne/fishfile-service/config"
)

var profiler *pyroscope.Profiler

// InitProfiling starts continuous profiling to the configured Pyroscope server.
func InitProfiling(cfg *config.Config) error {
	p, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.Service.Name,
		ServerAddress:   cfg.Profiling.Endpoint,
		Tags: map[string]string{
			"version": cfg.Service.Version,
			"env":     cfg.Service.Env,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return fmt.Errorf("start pyroscope: %w", err)
	}
	profiler = p
	return nil
}

// StopProfiling flushes and stops the profiler if it was started.
func StopProfiling() {
	if profiler != nil {
		_ = profiler.Stop()
		profiler = nil
	}
}
