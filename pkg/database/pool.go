package database

import (
	"fmt"
	"sync"
	"time"
)

// Process-wide database handle, reused across warm invocations so
// serverless deployments don't reconnect per request.
var (
	sharedDB     Interface
	sharedDBOnce sync.Once
	lastHealthy  time.Time
	healthMu     sync.Mutex
)

// healthCheckInterval bounds how often GetDatabase re-pings the backend
const healthCheckInterval = 30 * time.Second

// GetDatabase returns the shared backend, creating it on first use
func GetDatabase(config Config) Interface {
	sharedDBOnce.Do(func() {
		start := time.Now()
		sharedDB = NewDatabase(config)
		fmt.Printf("🚀 Database initialized in %v\n", time.Since(start))
	})

	healthMu.Lock()
	defer healthMu.Unlock()
	if time.Since(lastHealthy) > healthCheckInterval {
		if err := sharedDB.HealthCheck(); err != nil {
			fmt.Printf("⚠️  Database health check failed: %v\n", err)
		} else {
			lastHealthy = time.Now()
		}
	}
	return sharedDB
}
