package pg

import "context"

// HealthChecker reports whether the archive database answers pings. It
// satisfies the server health contract for pg-backed deployments.
type HealthChecker struct {
	pool *ConnectionPool
}

func NewHealthChecker(pool *ConnectionPool) *HealthChecker {
	return &HealthChecker{pool: pool}
}

func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	if hc.pool == nil {
		return false
	}
	return hc.pool.Ping(ctx) == nil
}
