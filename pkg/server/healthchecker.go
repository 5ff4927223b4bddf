package server

import "context"

// HealthChecker answers the health endpoint. Implementations should report
// false rather than block when a dependency is down.
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// OkHealthChecker always reports healthy. It backs deployments whose only
// dependency is the in-memory store.
type OkHealthChecker struct{}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Healthy(ctx context.Context) bool {
	return true
}
