package services

import (
	"context"
	"sort"

	"github.com/nimasrn/trade-ledger/pkg/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	deps map[string]Pinger
}

func NewHealthService(deps map[string]Pinger) *HealthService {
	return &HealthService{deps: deps}
}

// Check pings every dependency and reports "ok" or the error text per name.
// healthy is false when any dependency failed.
func (s *HealthService) Check(ctx context.Context) (status map[string]string, healthy bool) {
	names := make([]string, 0, len(s.deps))
	for name := range s.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	status = make(map[string]string, len(names))
	healthy = true
	for _, name := range names {
		if err := s.deps[name].Ping(ctx); err != nil {
			logger.Warn("health check failed", "dependency", name, "error", err)
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}
	return status, healthy
}
