package server

import (
	"context"
	"sort"
	"sync"
	"time"
)

const (
	StatusUp   = "up"
	StatusDown = "down"
)

type Health struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

func (h Health) Healthy() bool { return h.Status == StatusUp }

type HealthChecker interface {
	Check(ctx context.Context) Health
}

type OkHealthChecker struct {
}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Check(ctx context.Context) Health {
	return Health{Status: StatusUp}
}

// ComponentHealthChecker probes named components concurrently. The overall
// status is down when any component fails.
type ComponentHealthChecker struct {
	timeout time.Duration
	names   []string
	probes  map[string]func(ctx context.Context) error
}

func NewComponentHealthChecker(timeout time.Duration) *ComponentHealthChecker {
	return &ComponentHealthChecker{
		timeout: timeout,
		probes:  make(map[string]func(ctx context.Context) error),
	}
}

func (hc *ComponentHealthChecker) Add(name string, probe func(ctx context.Context) error) *ComponentHealthChecker {
	if _, exists := hc.probes[name]; !exists {
		hc.names = append(hc.names, name)
		sort.Strings(hc.names)
	}
	hc.probes[name] = probe
	return hc
}

func (hc *ComponentHealthChecker) Check(ctx context.Context) Health {
	if hc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, hc.timeout)
		defer cancel()
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	h := Health{Status: StatusUp, Components: make(map[string]string, len(hc.names))}
	for _, name := range hc.names {
		probe := hc.probes[name]
		wg.Add(1)
		go func() {
			defer wg.Done()
			status := StatusUp
			if err := probe(ctx); err != nil {
				status = StatusDown + ": " + err.Error()
			}
			mu.Lock()
			h.Components[name] = status
			if status != StatusUp {
				h.Status = StatusDown
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
	return h
}
