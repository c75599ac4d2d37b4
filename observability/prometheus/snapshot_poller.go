package prometheus

import (
	"context"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/KazakovDenis/gofutures/core"
)

// BridgeSnapshotProvider provides current bridge stats snapshots.
type BridgeSnapshotProvider interface {
	Stats() core.BridgeStats
}

// SnapshotPoller periodically exports bridge Stats() snapshots into
// Prometheus gauges.
type SnapshotPoller struct {
	interval time.Duration

	bridgesMu sync.RWMutex
	bridges   map[string]BridgeSnapshotProvider

	bridgeQueued      *prom.GaugeVec
	bridgeOutstanding *prom.GaugeVec
	bridgeState       *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	bridgeQueued := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "gofutures",
		Name:      "bridge_queued",
		Help:      "Number of queued tasks per bridge.",
	}, []string{"bridge"})
	bridgeOutstanding := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "gofutures",
		Name:      "bridge_outstanding",
		Help:      "Number of outstanding tasks (queued or in-flight) per bridge.",
	}, []string{"bridge"})
	bridgeState := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "gofutures",
		Name:      "bridge_state",
		Help:      "Bridge lifecycle state (1 for the current state).",
	}, []string{"bridge", "state"})

	var err error
	if bridgeQueued, err = registerCollector(reg, bridgeQueued); err != nil {
		return nil, err
	}
	if bridgeOutstanding, err = registerCollector(reg, bridgeOutstanding); err != nil {
		return nil, err
	}
	if bridgeState, err = registerCollector(reg, bridgeState); err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval:          interval,
		bridges:           make(map[string]BridgeSnapshotProvider),
		bridgeQueued:      bridgeQueued,
		bridgeOutstanding: bridgeOutstanding,
		bridgeState:       bridgeState,
	}, nil
}

// AddBridge adds or replaces a bridge snapshot provider by name.
func (p *SnapshotPoller) AddBridge(name string, provider BridgeSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "bridge")
	p.bridgesMu.Lock()
	p.bridges[name] = provider
	p.bridgesMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

var bridgeStates = []string{"running", "shutting_down", "stopped"}

func (p *SnapshotPoller) collectOnce() {
	p.bridgesMu.RLock()
	defer p.bridgesMu.RUnlock()

	for name, provider := range p.bridges {
		stats := provider.Stats()
		p.bridgeQueued.WithLabelValues(name).Set(float64(stats.Queued))
		p.bridgeOutstanding.WithLabelValues(name).Set(float64(stats.Outstanding))
		for _, state := range bridgeStates {
			v := 0.0
			if stats.State == state {
				v = 1.0
			}
			p.bridgeState.WithLabelValues(name, state).Set(v)
		}
	}
}
