package smartio

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

// SimProvider serves ports whose duty cycles are set by the caller.
type SimProvider struct {
	mu     sync.Mutex
	duties map[int]float64
	open   atomic.Int64
}

var _ = Provider(&SimProvider{})

// NewSimProvider returns a provider with every channel at 0% duty.
func NewSimProvider() *SimProvider {
	return &SimProvider{duties: map[int]float64{}}
}

// SetDutyCycle sets what the channel reports.
func (p *SimProvider) SetDutyCycle(channel int, duty float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.duties[channel] = duty
}

// OpenPorts returns the number of ports not yet closed.
func (p *SimProvider) OpenPorts() int {
	return int(p.open.Load())
}

// Open opens a port on the channel.
func (p *SimProvider) Open(ctx context.Context, channel int) (Port, error) {
	if err := ValidateChannel(channel); err != nil {
		return nil, err
	}
	p.open.Inc()
	return &simPort{provider: p, channel: channel}, nil
}

type simPort struct {
	provider *SimProvider
	channel  int
	closed   atomic.Bool
}

func (sp *simPort) Channel() int {
	return sp.channel
}

func (sp *simPort) DutyCycle(ctx context.Context) (float64, error) {
	if sp.closed.Load() {
		return 0, ErrPortClosed
	}
	sp.provider.mu.Lock()
	defer sp.provider.mu.Unlock()
	return sp.provider.duties[sp.channel], nil
}

func (sp *simPort) Close(ctx context.Context) error {
	if sp.closed.CompareAndSwap(false, true) {
		sp.provider.open.Dec()
	}
	return nil
}
