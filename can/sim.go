package can

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

type simDevice struct {
	mu      sync.Mutex
	signals map[string]float64
}

// SimBus is an in-memory bus. Devices hold named signals that sessions read and write.
type SimBus struct {
	name string
	// strict buses only open addresses that were attached beforehand.
	strict bool

	mu      sync.Mutex
	devices map[uint32]*simDevice

	open   atomic.Int64
	opened atomic.Int64
}

var _ = Bus(&SimBus{})

// NewSimBus returns a simulated bus on which any address answers.
func NewSimBus(name string) *SimBus {
	return &SimBus{name: name, devices: map[uint32]*simDevice{}}
}

// NewStrictSimBus returns a simulated bus on which only attached addresses answer.
func NewStrictSimBus(name string) *SimBus {
	b := NewSimBus(name)
	b.strict = true
	return b
}

// Name returns the bus name.
func (b *SimBus) Name() string {
	return b.name
}

// Attach makes a device answer at the address.
func (b *SimBus) Attach(addr Address) {
	b.device(addr, true)
}

func (b *SimBus) device(addr Address, create bool) *simDevice {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := addr.DeviceKey()
	dev, ok := b.devices[key]
	if !ok && create {
		dev = &simDevice{signals: map[string]float64{}}
		b.devices[key] = dev
	}
	return dev
}

// Set stores a signal value on the device at the address, attaching it if needed.
func (b *SimBus) Set(addr Address, signal string, value float64) {
	dev := b.device(addr, true)
	dev.mu.Lock()
	defer dev.mu.Unlock()
	dev.signals[signal] = value
}

// Get returns a signal value from the device at the address.
func (b *SimBus) Get(addr Address, signal string) (float64, bool) {
	dev := b.device(addr, false)
	if dev == nil {
		return 0, false
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	v, ok := dev.signals[signal]
	return v, ok
}

// OpenSessions returns the number of sessions not yet closed.
func (b *SimBus) OpenSessions() int {
	return int(b.open.Load())
}

// TotalOpened returns the number of sessions ever opened.
func (b *SimBus) TotalOpened() int {
	return int(b.opened.Load())
}

// Open opens a session to the device at the address.
func (b *SimBus) Open(ctx context.Context, addr Address) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	dev := b.device(addr, !b.strict)
	if dev == nil {
		return nil, errors.Wrapf(ErrNoDevice, "%s on bus %q", addr, busDisplayName(b.name))
	}
	b.open.Inc()
	b.opened.Inc()
	return &simSession{id: uuid.NewString(), addr: addr, bus: b, dev: dev}, nil
}

type simSession struct {
	id   string
	addr Address
	bus  *SimBus
	dev  *simDevice

	closed atomic.Bool
}

func (s *simSession) ID() string {
	return s.id
}

func (s *simSession) Address() Address {
	return s.addr
}

func (s *simSession) Read(ctx context.Context, signal string) (float64, error) {
	if s.closed.Load() {
		return 0, ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()
	return s.dev.signals[signal], nil
}

func (s *simSession) Write(ctx context.Context, signal string, value float64) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()
	s.dev.signals[signal] = value
	return nil
}

func (s *simSession) Close(ctx context.Context) error {
	if s.closed.CompareAndSwap(false, true) {
		s.bus.open.Dec()
	}
	return nil
}
