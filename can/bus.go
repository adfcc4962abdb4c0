package can

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/resource"
)

// PrimaryBus is the name of the robot controller's built-in bus.
const PrimaryBus = resource.PrimaryBus

var (
	// ErrSessionClosed is returned by a Session used after Close.
	ErrSessionClosed = errors.New("can session is closed")
	// ErrNoDevice is returned when opening an address nothing answers on.
	ErrNoDevice = errors.New("no device at address")
)

// A Session is an open line to one device. Vendor integrations exchange named signals through it.
type Session interface {
	ID() string
	Address() Address
	Read(ctx context.Context, signal string) (float64, error)
	Write(ctx context.Context, signal string, value float64) error
	Close(ctx context.Context) error
}

// A Bus is one physical CAN network.
type Bus interface {
	Name() string
	Open(ctx context.Context, addr Address) (Session, error)
}

// Network holds the buses a robot is wired with, by name.
type Network struct {
	logger logging.Logger

	mu    sync.RWMutex
	buses map[string]Bus
}

// NewNetwork returns a network made of the given buses.
func NewNetwork(logger logging.Logger, buses ...Bus) (*Network, error) {
	n := &Network{logger: logging.OrGlobal(logger), buses: map[string]Bus{}}
	for _, b := range buses {
		if err := n.Add(b); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Add registers a bus. Bus names must be unique.
func (n *Network) Add(b Bus) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.buses[b.Name()]; ok {
		return errors.Errorf("bus %q already added", b.Name())
	}
	n.buses[b.Name()] = b
	n.logger.Debugw("added can bus", "bus", busDisplayName(b.Name()))
	return nil
}

// Bus returns the bus with the given name. PrimaryBus selects the built-in bus.
func (n *Network) Bus(name string) (Bus, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	b, ok := n.buses[name]
	if !ok {
		return nil, errors.Errorf("no can bus named %q", busDisplayName(name))
	}
	return b, nil
}

// Open opens a session on the named bus.
func (n *Network) Open(ctx context.Context, busName string, addr Address) (Session, error) {
	b, err := n.Bus(busName)
	if err != nil {
		return nil, err
	}
	return b.Open(ctx, addr)
}

// Names returns the names of every bus, sorted.
func (n *Network) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	names := make([]string, 0, len(n.buses))
	for name := range n.buses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func busDisplayName(name string) string {
	if name == PrimaryBus {
		return "primary"
	}
	return name
}
