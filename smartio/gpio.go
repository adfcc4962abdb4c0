package smartio

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"go.viam.com/swerve/logging"
)

// DefaultEdgeTimeout bounds how long a measurement waits for each signal edge. Duty-cycle
// encoders publish at roughly 1 kHz, so a missing edge means the sensor is unplugged.
const DefaultEdgeTimeout = 20 * time.Millisecond

// edgePin is the part of gpio.PinIn measuring needs.
type edgePin interface {
	In(pull gpio.Pull, edge gpio.Edge) error
	Read() gpio.Level
	WaitForEdge(timeout time.Duration) bool
	Halt() error
}

type pinLookup func(name string) (edgePin, error)

func periphLookup(name string) (edgePin, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, errors.Errorf("no global pin found for %q", name)
	}
	return pin, nil
}

// GPIOProvider measures duty cycles on host GPIO lines through periph.io.
type GPIOProvider struct {
	pins        map[int]string
	lookup      pinLookup
	clock       clock.Clock
	edgeTimeout time.Duration
	logger      logging.Logger
}

var _ = Provider(&GPIOProvider{})

// NewGPIOProvider initializes the host drivers and returns a provider mapping channel numbers to
// host pin names.
func NewGPIOProvider(pins map[int]string, logger logging.Logger) (*GPIOProvider, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "initializing periph host drivers")
	}
	return newGPIOProvider(pins, periphLookup, clock.New(), logger), nil
}

func newGPIOProvider(pins map[int]string, lookup pinLookup, clk clock.Clock, logger logging.Logger) *GPIOProvider {
	return &GPIOProvider{pins: pins, lookup: lookup, clock: clk, edgeTimeout: DefaultEdgeTimeout, logger: logging.OrGlobal(logger)}
}

// Open configures the channel's pin as an input interrupting on both edges.
func (p *GPIOProvider) Open(ctx context.Context, channel int) (Port, error) {
	if err := ValidateChannel(channel); err != nil {
		return nil, err
	}
	name, ok := p.pins[channel]
	if !ok {
		return nil, errors.Errorf("channel %d has no pin mapping", channel)
	}
	pin, err := p.lookup(name)
	if err != nil {
		return nil, err
	}
	if err := pin.In(gpio.PullDown, gpio.BothEdges); err != nil {
		return nil, errors.Wrapf(err, "configuring pin %q", name)
	}
	p.logger.Debugw("opened duty cycle input", "channel", channel, "pin", name)
	return &gpioPort{channel: channel, pinName: name, pin: pin, clock: p.clock, timeout: p.edgeTimeout}, nil
}

type gpioPort struct {
	channel int
	pinName string
	pin     edgePin
	clock   clock.Clock
	timeout time.Duration
	closed  bool
}

func (gp *gpioPort) Channel() int {
	return gp.channel
}

// waitFor blocks until the pin reaches the given level through an edge.
func (gp *gpioPort) waitFor(level gpio.Level) error {
	for {
		if !gp.pin.WaitForEdge(gp.timeout) {
			return errors.Errorf("timed out waiting for edge on pin %q", gp.pinName)
		}
		if gp.pin.Read() == level {
			return nil
		}
	}
}

// DutyCycle times one full period: rising edge, falling edge, rising edge.
func (gp *gpioPort) DutyCycle(ctx context.Context) (float64, error) {
	if gp.closed {
		return 0, ErrPortClosed
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := gp.waitFor(gpio.High); err != nil {
		return 0, err
	}
	rise := gp.clock.Now()
	if err := gp.waitFor(gpio.Low); err != nil {
		return 0, err
	}
	fall := gp.clock.Now()
	if err := gp.waitFor(gpio.High); err != nil {
		return 0, err
	}
	period := gp.clock.Since(rise)
	if period <= 0 {
		return 0, errors.Errorf("no measurable period on pin %q", gp.pinName)
	}
	duty := float64(fall.Sub(rise)) / float64(period)
	return clamp01(duty), nil
}

func (gp *gpioPort) Close(ctx context.Context) error {
	if gp.closed {
		return nil
	}
	gp.closed = true
	return gp.pin.Halt()
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
