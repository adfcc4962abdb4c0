// Package encoder implements the absolute encoder component
package encoder

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/spatialmath"
)

// SubtypeName identifies the absolute encoder category in device tokens and logs.
const SubtypeName = "absoluteencoder"

// ErrClosed is returned by an AbsoluteEncoder used after Close.
var ErrClosed = errors.New("absolute encoder is closed")

// An Encoder is the native object a vendor integration produces for an absolute encoder.
type Encoder interface {
	// AbsolutePosition reads the current shaft angle.
	AbsolutePosition(ctx context.Context) (spatialmath.Angle, error)

	Close(ctx context.Context) error
}

var _ = resource.Resource(&AbsoluteEncoder{})

// AbsoluteEncoder is the uniform handle around a native encoder. Every call to Angle reads the
// sensor again.
type AbsoluteEncoder struct {
	name resource.Name

	mu       sync.Mutex
	native   Encoder
	offset   spatialmath.Angle
	inverted bool
	closed   bool
}

// NewAbsoluteEncoder wraps a native encoder.
func NewAbsoluteEncoder(name resource.Name, native Encoder) *AbsoluteEncoder {
	return &AbsoluteEncoder{name: name, native: native}
}

// Name returns the encoder's resource name.
func (e *AbsoluteEncoder) Name() resource.Name {
	return e.name
}

// Native returns the vendor object. Callers must not close it themselves.
func (e *AbsoluteEncoder) Native() Encoder {
	return e.native
}

// SetOffset sets the angle reported as zero.
func (e *AbsoluteEncoder) SetOffset(offset spatialmath.Angle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.offset = offset
}

// Offset returns the angle reported as zero.
func (e *AbsoluteEncoder) Offset() spatialmath.Angle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.offset
}

// SetInverted reverses the direction of increasing angle.
func (e *AbsoluteEncoder) SetInverted(inverted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inverted = inverted
}

// Angle reads the sensor and returns its angle in [0, 2π), after inversion and offset.
func (e *AbsoluteEncoder) Angle(ctx context.Context) (spatialmath.Angle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0, ErrClosed
	}
	raw, err := e.native.AbsolutePosition(ctx)
	if err != nil {
		return 0, errors.Wrapf(err, "reading %s", e.name)
	}
	if e.inverted {
		raw = -raw
	}
	return (raw - e.offset).Normalize(), nil
}

// Close releases the native encoder. Closing again is a no-op.
func (e *AbsoluteEncoder) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return e.native.Close(ctx)
}
