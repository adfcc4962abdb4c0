package motor

import (
	"github.com/pkg/errors"
)

// ErrUnknownModel is the cause of every error returned for a motor model missing from the catalog.
var ErrUnknownModel = errors.New("unknown motor model")

// ErrClosed is returned by a Controller used after Close.
var ErrClosed = errors.New("motor controller is closed")

// NewUnknownModelError returns an error for a motor model that is not in the catalog.
func NewUnknownModelError(model string) error {
	return errors.Wrapf(ErrUnknownModel, "%q", model)
}

// NewZeroRPMError returns an error representing a request to move a motor at
// zero speed (i.e., moving the motor without moving the motor).
func NewZeroRPMError() error {
	return errors.New("Cannot move motor at an RPM that is nearly 0")
}

// NewInvalidVoltageError is returned when a requested voltage exceeds the motor's rating.
func NewInvalidVoltageError(volts, nominal float64) error {
	return errors.Errorf("requested %.2f V exceeds the %.2f V nominal rating", volts, nominal)
}
