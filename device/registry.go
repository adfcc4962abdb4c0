package device

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/swerve/can"
	"go.viam.com/swerve/components/encoder"
	"go.viam.com/swerve/components/gyro"
	"go.viam.com/swerve/components/motor"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/smartio"
	"go.viam.com/swerve/vendors"
)

// Dependencies are the transports constructors open native devices on.
type Dependencies struct {
	CAN     *can.Network
	SmartIO smartio.Provider
}

type (
	// A MotorConstructor opens the native motor controller described by a binding.
	MotorConstructor func(
		ctx context.Context,
		deps Dependencies,
		b Binding,
		spec motor.PhysicalSpec,
		logger logging.Logger,
	) (motor.Motor, error)

	// An EncoderConstructor opens the native absolute encoder described by a binding.
	EncoderConstructor func(ctx context.Context, deps Dependencies, b Binding, logger logging.Logger) (encoder.Encoder, error)

	// A GyroConstructor opens the native gyroscope described by a binding.
	GyroConstructor func(ctx context.Context, deps Dependencies, b Binding, logger logging.Logger) (gyro.IMU, error)
)

// A Registration stores how one vendor builds one category of device over one medium. A single
// constructor is mandatory.
type Registration[CtorT any] struct {
	Constructor CtorT
	// Subtypes limits the registration to the listed subtypes. Empty means every subtype of the
	// category the vendor serves.
	Subtypes []string
}

func (r Registration[CtorT]) serves(subtype string) bool {
	return len(r.Subtypes) == 0 || lo.Contains(r.Subtypes, subtype)
}

type registryKey struct {
	vendor vendors.Vendor
	medium resource.Medium
}

type registry[CtorT any] struct {
	category Category
	mu       sync.RWMutex
	entries  map[registryKey]Registration[CtorT]
}

func newRegistry[CtorT any](c Category) *registry[CtorT] {
	return &registry[CtorT]{category: c, entries: map[registryKey]Registration[CtorT]{}}
}

func (r *registry[CtorT]) register(v vendors.Vendor, m resource.Medium, reg Registration[CtorT]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := registryKey{v, m}
	if _, old := r.entries[key]; old {
		panic(errors.Errorf("trying to register two %s constructors for vendor %s over %s", r.category, v, m))
	}
	r.entries[key] = reg
}

func (r *registry[CtorT]) deregister(v vendors.Vendor, m resource.Medium) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, registryKey{v, m})
}

func (r *registry[CtorT]) lookup(v vendors.Vendor, m resource.Medium, subtype string) (Registration[CtorT], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.entries[registryKey{v, m}]
	if !ok || !reg.serves(subtype) {
		return Registration[CtorT]{}, false
	}
	return reg, true
}

var (
	motorRegistry   = newRegistry[MotorConstructor](CategoryMotor)
	encoderRegistry = newRegistry[EncoderConstructor](CategoryAbsoluteEncoder)
	gyroRegistry    = newRegistry[GyroConstructor](CategoryGyro)
)

// RegisterMotor registers how a vendor builds its motor controllers over CAN. It panics when the
// vendor already has one; vendor packages call it from init.
func RegisterMotor(v vendors.Vendor, reg Registration[MotorConstructor]) {
	motorRegistry.register(v, resource.CAN, reg)
}

// RegisterAbsoluteEncoder registers how a vendor builds absolute encoders over a medium. For
// resource.Attached the vendor is the host controller's vendor.
func RegisterAbsoluteEncoder(v vendors.Vendor, m resource.Medium, reg Registration[EncoderConstructor]) {
	encoderRegistry.register(v, m, reg)
}

// RegisterGyro registers how a vendor builds its gyroscopes over CAN.
func RegisterGyro(v vendors.Vendor, reg Registration[GyroConstructor]) {
	gyroRegistry.register(v, resource.CAN, reg)
}

// DeregisterMotor removes a previously registered motor constructor.
func DeregisterMotor(v vendors.Vendor) {
	motorRegistry.deregister(v, resource.CAN)
}

// DeregisterAbsoluteEncoder removes a previously registered encoder constructor.
func DeregisterAbsoluteEncoder(v vendors.Vendor, m resource.Medium) {
	encoderRegistry.deregister(v, m)
}

// DeregisterGyro removes a previously registered gyro constructor.
func DeregisterGyro(v vendors.Vendor) {
	gyroRegistry.deregister(v, resource.CAN)
}

// registered reports whether any constructor serves the subtype for the vendor over the medium.
func registered(c Category, v vendors.Vendor, m resource.Medium, subtype string) bool {
	switch c {
	case CategoryMotor:
		_, ok := motorRegistry.lookup(v, m, subtype)
		return ok
	case CategoryAbsoluteEncoder:
		_, ok := encoderRegistry.lookup(v, m, subtype)
		return ok
	case CategoryGyro:
		_, ok := gyroRegistry.lookup(v, m, subtype)
		return ok
	default:
		return false
	}
}
