// Package native holds the signal-level device objects vendor integrations build upon.
package native

import (
	"context"
	"sync"

	"go.viam.com/swerve/can"
	"go.viam.com/swerve/components/encoder"
	"go.viam.com/swerve/components/gyro"
	"go.viam.com/swerve/components/motor"
	"go.viam.com/swerve/spatialmath"
)

// MotorSignals names the signals a motor controller exchanges.
type MotorSignals struct {
	Duty     string
	Voltage  string
	Position string
	Velocity string
	// VelocityToRPM scales the velocity signal to revolutions per minute.
	VelocityToRPM float64
}

var (
	_ = motor.Motor(&Motor{})
	_ = encoder.Encoder(&Encoder{})
	_ = gyro.IMU(&IMU{})
)

// Motor is a motor controller reached through a CAN session.
type Motor struct {
	mu      sync.Mutex
	session can.Session
	signals MotorSignals
}

// NewMotor takes ownership of the session.
func NewMotor(session can.Session, signals MotorSignals) *Motor {
	if signals.VelocityToRPM == 0 {
		signals.VelocityToRPM = 1
	}
	return &Motor{session: session, signals: signals}
}

// Session returns the underlying session.
func (m *Motor) Session() can.Session {
	return m.session
}

// SetPower writes the duty cycle signal.
func (m *Motor) SetPower(ctx context.Context, powerPct float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Write(ctx, m.signals.Duty, powerPct)
}

// SetVoltage writes the voltage signal.
func (m *Motor) SetVoltage(ctx context.Context, volts float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Write(ctx, m.signals.Voltage, volts)
}

// Position reads the rotor position in revolutions.
func (m *Motor) Position(ctx context.Context) (float64, error) {
	return m.session.Read(ctx, m.signals.Position)
}

// Velocity reads the rotor speed in revolutions per minute.
func (m *Motor) Velocity(ctx context.Context) (float64, error) {
	v, err := m.session.Read(ctx, m.signals.Velocity)
	if err != nil {
		return 0, err
	}
	return v * m.signals.VelocityToRPM, nil
}

// Close closes the session.
func (m *Motor) Close(ctx context.Context) error {
	return m.session.Close(ctx)
}

// Encoder reads an absolute angle from a single signal.
type Encoder struct {
	session can.Session
	signal  string
	toAngle func(float64) spatialmath.Angle
}

// NewEncoder takes ownership of the session. toAngle converts the raw signal into an angle.
func NewEncoder(session can.Session, signal string, toAngle func(float64) spatialmath.Angle) *Encoder {
	return &Encoder{session: session, signal: signal, toAngle: toAngle}
}

// AbsolutePosition reads the signal and converts it.
func (e *Encoder) AbsolutePosition(ctx context.Context) (spatialmath.Angle, error) {
	raw, err := e.session.Read(ctx, e.signal)
	if err != nil {
		return 0, err
	}
	return e.toAngle(raw), nil
}

// Close closes the session.
func (e *Encoder) Close(ctx context.Context) error {
	return e.session.Close(ctx)
}

// IMU reads an orientation published as a quaternion.
type IMU struct {
	session can.Session
}

// NewIMU takes ownership of the session.
func NewIMU(session can.Session) *IMU {
	return &IMU{session: session}
}

// Orientation reads the quaternion signals.
func (i *IMU) Orientation(ctx context.Context) (spatialmath.Rotation3d, error) {
	w, x, y, z, err := can.ReadQuaternion(ctx, i.session)
	if err != nil {
		return spatialmath.Rotation3d{}, err
	}
	return spatialmath.NewRotation3dFromQuaternion(w, x, y, z), nil
}

// Close closes the session.
func (i *IMU) Close(ctx context.Context) error {
	return i.session.Close(ctx)
}

// HostPort reads an encoder wired into a host controller's data port. It does not own the
// session, which stays with the host.
type HostPort struct {
	session can.Session
	signal  string
	toAngle func(float64) spatialmath.Angle
}

// NewHostPort reads signal through the host's session.
func NewHostPort(session can.Session, signal string, toAngle func(float64) spatialmath.Angle) *HostPort {
	return &HostPort{session: session, signal: signal, toAngle: toAngle}
}

// AbsolutePosition reads the host's data port.
func (h *HostPort) AbsolutePosition(ctx context.Context) (spatialmath.Angle, error) {
	raw, err := h.session.Read(ctx, h.signal)
	if err != nil {
		return 0, err
	}
	return h.toAngle(raw), nil
}

// Close is a no-op. The host controller owns the session.
func (h *HostPort) Close(ctx context.Context) error {
	return nil
}
