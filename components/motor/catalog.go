package motor

import (
	"math"
	"sort"

	"github.com/samber/lo"
)

// DefaultNominalVoltage is the battery voltage every catalog entry is rated at.
const DefaultNominalVoltage = 12.0

// PhysicalSpec is the electrical and mechanical characterization of a motor, or of several identical
// motors ganged on one gearbox. Speeds are in radians per second, torques in newton meters.
type PhysicalSpec struct {
	Model          string
	NominalVoltage float64
	StallTorque    float64
	StallCurrent   float64
	FreeCurrent    float64
	FreeSpeed      float64
	MotorCount     int
}

func rpmToRadPerSec(rpm float64) float64 {
	return rpm * 2 * math.Pi / 60
}

func radPerSecToRPM(radPerSec float64) float64 {
	return radPerSec * 60 / (2 * math.Pi)
}

func newSpec(model string, stallTorque, stallCurrent, freeCurrent, freeSpeedRPM float64) PhysicalSpec {
	return PhysicalSpec{
		Model:          model,
		NominalVoltage: DefaultNominalVoltage,
		StallTorque:    stallTorque,
		StallCurrent:   stallCurrent,
		FreeCurrent:    freeCurrent,
		FreeSpeed:      rpmToRadPerSec(freeSpeedRPM),
		MotorCount:     1,
	}
}

var catalog = map[string]PhysicalSpec{
	"neo":       newSpec("neo", 2.6, 105, 1.8, 5676),
	"neo2":      newSpec("neo2", 2.6, 105, 1.8, 5676),
	"neo550":    newSpec("neo550", 0.97, 100, 1.4, 11000),
	"vortex":    newSpec("vortex", 3.6, 211, 3.6, 6784),
	"minion":    newSpec("minion", 3.17, 211, 2, 7200),
	"krakenx44": newSpec("krakenx44", 4.05, 275, 1.4, 7530),
	"krakenx60": newSpec("krakenx60", 7.09, 366, 2, 6000),
	"pulsar":    newSpec("pulsar", 3.1, 189, 1, 7500),
}

// Lookup returns the characterization of a single motor of the given model. Model names are
// case-sensitive.
func Lookup(model string) (PhysicalSpec, error) {
	spec, ok := catalog[model]
	if !ok {
		return PhysicalSpec{}, NewUnknownModelError(model)
	}
	return spec, nil
}

// Models returns every model in the catalog, sorted.
func Models() []string {
	models := lo.Keys(catalog)
	sort.Strings(models)
	return models
}

// Resistance is the winding resistance in ohms.
func (s PhysicalSpec) Resistance() float64 {
	return s.NominalVoltage / s.StallCurrent
}

// Kv is the velocity constant in radians per second per volt.
func (s PhysicalSpec) Kv() float64 {
	return s.FreeSpeed / (s.NominalVoltage - s.Resistance()*s.FreeCurrent)
}

// Kt is the torque constant in newton meters per amp.
func (s PhysicalSpec) Kt() float64 {
	return s.StallTorque / s.StallCurrent
}

// FreeSpeedRPM is the free speed in revolutions per minute.
func (s PhysicalSpec) FreeSpeedRPM() float64 {
	return radPerSecToRPM(s.FreeSpeed)
}

// WithMotorCount returns the characterization of count motors of this model driving one shaft.
func (s PhysicalSpec) WithMotorCount(count int) PhysicalSpec {
	if count < 1 {
		count = 1
	}
	perMotor := float64(count) / float64(s.motorCount())
	s.StallTorque *= perMotor
	s.StallCurrent *= perMotor
	s.FreeCurrent *= perMotor
	s.MotorCount = count
	return s
}

// WithReduction returns the characterization seen through a gearbox with the given ratio, where a
// ratio greater than one is a reduction.
func (s PhysicalSpec) WithReduction(ratio float64) PhysicalSpec {
	s.StallTorque *= ratio
	s.FreeSpeed /= ratio
	return s
}

// VoltageForSpeed returns the voltage that spins the unloaded output at the given speed in rpm.
func (s PhysicalSpec) VoltageForSpeed(rpm float64) float64 {
	return rpmToRadPerSec(rpm) / s.Kv()
}

func (s PhysicalSpec) motorCount() int {
	if s.MotorCount < 1 {
		return 1
	}
	return s.MotorCount
}
