// Package can provides sessions to devices on a robot's CAN buses, addressed the way FRC devices
// are: a 29-bit arbitration ID packing device type, manufacturer, API and device number.
package can

import (
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/swerve/resource"
)

// DeviceType is the 5-bit device class of an arbitration ID.
type DeviceType uint8

// Device types used by swerve hardware.
const (
	DeviceBroadcast       DeviceType = 0
	DeviceRobotController DeviceType = 1
	DeviceMotorController DeviceType = 2
	DeviceGyro            DeviceType = 4
	DeviceMiscellaneous   DeviceType = 10
)

// Manufacturer is the 8-bit manufacturer code of an arbitration ID.
type Manufacturer uint8

// Manufacturer codes.
const (
	ManufacturerNI         Manufacturer = 1
	ManufacturerCTRE       Manufacturer = 4
	ManufacturerREV        Manufacturer = 5
	ManufacturerKauaiLabs  Manufacturer = 9
	ManufacturerStudica    Manufacturer = 12
	ManufacturerThriftyBot Manufacturer = 13
	ManufacturerRedux      Manufacturer = 14
	ManufacturerAndyMark   Manufacturer = 15
)

// MaxDeviceNumber is the largest device number a bus can address.
const MaxDeviceNumber = resource.MaxDeviceID

// Address is a decoded arbitration ID.
type Address struct {
	Type         DeviceType
	Manufacturer Manufacturer
	APIClass     uint8
	APIIndex     uint8
	Device       uint8
}

// NewAddress returns the address of a device with the given type/manufacturer pair and number. It
// fails when the number cannot be encoded.
func NewAddress(deviceType DeviceType, manufacturer Manufacturer, device int) (Address, error) {
	if device < 0 || device > MaxDeviceNumber {
		return Address{}, errors.Errorf("device number %d out of range [0, %d]", device, MaxDeviceNumber)
	}
	addr := Address{Type: deviceType, Manufacturer: manufacturer, Device: uint8(device)}
	return addr, addr.Validate()
}

// Validate ensures every field fits its bit width.
func (a Address) Validate() error {
	switch {
	case a.Type > 31:
		return errors.Errorf("device type %d does not fit in 5 bits", a.Type)
	case a.APIClass > 63:
		return errors.Errorf("api class %d does not fit in 6 bits", a.APIClass)
	case a.APIIndex > 15:
		return errors.Errorf("api index %d does not fit in 4 bits", a.APIIndex)
	case a.Device > MaxDeviceNumber:
		return errors.Errorf("device number %d does not fit in 6 bits", a.Device)
	}
	return nil
}

// WithAPI returns the address of a specific API frame on the same device.
func (a Address) WithAPI(class, index uint8) Address {
	a.APIClass = class
	a.APIIndex = index
	return a
}

// ArbitrationID packs the address into a 29-bit extended CAN identifier.
func (a Address) ArbitrationID() uint32 {
	return uint32(a.Type&0x1f)<<24 |
		uint32(a.Manufacturer)<<16 |
		uint32(a.APIClass&0x3f)<<10 |
		uint32(a.APIIndex&0x0f)<<6 |
		uint32(a.Device&0x3f)
}

// DeviceKey identifies the device regardless of API.
func (a Address) DeviceKey() uint32 {
	return a.WithAPI(0, 0).ArbitrationID()
}

// ParseArbitrationID unpacks a 29-bit extended CAN identifier.
func ParseArbitrationID(id uint32) Address {
	return Address{
		Type:         DeviceType((id >> 24) & 0x1f),
		Manufacturer: Manufacturer((id >> 16) & 0xff),
		APIClass:     uint8((id >> 10) & 0x3f),
		APIIndex:     uint8((id >> 6) & 0x0f),
		Device:       uint8(id & 0x3f),
	}
}

func (a Address) String() string {
	return fmt.Sprintf("0x%08x(type=%d mfr=%d dev=%d)", a.ArbitrationID(), a.Type, a.Manufacturer, a.Device)
}
