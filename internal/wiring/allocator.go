package wiring

import (
	"fmt"
	"strings"

	"github.com/esp32-copilot/go-copilot-backend/internal/hardware"
)

// Role classes, decided purely from the role name.
type roleClass int

const (
	classUnknown roleClass = iota
	classPower
	classGround
	classI2CSDA
	classI2CSCL
	classSPIMOSI
	classSPIMISO
	classSPISCK
	classSPICS
	classAnalog
	classDigital
	classDC
	classReset
)

func classify(roleName string) roleClass {
	switch strings.ToUpper(roleName) {
	case "VCC", "VIN":
		return classPower
	case "GND":
		return classGround
	case "SDA", "SDL":
		return classI2CSDA
	case "SCL":
		return classI2CSCL
	case "MOSI", "SDI":
		return classSPIMOSI
	case "MISO", "SDO":
		return classSPIMISO
	case "SCK", "CLK":
		return classSPISCK
	case "CS", "SS":
		return classSPICS
	case "AOUT", "AO", "ANALOG":
		return classAnalog
	case "DATA", "IN", "OUT", "SIGNAL", "DQ", "IO", "TRIG", "ECHO", "EN",
		"IN1", "IN2", "IN3", "IN4":
		return classDigital
	case "DC", "RS":
		return classDC
	case "RES", "RST", "RESET":
		return classReset
	}
	return classUnknown
}

// powerLabel picks the rail label from the role's voltage note. A part noted
// for both rails defaults to 3.3V, the safer choice on ESP32 logic.
func powerLabel(descriptor string) string {
	if strings.Contains(descriptor, "5V") && !strings.Contains(descriptor, "3.3") {
		return "5V (VIN)"
	}
	return "3.3V"
}

// NoComponentsDiagram is returned verbatim when nothing resolves.
const NoComponentsDiagram = "No components selected"

type allocation struct {
	pools    hardware.PinPools
	used     map[string]string // physical pin -> owning component name
	digIdx   int
	adcIdx   int
	warnings []string
}

// claim records ownership of an exclusive pin, reporting (but not
// preventing) a conflict with a different component. Last writer wins.
func (a *allocation) claim(pin, componentName string) {
	if owner, ok := a.used[pin]; ok && owner != componentName {
		a.warnings = append(a.warnings,
			fmt.Sprintf("Pin conflict: %s is wired to both %s and %s", pin, owner, componentName))
	}
	a.used[pin] = componentName
}

// nextADC consumes the next free ADC pin, falling back to the fixed sentinel
// once the pool is exhausted.
func (a *allocation) nextADC(componentName, roleName string) string {
	for a.adcIdx < len(a.pools.ADC) {
		pin := a.pools.ADC[a.adcIdx]
		a.adcIdx++
		if _, taken := a.used[pin]; taken {
			continue
		}
		a.claim(pin, componentName)
		return pin
	}
	a.warnings = append(a.warnings,
		fmt.Sprintf("ADC pins are limited: %s %s falls back to %s", componentName, roleName, a.pools.ADCFallback))
	a.claim(a.pools.ADCFallback, componentName)
	return a.pools.ADCFallback
}

// nextDigital consumes the next free generic digital pin. Past the end of the
// pool it hands out a synthetic GPIO label derived from the cursor position.
// That overflow path intentionally skips the used-pin bookkeeping, so an
// overflow label can collide with an already-assigned pin.
func (a *allocation) nextDigital(componentName, roleName string) string {
	for a.digIdx < len(a.pools.Digital) {
		pin := a.pools.Digital[a.digIdx]
		a.digIdx++
		if _, taken := a.used[pin]; taken {
			continue
		}
		a.claim(pin, componentName)
		return pin
	}
	pin := fmt.Sprintf("GPIO%d", 24+a.digIdx)
	a.digIdx++
	a.warnings = append(a.warnings,
		fmt.Sprintf("Running low on free digital pins: %s %s assigned %s", componentName, roleName, pin))
	return pin
}

// Allocate maps the selected components' pin roles onto the board's pin
// inventory. It is deterministic for a fixed ID order and catalog, never
// errors, and reports every degraded assignment through warnings.
func Allocate(catalog *hardware.Catalog, componentIDs []string) Result {
	components := make([]hardware.Component, 0, len(componentIDs))
	for _, id := range componentIDs {
		if comp, ok := catalog.Resolve(id); ok {
			components = append(components, comp)
		}
	}

	result := Result{
		Warnings:       []string{},
		PinAssignments: map[string]map[string]string{},
		Components:     []ComponentRef{},
	}

	if len(components) == 0 {
		result.Diagram = NoComponentsDiagram
		return result
	}

	alloc := &allocation{
		pools: catalog.Pools(),
		used:  map[string]string{},
	}

	for _, comp := range components {
		assignments := make(map[string]string, len(comp.Roles))

		for _, role := range comp.Roles {
			var pin string
			switch classify(role.Name) {
			case classPower:
				pin = powerLabel(role.Descriptor)
			case classGround:
				pin = "GND"
			case classI2CSDA:
				pin = alloc.pools.I2C.SDA
			case classI2CSCL:
				pin = alloc.pools.I2C.SCL
			case classSPIMOSI:
				pin = alloc.pools.SPI.MOSI
			case classSPIMISO:
				pin = alloc.pools.SPI.MISO
			case classSPISCK:
				pin = alloc.pools.SPI.SCK
			case classSPICS:
				pin = alloc.pools.SPI.CS
			case classAnalog:
				pin = alloc.nextADC(comp.Name, role.Name)
			case classDigital:
				pin = alloc.nextDigital(comp.Name, role.Name)
			case classDC:
				pin = alloc.pools.DC
				alloc.claim(pin, comp.Name)
			case classReset:
				pin = alloc.pools.RST
				alloc.claim(pin, comp.Name)
			default:
				// Unrecognized role: the library's wiring hint passes
				// through untouched, no physical pin is resolved.
				pin = role.Descriptor
			}
			assignments[role.Name] = pin
		}

		result.PinAssignments[comp.ID] = assignments
		result.Components = append(result.Components, ComponentRef{ID: comp.ID, Name: comp.Name})
	}

	result.Warnings = alloc.warnings
	if result.Warnings == nil {
		result.Warnings = []string{}
	}
	result.Diagram = renderDiagram(components, result.PinAssignments, result.Warnings)
	return result
}
