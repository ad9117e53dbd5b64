package wiring_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esp32-copilot/go-copilot-backend/internal/hardware"
	"github.com/esp32-copilot/go-copilot-backend/internal/wiring"
)

func TestAllocate_EmptyInput(t *testing.T) {
	catalog := hardware.NewCatalog()

	res := wiring.Allocate(catalog, nil)

	assert.Equal(t, "No components selected", res.Diagram)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.PinAssignments)
	assert.Empty(t, res.Components)
}

func TestAllocate_UnknownComponentSkipped(t *testing.T) {
	catalog := hardware.NewCatalog()

	t.Run("only unknown behaves like empty", func(t *testing.T) {
		res := wiring.Allocate(catalog, []string{"not_a_real_id"})
		assert.Equal(t, "No components selected", res.Diagram)
		assert.Empty(t, res.Warnings)
	})

	t.Run("unknown among known is dropped silently", func(t *testing.T) {
		res := wiring.Allocate(catalog, []string{"not_a_real_id", "dht22"})
		require.Len(t, res.Components, 1)
		assert.Equal(t, "dht22", res.Components[0].ID)
		assert.Empty(t, res.Warnings)
	})
}

func TestAllocate_BusSharing(t *testing.T) {
	catalog := hardware.NewCatalog()

	res := wiring.Allocate(catalog, []string{"bme280", "ssd1306"})

	assert.Equal(t, "GPIO21", res.PinAssignments["bme280"]["SDA"])
	assert.Equal(t, "GPIO21", res.PinAssignments["ssd1306"]["SDA"])
	assert.Equal(t, "GPIO22", res.PinAssignments["bme280"]["SCL"])
	assert.Equal(t, "GPIO22", res.PinAssignments["ssd1306"]["SCL"])
	assert.Empty(t, res.Warnings, "sharing the I2C bus is the expected topology")
}

func TestAllocate_SequentialDigital(t *testing.T) {
	catalog := hardware.NewCatalog()

	res := wiring.Allocate(catalog, []string{"dht22", "ds18b20"})

	assert.Equal(t, "GPIO4", res.PinAssignments["dht22"]["DATA"])
	assert.Equal(t, "GPIO13", res.PinAssignments["ds18b20"]["DATA"])
	assert.Empty(t, res.Warnings)
}

func TestAllocate_PowerLabels(t *testing.T) {
	catalog := hardware.NewCatalog()

	res := wiring.Allocate(catalog, []string{"dht22", "relay"})

	// "3.3V or 5V" defaults to the 3.3V rail, "5V" goes to VIN.
	assert.Equal(t, "3.3V", res.PinAssignments["dht22"]["VCC"])
	assert.Equal(t, "5V (VIN)", res.PinAssignments["relay"]["VCC"])
	assert.Equal(t, "GND", res.PinAssignments["dht22"]["GND"])
}

func TestAllocate_SPIDisplay(t *testing.T) {
	catalog := hardware.NewCatalog()

	res := wiring.Allocate(catalog, []string{"st7735"})

	got := res.PinAssignments["st7735"]
	assert.Equal(t, "GPIO18", got["SCK"])
	assert.Equal(t, "GPIO23", got["MOSI"])
	assert.Equal(t, "GPIO5", got["CS"])
	assert.Equal(t, "GPIO2", got["DC"])
	assert.Equal(t, "GPIO15", got["RST"])
	assert.Empty(t, res.Warnings)
}

func TestAllocate_Determinism(t *testing.T) {
	catalog := hardware.NewCatalog()
	ids := []string{"bme280", "dht22", "st7735", "analog_sensor", "relay_2ch"}

	first := wiring.Allocate(catalog, ids)
	second := wiring.Allocate(catalog, ids)

	assert.Equal(t, first.Diagram, second.Diagram)
	assert.Equal(t, first.Warnings, second.Warnings)
	assert.Equal(t, first.PinAssignments, second.PinAssignments)
	assert.Equal(t, first.Components, second.Components)
}

func testPools() hardware.PinPools {
	return hardware.NewCatalog().Pools()
}

func TestAllocate_ConflictOnExclusivePin(t *testing.T) {
	displayRoles := []hardware.PinRole{
		{Name: "VCC", Descriptor: "3.3V"},
		{Name: "GND", Descriptor: "GND"},
		{Name: "DC", Descriptor: "GPIO2"},
	}
	catalog := hardware.NewCatalogWith([]hardware.Component{
		{ID: "disp_a", Name: "Display A", Roles: displayRoles},
		{ID: "disp_b", Name: "Display B", Roles: displayRoles},
	}, testPools())

	res := wiring.Allocate(catalog, []string{"disp_a", "disp_b"})

	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "GPIO2")
	assert.Contains(t, res.Warnings[0], "Display A")
	assert.Contains(t, res.Warnings[0], "Display B")

	// Last writer wins: both still report the pin.
	assert.Equal(t, "GPIO2", res.PinAssignments["disp_a"]["DC"])
	assert.Equal(t, "GPIO2", res.PinAssignments["disp_b"]["DC"])
}

func TestAllocate_ADCPoolExhaustion(t *testing.T) {
	catalog := hardware.NewCatalog()
	ids := make([]string, 7)
	for i := range ids {
		ids[i] = "analog_sensor"
	}

	res := wiring.Allocate(catalog, ids)

	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "ADC pins are limited")
	// The seventh allocation lands on the sentinel pin.
	assert.Contains(t, res.Warnings[0], "GPIO34")
}

func TestAllocate_DigitalPoolExhaustion(t *testing.T) {
	catalog := hardware.NewCatalog()
	ids := make([]string, 9)
	for i := range ids {
		ids[i] = "dht22"
	}

	res := wiring.Allocate(catalog, ids)

	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "Running low on free digital pins")
}

// The overflow label for an exhausted digital pool is derived from the
// cursor alone and skips the used-pin bookkeeping, so it can silently land
// on a pin the ADC allocator already handed out. This documents that the
// collision really happens.
func TestAllocate_DigitalOverflowCollidesWithADC(t *testing.T) {
	catalog := hardware.NewCatalog()
	ids := []string{"analog_sensor"}
	for i := 0; i < 9; i++ {
		ids = append(ids, "dht22")
	}

	res := wiring.Allocate(catalog, ids)

	assert.Equal(t, "GPIO32", res.PinAssignments["analog_sensor"]["AOUT"])
	assert.Equal(t, "GPIO32", res.PinAssignments["dht22"]["DATA"],
		"overflow label collides with the first ADC pin")

	var conflicts int
	for _, w := range res.Warnings {
		if strings.Contains(w, "conflict") {
			conflicts++
		}
	}
	assert.Zero(t, conflicts, "the collision is not reported as a conflict")
}

func TestAllocate_UnrecognizedRolePassthrough(t *testing.T) {
	catalog := hardware.NewCatalogWith([]hardware.Component{
		{ID: "weird", Name: "Weird Part", Roles: []hardware.PinRole{
			{Name: "XYZ", Descriptor: "see datasheet"},
		}},
	}, testPools())

	res := wiring.Allocate(catalog, []string{"weird"})

	assert.Equal(t, "see datasheet", res.PinAssignments["weird"]["XYZ"])
	assert.Empty(t, res.Warnings)
}

func TestAllocate_DuplicatesProcessedIndependently(t *testing.T) {
	catalog := hardware.NewCatalog()

	res := wiring.Allocate(catalog, []string{"relay", "relay"})

	require.Len(t, res.Components, 2)
	assert.Equal(t, "relay", res.Components[0].ID)
	assert.Equal(t, "relay", res.Components[1].ID)
	// The second instance consumed the next pool pin.
	assert.Equal(t, "GPIO13", res.PinAssignments["relay"]["IN"])
	assert.Empty(t, res.Warnings)
}

func TestAllocate_MultiChannelRelay(t *testing.T) {
	catalog := hardware.NewCatalog()

	res := wiring.Allocate(catalog, []string{"relay_2ch"})

	assert.Equal(t, "GPIO4", res.PinAssignments["relay_2ch"]["IN1"])
	assert.Equal(t, "GPIO13", res.PinAssignments["relay_2ch"]["IN2"])
}
