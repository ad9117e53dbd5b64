package hardware

// PinRole is a named electrical function a component exposes, in the order
// the part is normally wired. The descriptor is the human wiring hint from
// the library ("GPIO (with 10K pull-up)", "GPIO21", "3.3V or 5V", ...).
type PinRole struct {
	Name       string `json:"name"`
	Descriptor string `json:"descriptor"`
}

// Component is one catalog entry. Immutable, shared across all allocations.
type Component struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Interface string    `json:"interface"`
	Library   string    `json:"library"`
	Roles     []PinRole `json:"wiring"`
	Notes     string    `json:"notes,omitempty"`
}

// I2CPins is the fixed shared two-wire bus of the board.
type I2CPins struct {
	SDA string `json:"sda"`
	SCL string `json:"scl"`
}

// SPIPins is the fixed shared serial-peripheral bus of the board.
type SPIPins struct {
	MOSI string `json:"mosi"`
	MISO string `json:"miso"`
	SCK  string `json:"sck"`
	CS   string `json:"cs"`
}

// PinPools is the categorized physical pin inventory of the target board.
// Pools are static data; which entries are consumed is tracked per allocation,
// never here.
type PinPools struct {
	I2C         I2CPins  `json:"i2c"`
	SPI         SPIPins  `json:"spi"`
	ADC         []string `json:"adc"`
	Digital     []string `json:"digital"`
	DC          string   `json:"dc"`
	RST         string   `json:"rst"`
	ADCFallback string   `json:"adc_fallback"`
}

// Catalog is the immutable component library plus the board's pin pools.
// Loaded once per process and passed explicitly to whoever needs it.
type Catalog struct {
	components []Component
	byID       map[string]Component
	pools      PinPools
}

// Resolve looks a component up by ID.
func (c *Catalog) Resolve(id string) (Component, bool) {
	comp, ok := c.byID[id]
	return comp, ok
}

// List returns all components in catalog order.
func (c *Catalog) List() []Component {
	out := make([]Component, len(c.components))
	copy(out, c.components)
	return out
}

func (c *Catalog) Pools() PinPools { return c.pools }

// Library groups components by category for the hardware endpoint, matching
// the shape clients already consume.
type Library struct {
	Sensors   []Component `json:"sensors"`
	Displays  []Component `json:"displays"`
	Actuators []Component `json:"actuators"`
	Analog    []Component `json:"analog"`
	Input     []Component `json:"input"`
}

func (c *Catalog) Library() Library {
	var lib Library
	for _, comp := range c.components {
		switch componentCategory(comp.ID) {
		case "displays":
			lib.Displays = append(lib.Displays, comp)
		case "actuators":
			lib.Actuators = append(lib.Actuators, comp)
		case "analog":
			lib.Analog = append(lib.Analog, comp)
		case "input":
			lib.Input = append(lib.Input, comp)
		default:
			lib.Sensors = append(lib.Sensors, comp)
		}
	}
	return lib
}

func componentCategory(id string) string {
	switch id {
	case "ssd1306", "st7735":
		return "displays"
	case "relay", "relay_2ch", "sg90", "ws2812", "buzzer":
		return "actuators"
	case "analog_sensor", "soil_moisture", "ldr":
		return "analog"
	case "push_button":
		return "input"
	default:
		return "sensors"
	}
}

// NewCatalogWith assembles a catalog from explicit components and pools.
// Production code uses NewCatalog; tests build narrow catalogs with this.
func NewCatalogWith(components []Component, pools PinPools) *Catalog {
	byID := make(map[string]Component, len(components))
	for _, comp := range components {
		byID[comp.ID] = comp
	}
	return &Catalog{components: components, byID: byID, pools: pools}
}

// NewCatalog builds the ESP32 DevKit V1 catalog.
func NewCatalog() *Catalog {
	components := []Component{
		{
			ID: "dht22", Name: "DHT22", Type: "Temperature & Humidity",
			Interface: "Digital (OneWire-like)", Library: "DHT sensor library",
			Roles: []PinRole{
				{Name: "VCC", Descriptor: "3.3V or 5V"},
				{Name: "GND", Descriptor: "GND"},
				{Name: "DATA", Descriptor: "GPIO (with 10K pull-up)"},
			},
			Notes: "Use 10K pull-up resistor between DATA and VCC",
		},
		{
			ID: "dht11", Name: "DHT11", Type: "Temperature & Humidity",
			Interface: "Digital", Library: "DHT sensor library",
			Roles: []PinRole{
				{Name: "VCC", Descriptor: "3.3V or 5V"},
				{Name: "GND", Descriptor: "GND"},
				{Name: "DATA", Descriptor: "GPIO (with 10K pull-up)"},
			},
			Notes: "Lower precision than DHT22, but cheaper",
		},
		{
			ID: "bme280", Name: "BME280", Type: "Temperature, Humidity, Pressure",
			Interface: "I2C / SPI", Library: "Adafruit BME280 Library",
			Roles: []PinRole{
				{Name: "VCC", Descriptor: "3.3V"},
				{Name: "GND", Descriptor: "GND"},
				{Name: "SDA", Descriptor: "GPIO21"},
				{Name: "SCL", Descriptor: "GPIO22"},
			},
			Notes: "Default I2C address: 0x76 or 0x77",
		},
		{
			ID: "ds18b20", Name: "DS18B20", Type: "Temperature (Waterproof)",
			Interface: "OneWire", Library: "OneWire + DallasTemperature",
			Roles: []PinRole{
				{Name: "VCC", Descriptor: "3.3V or 5V"},
				{Name: "GND", Descriptor: "GND"},
				{Name: "DATA", Descriptor: "GPIO (with 4.7K pull-up)"},
			},
			Notes: "Can chain multiple sensors on same bus",
		},
		{
			ID: "hcsr04", Name: "HC-SR04", Type: "Ultrasonic Distance",
			Interface: "Digital", Library: "NewPing",
			Roles: []PinRole{
				{Name: "VCC", Descriptor: "5V"},
				{Name: "GND", Descriptor: "GND"},
				{Name: "TRIG", Descriptor: "GPIO"},
				{Name: "ECHO", Descriptor: "GPIO (use voltage divider to 3.3V)"},
			},
			Notes: "ECHO is 5V; divide down before the ESP32 input",
		},
		{
			ID: "ssd1306", Name: "SSD1306 OLED", Type: "OLED Display 0.96\"",
			Interface: "I2C", Library: "Adafruit SSD1306 + GFX",
			Roles: []PinRole{
				{Name: "VCC", Descriptor: "3.3V"},
				{Name: "GND", Descriptor: "GND"},
				{Name: "SDA", Descriptor: "GPIO21"},
				{Name: "SCL", Descriptor: "GPIO22"},
			},
			Notes: "128x64 pixels, I2C address: 0x3C or 0x3D",
		},
		{
			ID: "st7735", Name: "ST7735 TFT", Type: "TFT Display 1.8\"",
			Interface: "SPI", Library: "Adafruit ST7735 + GFX",
			Roles: []PinRole{
				{Name: "VCC", Descriptor: "3.3V"},
				{Name: "GND", Descriptor: "GND"},
				{Name: "SCK", Descriptor: "GPIO18"},
				{Name: "MOSI", Descriptor: "GPIO23"},
				{Name: "CS", Descriptor: "GPIO5"},
				{Name: "DC", Descriptor: "GPIO2"},
				{Name: "RST", Descriptor: "GPIO15"},
			},
			Notes: "160x128 pixels, 3.3V logic only",
		},
		{
			ID: "relay", Name: "Relay Module", Type: "Switching",
			Interface: "Digital GPIO", Library: "None (digitalWrite)",
			Roles: []PinRole{
				{Name: "VCC", Descriptor: "5V"},
				{Name: "GND", Descriptor: "GND"},
				{Name: "IN", Descriptor: "GPIO"},
			},
			Notes: "Use optocoupled relay for safety. Active LOW common.",
		},
		{
			ID: "relay_2ch", Name: "2-Channel Relay Module", Type: "Switching",
			Interface: "Digital GPIO", Library: "None (digitalWrite)",
			Roles: []PinRole{
				{Name: "VCC", Descriptor: "5V"},
				{Name: "GND", Descriptor: "GND"},
				{Name: "IN1", Descriptor: "GPIO"},
				{Name: "IN2", Descriptor: "GPIO"},
			},
			Notes: "Active LOW inputs on most boards",
		},
		{
			ID: "sg90", Name: "SG90 Servo", Type: "Servo Motor",
			Interface: "PWM", Library: "ESP32Servo",
			Roles: []PinRole{
				{Name: "VCC", Descriptor: "5V"},
				{Name: "GND", Descriptor: "GND"},
				{Name: "SIGNAL", Descriptor: "GPIO (PWM capable)"},
			},
			Notes: "Power from external 5V supply under load",
		},
		{
			ID: "ws2812", Name: "WS2812 LED Strip", Type: "Addressable LEDs",
			Interface: "Digital (single wire)", Library: "FastLED",
			Roles: []PinRole{
				{Name: "VCC", Descriptor: "5V"},
				{Name: "GND", Descriptor: "GND"},
				{Name: "DATA", Descriptor: "GPIO (330R series resistor)"},
			},
			Notes: "Budget ~60mA per LED at full white",
		},
		{
			ID: "buzzer", Name: "Passive Buzzer", Type: "Sound",
			Interface: "PWM", Library: "None (ledcWrite)",
			Roles: []PinRole{
				{Name: "VCC", Descriptor: "3.3V"},
				{Name: "GND", Descriptor: "GND"},
				{Name: "IO", Descriptor: "GPIO (PWM capable)"},
			},
			Notes: "Passive buzzer needs a PWM tone, active does not",
		},
		{
			ID: "analog_sensor", Name: "Generic Analog Sensor", Type: "Analog Input",
			Interface: "ADC", Library: "None (analogRead)",
			Roles: []PinRole{
				{Name: "VCC", Descriptor: "3.3V"},
				{Name: "GND", Descriptor: "GND"},
				{Name: "AOUT", Descriptor: "GPIO32-39 (ADC pins)"},
			},
			Notes: "ESP32 ADC is 12-bit (0-4095). Use ADC1 pins for WiFi compatibility.",
		},
		{
			ID: "soil_moisture", Name: "Soil Moisture Sensor", Type: "Analog Input",
			Interface: "ADC", Library: "None (analogRead)",
			Roles: []PinRole{
				{Name: "VCC", Descriptor: "3.3V"},
				{Name: "GND", Descriptor: "GND"},
				{Name: "AOUT", Descriptor: "ADC pin"},
			},
			Notes: "Capacitive probes outlast resistive ones",
		},
		{
			ID: "ldr", Name: "LDR Light Sensor", Type: "Analog Input",
			Interface: "ADC", Library: "None (analogRead)",
			Roles: []PinRole{
				{Name: "VCC", Descriptor: "3.3V"},
				{Name: "GND", Descriptor: "GND"},
				{Name: "AO", Descriptor: "ADC pin (with 10K pull-down divider)"},
			},
			Notes: "Wire as a voltage divider with a 10K resistor",
		},
		{
			ID: "push_button", Name: "Push Button", Type: "Digital Input",
			Interface: "Digital GPIO", Library: "None (digitalRead)",
			Roles: []PinRole{
				{Name: "VCC", Descriptor: "3.3V"},
				{Name: "GND", Descriptor: "GND"},
				{Name: "OUT", Descriptor: "GPIO (with pull-down)"},
			},
			Notes: "Or use INPUT_PULLUP and wire to GND",
		},
	}

	return NewCatalogWith(components, PinPools{
		I2C: I2CPins{SDA: "GPIO21", SCL: "GPIO22"},
		SPI: SPIPins{MOSI: "GPIO23", MISO: "GPIO19", SCK: "GPIO18", CS: "GPIO5"},
		// ADC1 channels; ADC2 is unusable while WiFi is active.
		ADC:         []string{"GPIO32", "GPIO33", "GPIO34", "GPIO35", "GPIO36", "GPIO39"},
		Digital:     []string{"GPIO4", "GPIO13", "GPIO14", "GPIO16", "GPIO17", "GPIO25", "GPIO26", "GPIO27"},
		DC:          "GPIO2",
		RST:         "GPIO15",
		ADCFallback: "GPIO34",
	})
}
