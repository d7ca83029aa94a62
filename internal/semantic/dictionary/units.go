package dictionary

import "strings"

// Unit classes understood by the unit tier.
const (
	UnitClassTemperature = "temperature"
	UnitClassAirflow     = "airflow"
	UnitClassPressure    = "pressure"
	UnitClassHumidity    = "humidity"
	UnitClassPower       = "power"
	UnitClassEnergy      = "energy"
	UnitClassCurrent     = "current"
	UnitClassVoltage     = "voltage"
	UnitClassFrequency   = "frequency"
	UnitClassCO2         = "co2"
	UnitClassPercent     = "percent"
)

var unitAliases = map[string]string{
	"f":          UnitClassTemperature,
	"c":          UnitClassTemperature,
	"k":          UnitClassTemperature,
	"fahrenheit": UnitClassTemperature,
	"celsius":    UnitClassTemperature,
	"kelvin":     UnitClassTemperature,

	"cfm":  UnitClassAirflow,
	"l/s":  UnitClassAirflow,
	"lps":  UnitClassAirflow,
	"m3/h": UnitClassAirflow,
	"m³/h": UnitClassAirflow,
	"cmh":  UnitClassAirflow,
	"fpm":  UnitClassAirflow,
	"gpm":  UnitClassAirflow,

	"psi":   UnitClassPressure,
	"inh2o": UnitClassPressure,
	"inwc":  UnitClassPressure,
	"in.wc": UnitClassPressure,
	"pa":    UnitClassPressure,
	"kpa":   UnitClassPressure,
	"bar":   UnitClassPressure,

	"%rh": UnitClassHumidity,
	"rh":  UnitClassHumidity,

	"w":  UnitClassPower,
	"kw": UnitClassPower,
	"mw": UnitClassPower,

	"wh":  UnitClassEnergy,
	"kwh": UnitClassEnergy,
	"mwh": UnitClassEnergy,

	"a":    UnitClassCurrent,
	"amps": UnitClassCurrent,
	"ma":   UnitClassCurrent,

	"v":     UnitClassVoltage,
	"vac":   UnitClassVoltage,
	"vdc":   UnitClassVoltage,
	"volts": UnitClassVoltage,

	"hz": UnitClassFrequency,

	"ppm": UnitClassCO2,

	"%":       UnitClassPercent,
	"percent": UnitClassPercent,
}

// UnitClass maps an engineering-units string to a unit class, or "" when the
// units are not recognized.
func UnitClass(units string) string {
	key := strings.ToLower(strings.TrimSpace(units))
	key = strings.NewReplacer("°", "", "degrees", "", "deg", "", " ", "", "_", "").Replace(key)
	if key == "" {
		return ""
	}
	return unitAliases[key]
}
