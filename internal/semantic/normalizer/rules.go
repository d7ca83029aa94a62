package normalizer

import semantic "bacnet-commissioning/internal/semantic/domain"

// Rule classifies a point when every keyword group has at least one word
// present in the expanded name.
type Rule struct {
	Function semantic.PointFunction
	Category semantic.Category
	Requires [][]string
}

func (r Rule) matches(words map[string]struct{}) bool {
	if len(r.Requires) == 0 {
		return false
	}
	for _, group := range r.Requires {
		found := false
		for _, word := range group {
			if _, ok := words[word]; ok {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

var (
	kwTemperature = []string{"temperature", "temp"}
	kwSetpoint    = []string{"setpoint"}
	kwHumidity    = []string{"humidity"}
	kwPressure    = []string{"pressure"}
	kwFlow        = []string{"flow", "airflow"}
	kwCommand     = []string{"command", "output"}
	kwPosition    = []string{"position", "feedback"}
	kwRunStatus   = []string{"status", "feedback", "run", "proof"}
	kwStart       = []string{"command", "start", "enable"}
)

// DefaultRules returns the built-in rule table. Order matters: the first
// matching rule wins, so compound rules precede single-keyword ones.
func DefaultRules() []Rule {
	return []Rule{
		{Function: semantic.FunctionTemperatureSetpoint, Category: semantic.CategorySetpoint, Requires: [][]string{kwTemperature, kwSetpoint}},
		{Function: semantic.FunctionHumiditySetpoint, Category: semantic.CategorySetpoint, Requires: [][]string{kwHumidity, kwSetpoint}},
		{Function: semantic.FunctionPressureSetpoint, Category: semantic.CategorySetpoint, Requires: [][]string{kwPressure, kwSetpoint}},
		{Function: semantic.FunctionAirflowSetpoint, Category: semantic.CategorySetpoint, Requires: [][]string{kwFlow, kwSetpoint}},
		{Function: semantic.FunctionDamperCommand, Category: semantic.CategoryCommand, Requires: [][]string{{"damper"}, kwCommand}},
		{Function: semantic.FunctionDamperPosition, Category: semantic.CategorySensor, Requires: [][]string{{"damper"}, kwPosition}},
		{Function: semantic.FunctionValveCommand, Category: semantic.CategoryCommand, Requires: [][]string{{"valve"}, kwCommand}},
		{Function: semantic.FunctionValvePosition, Category: semantic.CategorySensor, Requires: [][]string{{"valve"}, kwPosition}},
		{Function: semantic.FunctionFanSpeed, Category: semantic.CategorySensor, Requires: [][]string{{"fan"}, {"speed"}}},
		{Function: semantic.FunctionFanStatus, Category: semantic.CategoryStatus, Requires: [][]string{{"fan"}, kwRunStatus}},
		{Function: semantic.FunctionFanCommand, Category: semantic.CategoryCommand, Requires: [][]string{{"fan"}, kwStart}},
		{Function: semantic.FunctionPumpStatus, Category: semantic.CategoryStatus, Requires: [][]string{{"pump"}, kwRunStatus}},
		{Function: semantic.FunctionPumpCommand, Category: semantic.CategoryCommand, Requires: [][]string{{"pump"}, kwStart}},
		{Function: semantic.FunctionOccupancyStatus, Category: semantic.CategoryStatus, Requires: [][]string{{"occupancy", "occupied", "unoccupied"}}},
		{Function: semantic.FunctionAlarmStatus, Category: semantic.CategoryStatus, Requires: [][]string{{"alarm", "fault"}}},
		{Function: semantic.FunctionCO2Sensor, Category: semantic.CategorySensor, Requires: [][]string{{"co2"}}},
		{Function: semantic.FunctionTemperatureSensor, Category: semantic.CategorySensor, Requires: [][]string{kwTemperature}},
		{Function: semantic.FunctionHumiditySensor, Category: semantic.CategorySensor, Requires: [][]string{kwHumidity}},
		{Function: semantic.FunctionPressureSensor, Category: semantic.CategorySensor, Requires: [][]string{kwPressure}},
		{Function: semantic.FunctionAirflowSensor, Category: semantic.CategorySensor, Requires: [][]string{kwFlow}},
		{Function: semantic.FunctionEnergySensor, Category: semantic.CategorySensor, Requires: [][]string{{"energy"}}},
		{Function: semantic.FunctionPowerSensor, Category: semantic.CategorySensor, Requires: [][]string{{"power"}}},
		{Function: semantic.FunctionGenericSetpoint, Category: semantic.CategorySetpoint, Requires: [][]string{kwSetpoint}},
		{Function: semantic.FunctionGenericStatus, Category: semantic.CategoryStatus, Requires: [][]string{{"status"}}},
	}
}

func classify(words map[string]struct{}, rules []Rule) (semantic.PointFunction, semantic.Category, bool) {
	for _, rule := range rules {
		if rule.matches(words) {
			return rule.Function, rule.Category, true
		}
	}
	return semantic.FunctionUnknown, semantic.CategoryUnknown, false
}

func categoryForObject(objectType semantic.ObjectType) semantic.Category {
	switch objectType {
	case semantic.ObjectAnalogInput:
		return semantic.CategorySensor
	case semantic.ObjectAnalogOutput, semantic.ObjectBinaryOutput, semantic.ObjectMultiStateOutput:
		return semantic.CategoryCommand
	case semantic.ObjectAnalogValue:
		return semantic.CategorySetpoint
	case semantic.ObjectBinaryInput, semantic.ObjectBinaryValue, semantic.ObjectMultiStateInput, semantic.ObjectMultiStateValue:
		return semantic.CategoryStatus
	default:
		return semantic.CategoryUnknown
	}
}
