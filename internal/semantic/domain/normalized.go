package semantic

// PointFunction classifies what a point measures or controls.
type PointFunction string

const (
	FunctionTemperatureSensor   PointFunction = "temperature-sensor"
	FunctionTemperatureSetpoint PointFunction = "temperature-setpoint"
	FunctionHumiditySensor      PointFunction = "humidity-sensor"
	FunctionHumiditySetpoint    PointFunction = "humidity-setpoint"
	FunctionPressureSensor      PointFunction = "pressure-sensor"
	FunctionPressureSetpoint    PointFunction = "pressure-setpoint"
	FunctionAirflowSensor       PointFunction = "airflow-sensor"
	FunctionAirflowSetpoint     PointFunction = "airflow-setpoint"
	FunctionCO2Sensor           PointFunction = "co2-sensor"
	FunctionDamperPosition      PointFunction = "damper-position"
	FunctionDamperCommand       PointFunction = "damper-command"
	FunctionValvePosition       PointFunction = "valve-position"
	FunctionValveCommand        PointFunction = "valve-command"
	FunctionFanStatus           PointFunction = "fan-status"
	FunctionFanCommand          PointFunction = "fan-command"
	FunctionFanSpeed            PointFunction = "fan-speed"
	FunctionPumpStatus          PointFunction = "pump-status"
	FunctionPumpCommand         PointFunction = "pump-command"
	FunctionPowerSensor         PointFunction = "power-sensor"
	FunctionEnergySensor        PointFunction = "energy-sensor"
	FunctionOccupancyStatus     PointFunction = "occupancy-status"
	FunctionAlarmStatus         PointFunction = "alarm-status"
	FunctionGenericSetpoint     PointFunction = "setpoint"
	FunctionGenericStatus       PointFunction = "status"
	FunctionUnknown             PointFunction = "unknown"
)

// Category is the coarse role of a point.
type Category string

const (
	CategorySensor   Category = "sensor"
	CategoryCommand  Category = "command"
	CategorySetpoint Category = "setpoint"
	CategoryStatus   Category = "status"
	CategoryUnknown  Category = "unknown"
)

// ConfidenceLevel buckets a confidence score.
type ConfidenceLevel string

const (
	ConfidenceHigh    ConfidenceLevel = "high"
	ConfidenceMedium  ConfidenceLevel = "medium"
	ConfidenceLow     ConfidenceLevel = "low"
	ConfidenceUnknown ConfidenceLevel = "unknown"
)

// ManualReviewThreshold is the confidence below which a point needs a human.
const ManualReviewThreshold = 0.5

// LevelFor maps a confidence score to its bucket.
func LevelFor(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= 0.8:
		return ConfidenceHigh
	case confidence >= 0.5:
		return ConfidenceMedium
	case confidence >= 0.2:
		return ConfidenceLow
	default:
		return ConfidenceUnknown
	}
}

// NormalizedPoint is the human-readable, tagged form of one RawPoint.
type NormalizedPoint struct {
	OriginalName         string          `json:"original_name"`
	NormalizedName       string          `json:"normalized_name"`
	ExpandedDescription  string          `json:"expanded_description"`
	PointFunction        PointFunction   `json:"point_function"`
	Category             Category        `json:"category"`
	HaystackTags         []string        `json:"haystack_tags"`
	Confidence           float64         `json:"confidence"`
	ConfidenceLevel      ConfidenceLevel `json:"confidence_level"`
	NormalizationMethod  string          `json:"normalization_method"`
	RequiresManualReview bool            `json:"requires_manual_review"`
}

// HasTag reports whether the marker tag is present.
func (p NormalizedPoint) HasTag(tag string) bool {
	for _, existing := range p.HaystackTags {
		if existing == tag {
			return true
		}
	}
	return false
}
