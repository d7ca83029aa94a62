package semantic

import (
	"strconv"
	"strings"
)

// ObjectType is a BACnet object type.
type ObjectType string

const (
	ObjectAnalogInput      ObjectType = "analog-input"
	ObjectAnalogOutput     ObjectType = "analog-output"
	ObjectAnalogValue      ObjectType = "analog-value"
	ObjectBinaryInput      ObjectType = "binary-input"
	ObjectBinaryOutput     ObjectType = "binary-output"
	ObjectBinaryValue      ObjectType = "binary-value"
	ObjectMultiStateInput  ObjectType = "multi-state-input"
	ObjectMultiStateOutput ObjectType = "multi-state-output"
	ObjectMultiStateValue  ObjectType = "multi-state-value"
	ObjectUnknown          ObjectType = ""
)

var objectShortCodes = map[ObjectType]string{
	ObjectAnalogInput:      "AI",
	ObjectAnalogOutput:     "AO",
	ObjectAnalogValue:      "AV",
	ObjectBinaryInput:      "BI",
	ObjectBinaryOutput:     "BO",
	ObjectBinaryValue:      "BV",
	ObjectMultiStateInput:  "MSI",
	ObjectMultiStateOutput: "MSO",
	ObjectMultiStateValue:  "MSV",
}

// ParseObjectType accepts long names ("analog-input", "analogInput") and short codes ("AI").
func ParseObjectType(value string) ObjectType {
	key := strings.ToUpper(strings.NewReplacer("-", "", "_", "", " ", "").Replace(value))
	for objectType, short := range objectShortCodes {
		if key == short {
			return objectType
		}
		long := strings.ToUpper(strings.ReplaceAll(string(objectType), "-", ""))
		if key == long {
			return objectType
		}
	}
	return ObjectUnknown
}

// Short returns the BACnet short code, or "" for unknown types.
func (t ObjectType) Short() string {
	return objectShortCodes[t]
}

// IsOutput reports whether the object is commandable hardware output.
func (t ObjectType) IsOutput() bool {
	return t == ObjectAnalogOutput || t == ObjectBinaryOutput || t == ObjectMultiStateOutput
}

// IsValue reports whether the object is a software value object.
func (t ObjectType) IsValue() bool {
	return t == ObjectAnalogValue || t == ObjectBinaryValue || t == ObjectMultiStateValue
}

// RawPoint is a data point as exported from a BACnet device.
type RawPoint struct {
	OriginalName        string     `json:"original_name"`
	OriginalDescription string     `json:"original_description,omitempty"`
	ObjectType          ObjectType `json:"object_type"`
	ObjectInstance      *int       `json:"object_instance,omitempty"`
	Units               string     `json:"units,omitempty"`
}

// CurRef renders the object reference, e.g. "AI:3".
func (p RawPoint) CurRef() string {
	short := p.ObjectType.Short()
	if p.ObjectInstance == nil {
		return short
	}
	instance := strconv.Itoa(*p.ObjectInstance)
	if short == "" {
		return instance
	}
	return short + ":" + instance
}

// Instance is a helper for building RawPoint literals.
func Instance(value int) *int {
	return &value
}
