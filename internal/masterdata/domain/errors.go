package masterdata

import "errors"

var (
	// ErrEquipmentNotFound is returned when an equipment id does not resolve.
	ErrEquipmentNotFound = errors.New("masterdata: equipment not found")
	// ErrPointNotFound is returned when a point id does not resolve.
	ErrPointNotFound = errors.New("masterdata: point not found")
)
