package matching

import "errors"

var (
	// ErrTemplateNotFound is returned when a template id does not resolve.
	ErrTemplateNotFound = errors.New("matching: template not found")
	// ErrApplicationNotFound is returned when an application id does not resolve.
	ErrApplicationNotFound = errors.New("matching: template application not found")
	// ErrMappingNotFound is returned when no equipment mapping exists for a source.
	ErrMappingNotFound = errors.New("matching: equipment mapping not found")
	// ErrMappingNotVerified is returned when a template is requested from an
	// unverified equipment mapping.
	ErrMappingNotVerified = errors.New("matching: equipment mapping not verified")
	// ErrInvalidFacet is returned for an unknown matching facet.
	ErrInvalidFacet = errors.New("matching: invalid matching facet")
	// ErrInvalidThreshold is returned for a confidence threshold outside [0,1].
	ErrInvalidThreshold = errors.New("matching: confidence threshold out of range")
	// ErrInvalidMapping is returned for a malformed equipment mapping.
	ErrInvalidMapping = errors.New("matching: invalid equipment mapping")
	// ErrEmptyTemplate is returned when no source point carries a nav name.
	ErrEmptyTemplate = errors.New("matching: template has no point mappings")
)
