package matching

import "strings"

// Facet selects which captured field of a point is compared during template
// application.
type Facet string

const (
	FacetObjectReference Facet = "object-reference"
	FacetDisplayName     Facet = "display-name"
	FacetDescription     Facet = "description"
)

// IsValid reports whether the facet is known.
func (f Facet) IsValid() bool {
	switch f {
	case FacetObjectReference, FacetDisplayName, FacetDescription:
		return true
	default:
		return false
	}
}

// ParseFacet accepts the facet names plus the short aliases curRef, dis and desc.
func ParseFacet(value string) (Facet, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "object-reference", "curref", "cur-ref":
		return FacetObjectReference, nil
	case "display-name", "dis", "name":
		return FacetDisplayName, nil
	case "description", "desc":
		return FacetDescription, nil
	default:
		return "", ErrInvalidFacet
	}
}
