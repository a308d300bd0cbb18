package enums

import "fmt"

// ProductKind is the closed tag identifying which part of the catalog a
// product belongs to. The set is fixed; unknown tags are rejected at parse
// time rather than looked up per request.
type ProductKind string

const (
	ProductKindBikes           ProductKind = "bikes"
	ProductKindWheels          ProductKind = "wheels"
	ProductKindForks           ProductKind = "forks"
	ProductKindCranksets       ProductKind = "cranksets"
	ProductKindAccessories     ProductKind = "accessories"
	ProductKindGlassesAndMasks ProductKind = "glasses_and_masks"
)

var validProductKinds = []ProductKind{
	ProductKindBikes,
	ProductKindWheels,
	ProductKindForks,
	ProductKindCranksets,
	ProductKindAccessories,
	ProductKindGlassesAndMasks,
}

// ProductKinds returns every known kind in declaration order.
func ProductKinds() []ProductKind {
	out := make([]ProductKind, len(validProductKinds))
	copy(out, validProductKinds)
	return out
}

// String implements fmt.Stringer.
func (p ProductKind) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductKind.
func (p ProductKind) IsValid() bool {
	for _, candidate := range validProductKinds {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductKind converts raw input into a ProductKind.
func ParseProductKind(value string) (ProductKind, error) {
	for _, candidate := range validProductKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product kind %q", value)
}
