package types

import (
	"fmt"

	"github.com/velomarket/velomarket-backend/pkg/enums"
)

// ProductSpecs carries the kind-specific attributes of a product as a typed
// JSON extension. Which fields may be set depends on the product kind; the
// combination is checked once at write time, not per request.
type ProductSpecs struct {
	Material  *enums.Material  `json:"material,omitempty"`
	WheelSize *enums.WheelSize `json:"wheel_size,omitempty"`
	TravelMM  *int             `json:"travel_mm,omitempty"`
	Speeds    *int             `json:"speeds,omitempty"`
	LensColor *string          `json:"lens_color,omitempty"`
}

type specFieldSet struct {
	material  bool
	wheelSize bool
	travel    bool
	speeds    bool
	lensColor bool
}

var specFieldsByKind = map[enums.ProductKind]specFieldSet{
	enums.ProductKindBikes:           {material: true, wheelSize: true},
	enums.ProductKindWheels:          {material: true, wheelSize: true},
	enums.ProductKindForks:           {material: true, wheelSize: true, travel: true},
	enums.ProductKindCranksets:       {material: true, speeds: true},
	enums.ProductKindAccessories:     {material: true},
	enums.ProductKindGlassesAndMasks: {lensColor: true},
}

// Validate checks the spec values and their fit for the given kind.
func (s *ProductSpecs) Validate(kind enums.ProductKind) error {
	if s == nil {
		return nil
	}

	allowed, ok := specFieldsByKind[kind]
	if !ok {
		return fmt.Errorf("invalid product kind %q", kind)
	}

	if s.Material != nil {
		if !allowed.material {
			return fmt.Errorf("material not applicable to kind %q", kind)
		}
		if !s.Material.IsValid() {
			return fmt.Errorf("invalid material %q", *s.Material)
		}
	}
	if s.WheelSize != nil {
		if !allowed.wheelSize {
			return fmt.Errorf("wheel size not applicable to kind %q", kind)
		}
		if !s.WheelSize.IsValid() {
			return fmt.Errorf("invalid wheel size %q", *s.WheelSize)
		}
	}
	if s.TravelMM != nil {
		if !allowed.travel {
			return fmt.Errorf("travel not applicable to kind %q", kind)
		}
		if *s.TravelMM <= 0 {
			return fmt.Errorf("travel must be positive")
		}
	}
	if s.Speeds != nil {
		if !allowed.speeds {
			return fmt.Errorf("speeds not applicable to kind %q", kind)
		}
		if *s.Speeds <= 0 {
			return fmt.Errorf("speeds must be positive")
		}
	}
	if s.LensColor != nil && !allowed.lensColor {
		return fmt.Errorf("lens color not applicable to kind %q", kind)
	}

	return nil
}
