package enums

import "fmt"

// Material enumerates frame/component materials carried in product specs.
type Material string

const (
	MaterialCarbon    Material = "carbon"
	MaterialAluminium Material = "aluminium"
	MaterialTitan     Material = "titan"
	MaterialSteel     Material = "steel"
)

var validMaterials = []Material{
	MaterialCarbon,
	MaterialAluminium,
	MaterialTitan,
	MaterialSteel,
}

// String implements fmt.Stringer.
func (m Material) String() string {
	return string(m)
}

// IsValid reports whether the value is a known Material.
func (m Material) IsValid() bool {
	for _, candidate := range validMaterials {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMaterial converts raw input into a Material.
func ParseMaterial(value string) (Material, error) {
	for _, candidate := range validMaterials {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid material %q", value)
}
