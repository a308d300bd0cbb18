package enums

import "fmt"

// WheelSize enumerates supported wheel diameters in inches.
type WheelSize string

const (
	WheelSize24  WheelSize = "24"
	WheelSize26  WheelSize = "26"
	WheelSize275 WheelSize = "27.5"
	WheelSize29  WheelSize = "29"
)

var validWheelSizes = []WheelSize{
	WheelSize24,
	WheelSize26,
	WheelSize275,
	WheelSize29,
}

// String implements fmt.Stringer.
func (w WheelSize) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WheelSize.
func (w WheelSize) IsValid() bool {
	for _, candidate := range validWheelSizes {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWheelSize converts raw input into a WheelSize.
func ParseWheelSize(value string) (WheelSize, error) {
	for _, candidate := range validWheelSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wheel size %q", value)
}
