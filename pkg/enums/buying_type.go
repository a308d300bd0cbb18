package enums

import "fmt"

// BuyingType describes how a buyer wants to receive an order.
type BuyingType string

const (
	BuyingTypePickup   BuyingType = "pickup"
	BuyingTypeDelivery BuyingType = "delivery"
)

var validBuyingTypes = []BuyingType{
	BuyingTypePickup,
	BuyingTypeDelivery,
}

// String implements fmt.Stringer.
func (b BuyingType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BuyingType.
func (b BuyingType) IsValid() bool {
	for _, candidate := range validBuyingTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBuyingType converts raw input into a BuyingType.
func ParseBuyingType(value string) (BuyingType, error) {
	for _, candidate := range validBuyingTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid buying type %q", value)
}
