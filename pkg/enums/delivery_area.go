package enums

import "fmt"

// DeliveryArea buckets shipping destinations for flat-rate charges.
type DeliveryArea string

const (
	DeliveryAreaDhaka         DeliveryArea = "dhaka"
	DeliveryAreaOutsideDhaka  DeliveryArea = "outside_dhaka"
	DeliveryAreaInternational DeliveryArea = "international"
)

var validDeliveryAreas = []DeliveryArea{
	DeliveryAreaDhaka,
	DeliveryAreaOutsideDhaka,
	DeliveryAreaInternational,
}

// String implements fmt.Stringer.
func (d DeliveryArea) String() string {
	return string(d)
}

// IsDomestic reports whether the destination requires district/thana fields.
func (d DeliveryArea) IsDomestic() bool {
	return d == DeliveryAreaDhaka || d == DeliveryAreaOutsideDhaka
}

// IsValid reports whether the value is a known DeliveryArea.
func (d DeliveryArea) IsValid() bool {
	for _, candidate := range validDeliveryAreas {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryArea converts raw input into a DeliveryArea.
func ParseDeliveryArea(value string) (DeliveryArea, error) {
	for _, candidate := range validDeliveryAreas {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery area %q", value)
}
