package enums

import "fmt"

// CouponUseType controls whether a coupon may be redeemed more than once.
type CouponUseType string

const (
	CouponUseTypeOneTime  CouponUseType = "one_time"
	CouponUseTypeMultiple CouponUseType = "multiple"
)

var validCouponUseTypes = []CouponUseType{
	CouponUseTypeOneTime,
	CouponUseTypeMultiple,
}

// String implements fmt.Stringer.
func (c CouponUseType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CouponUseType.
func (c CouponUseType) IsValid() bool {
	for _, candidate := range validCouponUseTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCouponUseType converts raw input into a CouponUseType.
func ParseCouponUseType(value string) (CouponUseType, error) {
	for _, candidate := range validCouponUseTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coupon use type %q", value)
}
