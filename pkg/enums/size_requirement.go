package enums

import "fmt"

// SizeRequirement controls whether a size must accompany each order line.
type SizeRequirement string

const (
	SizeRequirementMandatory SizeRequirement = "mandatory"
	SizeRequirementOptional  SizeRequirement = "optional"
)

var validSizeRequirements = []SizeRequirement{
	SizeRequirementMandatory,
	SizeRequirementOptional,
}

// String implements fmt.Stringer.
func (s SizeRequirement) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SizeRequirement.
func (s SizeRequirement) IsValid() bool {
	for _, candidate := range validSizeRequirements {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSizeRequirement converts raw input into a SizeRequirement.
func ParseSizeRequirement(value string) (SizeRequirement, error) {
	for _, candidate := range validSizeRequirements {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid size requirement %q", value)
}
