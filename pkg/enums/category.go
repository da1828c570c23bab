package enums

import "fmt"

// Category is the kind of civic issue a complaint reports.
type Category string

const (
	CategoryRoad              Category = "Road"
	CategoryDrainage          Category = "Drainage"
	CategoryStreetlight       Category = "Streetlight"
	CategoryWaterSupply       Category = "Water Supply"
	CategoryGarbageCollection Category = "Garbage Collection"
	CategoryPublicTransport   Category = "Public Transport"
	CategoryParksRecreation   Category = "Parks & Recreation"
	CategoryOther             Category = "Other"
)

var validCategories = []Category{
	CategoryRoad,
	CategoryDrainage,
	CategoryStreetlight,
	CategoryWaterSupply,
	CategoryGarbageCollection,
	CategoryPublicTransport,
	CategoryParksRecreation,
	CategoryOther,
}

// Categories returns the canonical category set in display order.
func Categories() []Category {
	out := make([]Category, len(validCategories))
	copy(out, validCategories)
	return out
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether the value is a known complaint category.
func (c Category) IsValid() bool {
	for _, candidate := range validCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCategory converts the raw string to a Category.
func ParseCategory(value string) (Category, error) {
	for _, candidate := range validCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid complaint category %q", value)
}
