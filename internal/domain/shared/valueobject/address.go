package valueobject

import (
	"errors"
	"math"
	"strings"
)

// Address is a postal address. Country is an ISO 3166-1 alpha-2 code.
// Latitude/Longitude are optional and only used by distance-based shipping.
type Address struct {
	FullName   string   `json:"full_name" gorm:"type:varchar(200)"`
	Phone      string   `json:"phone,omitempty" gorm:"type:varchar(50)"`
	Line1      string   `json:"line1" gorm:"type:varchar(255)"`
	Line2      string   `json:"line2,omitempty" gorm:"type:varchar(255)"`
	City       string   `json:"city" gorm:"type:varchar(100)"`
	State      string   `json:"state,omitempty" gorm:"type:varchar(100)"`
	PostalCode string   `json:"postal_code,omitempty" gorm:"type:varchar(20)"`
	Country    string   `json:"country" gorm:"type:varchar(2)"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// Normalize trims whitespace and upper-cases country and postal code
func (a Address) Normalize() Address {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Line1 = strings.TrimSpace(a.Line1)
	a.Line2 = strings.TrimSpace(a.Line2)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.PostalCode = strings.ToUpper(strings.TrimSpace(a.PostalCode))
	a.Country = strings.ToUpper(strings.TrimSpace(a.Country))
	return a
}

// Validate checks the fields required to ship to the address
func (a Address) Validate() error {
	switch {
	case a.Line1 == "":
		return errors.New("address line1 is required")
	case a.City == "":
		return errors.New("city is required")
	case len(a.Country) != 2:
		return errors.New("country must be a 2-letter ISO code")
	case len(a.Line1) > 255 || len(a.Line2) > 255:
		return errors.New("address line cannot exceed 255 characters")
	case len(a.PostalCode) > 20:
		return errors.New("postal code cannot exceed 20 characters")
	}
	if (a.Latitude == nil) != (a.Longitude == nil) {
		return errors.New("latitude and longitude must be provided together")
	}
	if a.HasCoordinates() {
		if math.Abs(*a.Latitude) > 90 || math.Abs(*a.Longitude) > 180 {
			return errors.New("coordinates out of range")
		}
	}
	return nil
}

// IsZero reports whether no address has been set
func (a Address) IsZero() bool {
	return a.Line1 == "" && a.City == "" && a.Country == ""
}

// HasCoordinates reports whether both latitude and longitude are set
func (a Address) HasCoordinates() bool {
	return a.Latitude != nil && a.Longitude != nil
}

// String renders a single-line address
func (a Address) String() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two coordinates
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
