package domain

// Geometry is a WGS-84 point.
type Geometry struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Components is the structured address breakdown a provider attaches to each
// candidate. Every field is optional.
type Components struct {
	Road        string `json:"road,omitempty"`
	Square      string `json:"square,omitempty"`
	City        string `json:"city,omitempty"`
	Town        string `json:"town,omitempty"`
	Village     string `json:"village,omitempty"`
	Hamlet      string `json:"hamlet,omitempty"`
	County      string `json:"county,omitempty"`
	CountyCode  string `json:"county_code,omitempty"`
	State       string `json:"state,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

// Street returns the road name, falling back to the square.
func (c Components) Street() string {
	if c.Road != "" {
		return c.Road
	}
	return c.Square
}

// HasStreet reports whether the candidate is at street level.
func (c Components) HasStreet() bool {
	return c.Road != "" || c.Square != ""
}

// Locality returns the most specific populated settlement name.
func (c Components) Locality() string {
	for _, v := range c.localities() {
		if v != "" {
			return v
		}
	}
	return ""
}

func (c Components) localities() []string {
	return []string{c.City, c.Town, c.Village, c.Hamlet}
}

// Candidate is one geocoding result as returned by the provider. Selection
// only reads candidates, it never modifies them.
type Candidate struct {
	Geometry   Geometry   `json:"geometry"`
	Confidence int        `json:"confidence"` // 0-10
	Components Components `json:"components"`
	Formatted  string     `json:"formatted"`
}

// LocationResult is what callers receive once an address has been resolved.
type LocationResult struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Address    string  `json:"address"`
	Confidence int     `json:"confidence,omitempty"`
	Postcode   string  `json:"postcode,omitempty"`
}

// ToLocationResult projects the candidate onto the public result shape.
func (c Candidate) ToLocationResult() LocationResult {
	return LocationResult{
		Latitude:   c.Geometry.Lat,
		Longitude:  c.Geometry.Lng,
		Address:    c.Formatted,
		Confidence: c.Confidence,
		Postcode:   c.Components.Postcode,
	}
}
