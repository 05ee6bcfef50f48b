package geocoding

type AddressComponent struct {
	LongName  string   `json:"longName"`
	ShortName string   `json:"shortName"`
	Types     []string `json:"types"`
}

// Place is the first match for a free-text address.
type Place struct {
	Lat               float64            `json:"lat"`
	Lng               float64            `json:"lng"`
	FormattedAddress  string             `json:"formattedAddress"`
	PlaceID           string             `json:"placeId"`
	AddressComponents []AddressComponent `json:"addressComponents"`
}

type Result struct {
	Success bool   `json:"success"`
	Data    *Place `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Status  int    `json:"-"`
}

// geocodePayload is the Google Geocoding API JSON response.
type geocodePayload struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		PlaceID          string `json:"place_id"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		AddressComponents []struct {
			LongName  string   `json:"long_name"`
			ShortName string   `json:"short_name"`
			Types     []string `json:"types"`
		} `json:"address_components"`
	} `json:"results"`
}
