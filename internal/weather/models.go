package weather

// ErrorKind classifies a failed lookup. It is not part of the JSON result;
// the HTTP layer uses it to pick a status code.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindValidation ErrorKind = "validation"
	KindConfig     ErrorKind = "config"
	KindNetwork    ErrorKind = "network"
	KindUpstream   ErrorKind = "upstream"
	KindMalformed  ErrorKind = "malformed"
	KindIncomplete ErrorKind = "incomplete"
)

// WeatherDisplay is the display-ready view of one current-weather reading.
// Temperatures are whole degrees Celsius, wind speed is m/s to one decimal.
type WeatherDisplay struct {
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Temperature int     `json:"temperature"`
	FeelsLike   int     `json:"feelsLike"`
	Description string  `json:"description"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Icon        string  `json:"icon"`
	Timestamp   int64   `json:"timestamp"` // unix seconds
	Timezone    int     `json:"timezone"`  // offset from UTC in seconds
}

// LookupResult is either {success: true, data} or {success: false, error}.
// Build it with lookupOK / lookupFailed so only one side is ever set.
type LookupResult struct {
	Success bool            `json:"success"`
	Data    *WeatherDisplay `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Kind    ErrorKind       `json:"-"`
}

func lookupOK(d WeatherDisplay) LookupResult {
	return LookupResult{Success: true, Data: &d}
}

func lookupFailed(kind ErrorKind, msg string) LookupResult {
	return LookupResult{Success: false, Error: msg, Kind: kind}
}

// weatherQuery lives for the duration of one lookup.
type weatherQuery struct {
	City   string
	APIKey string
}

// currentWeatherPayload mirrors the fields of the OpenWeatherMap
// /data/2.5/weather response that the display needs. Pointers and the
// nullable slice let the shape check tell "missing" from "zero".
type currentWeatherPayload struct {
	Name    string       `json:"name"`
	Dt      int64        `json:"dt"`
	Weather *[]condition `json:"weather"`
	Main    *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Timezone int `json:"timezone"`
}

type condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// wellFormed reports whether the payload has a condition list and numeric
// main/wind readings. An empty condition list is still well formed.
func (p *currentWeatherPayload) wellFormed() bool {
	return p.Weather != nil &&
		p.Main != nil && p.Main.Temp != nil && p.Main.FeelsLike != nil && p.Main.Humidity != nil &&
		p.Wind != nil && p.Wind.Speed != nil
}

// errorPayload is what OpenWeatherMap sends with a non-2xx status. cod is a
// string for some errors and a number for others.
type errorPayload struct {
	Cod     any     `json:"cod"`
	Message *string `json:"message"`
	Weather any     `json:"weather"`
}
