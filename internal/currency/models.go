package currency

// CurrencyInfo describes a currency offered by default in the converter.
type CurrencyInfo struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Flag   string `json:"flag"`
}

// MajorCurrencies is the default target list, in display order.
var MajorCurrencies = []CurrencyInfo{
	{Code: "USD", Name: "US Dollar", Symbol: "$", Flag: "🇺🇸"},
	{Code: "EUR", Name: "Euro", Symbol: "€", Flag: "🇪🇺"},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", Flag: "🇯🇵"},
	{Code: "GBP", Name: "British Pound", Symbol: "£", Flag: "🇬🇧"},
	{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥", Flag: "🇨🇳"},
	{Code: "KRW", Name: "South Korean Won", Symbol: "₩", Flag: "🇰🇷"},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$", Flag: "🇦🇺"},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$", Flag: "🇨🇦"},
	{Code: "CHF", Name: "Swiss Franc", Symbol: "Fr", Flag: "🇨🇭"},
	{Code: "HKD", Name: "Hong Kong Dollar", Symbol: "HK$", Flag: "🇭🇰"},
	{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$", Flag: "🇸🇬"},
	{Code: "INR", Name: "Indian Rupee", Symbol: "₹", Flag: "🇮🇳"},
}

// Info returns the table entry for code, or an entry that uses the code
// itself as name and symbol.
func Info(code string) CurrencyInfo {
	for _, c := range MajorCurrencies {
		if c.Code == code {
			return c
		}
	}
	return CurrencyInfo{Code: code, Name: code, Symbol: code, Flag: "🌍"}
}

// Request is a conversion request as received from the page.
type Request struct {
	From   string
	Amount string
	To     string // comma separated; empty means every major currency but From
}

type Conversion struct {
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
	Amount   float64 `json:"amount"`
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
}

type ConversionSet struct {
	BaseCurrency string       `json:"baseCurrency"`
	BaseAmount   float64      `json:"baseAmount"`
	Conversions  []Conversion `json:"conversions"`
	LastUpdated  string       `json:"lastUpdated"`
}

// Result is {success: true, data} or {success: false, error}. Status is the
// HTTP status the handler should answer with.
type Result struct {
	Success bool           `json:"success"`
	Data    *ConversionSet `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	Status  int            `json:"-"`
}

// latestRatesPayload is the open.exchangerate-api.com /v6/latest response.
type latestRatesPayload struct {
	Result             string             `json:"result"`
	BaseCode           string             `json:"base_code"`
	TimeLastUpdateUTC  string             `json:"time_last_update_utc"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	Rates              map[string]float64 `json:"rates"`
}
