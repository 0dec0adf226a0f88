package openfigi

// idTypeISIN is the OpenFIGI identifier type for ISINs
const idTypeISIN = "ID_ISIN"

// mappingJob is one element of the POST /v3/mapping request array
type mappingJob struct {
	IDType  string `json:"idType"`
	IDValue string `json:"idValue"`
}

// mappingResult is one element of the response array, aligned by position
// with the request. Exactly one of Data, Warning or Error is normally set.
type mappingResult struct {
	Data    []instrument `json:"data,omitempty"`
	Warning string       `json:"warning,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type instrument struct {
	FIGI         string `json:"figi"`
	Name         string `json:"name"`
	Ticker       string `json:"ticker"`
	ExchangeCode string `json:"exchCode"`
	SecurityType string `json:"securityType"`
	MarketSector string `json:"marketSector"`
}
