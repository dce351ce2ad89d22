package handler

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

// RateResponse is one row of the expanded rate table
type RateResponse struct {
	Index int     `json:"index"`
	Year  int     `json:"year"`
	Rate  float64 `json:"rate"`
}

// ConversionResponse represents the response for the conversion endpoint
type ConversionResponse struct {
	Year    int     `json:"year"`
	ManYen  float64 `json:"man_yen"`
	Yen     float64 `json:"yen"`
	Rate    float64 `json:"rate"`
	USD     float64 `json:"usd"`
	Display string  `json:"display"`
}

// HealthResponse represents the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
	Years  int    `json:"years"`
}
