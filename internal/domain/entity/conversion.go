package entity

// YenPerMan is the number of yen in one ten-thousand-yen (man-yen) unit
const YenPerMan = 10000

// Conversion is a single year's income converted from man-yen to USD
type Conversion struct {
	Year    int     `json:"year"`
	ManYen  float64 `json:"man_yen"`
	Yen     float64 `json:"yen"`
	Rate    float64 `json:"rate"`
	USD     float64 `json:"usd"`
	Display string  `json:"display"`
}

// HasValue reports whether the conversion carries a positive amount
func (c *Conversion) HasValue() bool {
	return c.USD > 0
}
