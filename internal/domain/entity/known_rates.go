package entity

// KnownRates is the built-in list of yearly average JPY/USD rates.
// Years not listed are filled in when the table is expanded.
func KnownRates() []RateEntry {
	return []RateEntry{
		{Year: 1980, Rate: 226.7408},
		{Year: 1981, Rate: 220.5358},
		{Year: 1982, Rate: 249.0767},
		{Year: 1983, Rate: 237.5117},
		{Year: 1984, Rate: 237.5225},
		{Year: 1985, Rate: 238.5358},
		{Year: 1987, Rate: 144.6375},
		{Year: 1990, Rate: 144.7925},
		{Year: 1991, Rate: 134.7067},
		{Year: 1992, Rate: 126.6513},
		{Year: 1993, Rate: 111.1978},
		{Year: 1994, Rate: 102.2078},
		{Year: 1995, Rate: 94.0596},
		{Year: 2000, Rate: 107.7655},
		{Year: 2001, Rate: 121.5289},
		{Year: 2002, Rate: 125.388},
		{Year: 2003, Rate: 115.9335},
		{Year: 2004, Rate: 108.1926},
		{Year: 2005, Rate: 110.2182},
		{Year: 2010, Rate: 87.7799},
		{Year: 2011, Rate: 79.807},
		{Year: 2012, Rate: 79.7905},
		{Year: 2013, Rate: 97.5957},
		{Year: 2014, Rate: 105.9448},
		{Year: 2015, Rate: 121.044},
		{Year: 2020, Rate: 106.7746},
		{Year: 2021, Rate: 109.7543},
		{Year: 2022, Rate: 131.4981},
		{Year: 2023, Rate: 140.4911},
		{Year: 2024, Rate: 151.3663},
		{Year: 2025, Rate: 148.2193},
	}
}
