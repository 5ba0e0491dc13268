package weather

// CurrentConditions is the display form of the provider's current timestep.
// HighTemp, LowTemp, PrecipChance and MinTempWeek are filled in by the
// Aggregator from the forecast.
type CurrentConditions struct {
	CurrWeatherCode string `json:"currWeatherCode"`
	CurrTemp        string `json:"currTemp"`
	Pressure        string `json:"pressure"`
	WindSpeed       string `json:"windSpeed"`
	HighTemp        string `json:"highTemp"`
	LowTemp         string `json:"lowTemp"`
	PrecipChance    string `json:"precipChance"`
	MinTempWeek     string `json:"minTempWeek"`
}

// DayForecast is the display form of one daily interval.
type DayForecast struct {
	AllDayWeatherCode string `json:"allDayWeatherCode"`
	HighTemp          string `json:"highTemp"`
	LowTemp           string `json:"lowTemp"`
	PrecipChance      string `json:"precipChance"`
	WindSpeed         string `json:"windSpeed"`
	Pressure          string `json:"pressure"`
}

// Report is the aggregated weather for one coordinate pair.
type Report struct {
	Current  CurrentConditions `json:"current"`
	Forecast []DayForecast     `json:"forecast"`
}

// timelinesResponse mirrors the parts of a /v4/timelines body we read.
type timelinesResponse struct {
	Data struct {
		Timelines []struct {
			Timestep  string     `json:"timestep"`
			Intervals []interval `json:"intervals"`
		} `json:"timelines"`
	} `json:"data"`
}

type interval struct {
	StartTime string         `json:"startTime"`
	Values    intervalValues `json:"values"`
}

type intervalValues struct {
	WeatherCode              int     `json:"weatherCode"`
	WeatherCodeDay           int     `json:"weatherCodeDay"`
	Temperature              float64 `json:"temperature"`
	TemperatureMax           float64 `json:"temperatureMax"`
	TemperatureMin           float64 `json:"temperatureMin"`
	PressureSeaLevel         float64 `json:"pressureSeaLevel"`
	WindSpeed                float64 `json:"windSpeed"`
	PrecipitationProbability float64 `json:"precipitationProbability"`
}
