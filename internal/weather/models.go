package weather

import (
	"time"
)

// Location is a configured place the system tracks, identified by a display
// name and an exact coordinate pair.
type Location struct {
	Name string  `json:"name" validate:"required"`
	Lat  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon  float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// Key returns a canonical string key for logging and lookups.
func (l Location) Key() string {
	return l.Name
}

// RawPayload is the One Call response as the provider sent it. Optional keys
// decode to nil so the normalizer can tell "absent" from "zero".
type RawPayload struct {
	Lat            float64     `json:"lat"`
	Lon            float64     `json:"lon"`
	Timezone       string      `json:"timezone"`
	TimezoneOffset int         `json:"timezone_offset"`
	Current        *RawCurrent `json:"current"`
	Hourly         []RawHourly `json:"hourly"`
	Daily          []RawDaily  `json:"daily"`
}

// RawCondition is one entry of the provider's nested weather-condition list.
type RawCondition struct {
	ID          *int    `json:"id"`
	Main        *string `json:"main"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}

// RawCurrent holds present conditions.
type RawCurrent struct {
	Dt         *int64         `json:"dt"`
	Sunrise    *int64         `json:"sunrise"`
	Sunset     *int64         `json:"sunset"`
	Temp       *float64       `json:"temp"`
	FeelsLike  *float64       `json:"feels_like"`
	Pressure   *int           `json:"pressure"`
	Humidity   *int           `json:"humidity"`
	DewPoint   *float64       `json:"dew_point"`
	UVI        *float64       `json:"uvi"`
	Clouds     *int           `json:"clouds"`
	Visibility *int           `json:"visibility"`
	WindSpeed  *float64       `json:"wind_speed"`
	WindDeg    *int           `json:"wind_deg"`
	WindGust   *float64       `json:"wind_gust"`
	Weather    []RawCondition `json:"weather"`
}

// RawHourly holds one hour of forecast.
type RawHourly struct {
	Dt         *int64         `json:"dt"`
	Temp       *float64       `json:"temp"`
	FeelsLike  *float64       `json:"feels_like"`
	Pressure   *int           `json:"pressure"`
	Humidity   *int           `json:"humidity"`
	DewPoint   *float64       `json:"dew_point"`
	UVI        *float64       `json:"uvi"`
	Clouds     *int           `json:"clouds"`
	Visibility *int           `json:"visibility"`
	WindSpeed  *float64       `json:"wind_speed"`
	WindDeg    *int           `json:"wind_deg"`
	WindGust   *float64       `json:"wind_gust"`
	Pop        *float64       `json:"pop"`
	Weather    []RawCondition `json:"weather"`
}

// RawPeriodTemps is the per-period temperature object on a daily entry.
type RawPeriodTemps struct {
	Day   *float64 `json:"day"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Night *float64 `json:"night"`
	Eve   *float64 `json:"eve"`
	Morn  *float64 `json:"morn"`
}

// RawFeelsLike is the per-period feels-like object on a daily entry.
type RawFeelsLike struct {
	Day   *float64 `json:"day"`
	Night *float64 `json:"night"`
	Eve   *float64 `json:"eve"`
	Morn  *float64 `json:"morn"`
}

// RawDaily holds one day of forecast.
type RawDaily struct {
	Dt        *int64          `json:"dt"`
	Sunrise   *int64          `json:"sunrise"`
	Sunset    *int64          `json:"sunset"`
	Moonrise  *int64          `json:"moonrise"`
	Moonset   *int64          `json:"moonset"`
	MoonPhase *float64        `json:"moon_phase"`
	Summary   *string         `json:"summary"`
	Temp      *RawPeriodTemps `json:"temp"`
	FeelsLike *RawFeelsLike   `json:"feels_like"`
	Pressure  *int            `json:"pressure"`
	Humidity  *int            `json:"humidity"`
	DewPoint  *float64        `json:"dew_point"`
	WindSpeed *float64        `json:"wind_speed"`
	WindDeg   *int            `json:"wind_deg"`
	WindGust  *float64        `json:"wind_gust"`
	Clouds    *int            `json:"clouds"`
	Pop       *float64        `json:"pop"`
	Rain      *float64        `json:"rain"`
	Snow      *float64        `json:"snow"`
	UVI       *float64        `json:"uvi"`
	Weather   []RawCondition  `json:"weather"`
}

// Bundle is the normalized output of one fetch cycle: flat rows ready for a
// single transactional write.
type Bundle struct {
	Location LocationRow
	Current  CurrentRow
	Hourly   []HourlyRow
	Daily    []DailyRow
}

// Empty reports whether the bundle carries no weather rows at all, in which
// case the writer must not touch storage. Coordinates alone do not count: a
// location row is never committed without weather rows from the same cycle.
func (b Bundle) Empty() bool {
	return b.Current == (CurrentRow{}) && len(b.Hourly) == 0 && len(b.Daily) == 0
}

// LocationRow identifies the location a bundle belongs to.
type LocationRow struct {
	Lat            float64
	Lon            float64
	Timezone       string
	TimezoneOffset int
}

// ConditionCols is the denormalized weather-condition quadruple taken from
// the first element of the provider's condition list.
type ConditionCols struct {
	WeatherID          *int
	WeatherMain        *string
	WeatherDescription *string
	WeatherIcon        *string
}

// CurrentRow is one flat current-weather record.
type CurrentRow struct {
	Dt         *time.Time
	Sunrise    *time.Time
	Sunset     *time.Time
	Temp       *float64
	FeelsLike  *float64
	Pressure   *int
	Humidity   *int
	DewPoint   *float64
	UVI        *float64
	Clouds     *int
	Visibility *int
	WindSpeed  *float64
	WindDeg    *int
	WindGust   *float64
	Condition  ConditionCols
}

// HourlyRow is one flat hourly-forecast record.
type HourlyRow struct {
	Dt         *time.Time
	Temp       *float64
	FeelsLike  *float64
	Pressure   *int
	Humidity   *int
	DewPoint   *float64
	UVI        *float64
	Clouds     *int
	Visibility *int
	WindSpeed  *float64
	WindDeg    *int
	WindGust   *float64
	Pop        *float64
	Condition  ConditionCols
}

// DailyRow is one flat daily-forecast record with the per-period temperature
// and feels-like objects flattened into named columns.
type DailyRow struct {
	Dt             *time.Time
	Sunrise        *time.Time
	Sunset         *time.Time
	Moonrise       *time.Time
	Moonset        *time.Time
	MoonPhase      *float64
	Summary        *string
	TempDay        *float64
	TempMin        *float64
	TempMax        *float64
	TempNight      *float64
	TempEve        *float64
	TempMorn       *float64
	FeelsLikeDay   *float64
	FeelsLikeNight *float64
	FeelsLikeEve   *float64
	FeelsLikeMorn  *float64
	Pressure       *int
	Humidity       *int
	DewPoint       *float64
	WindSpeed      *float64
	WindDeg        *int
	WindGust       *float64
	Clouds         *int
	Pop            *float64
	Rain           *float64
	Snow           *float64
	UVI            *float64
	Condition      ConditionCols
}

// CurrentReport is the read-path view of the latest current weather for a
// location.
type CurrentReport struct {
	Location ReportLocation `json:"location"`
	Weather  ReportWeather  `json:"weather"`
}

// ReportLocation identifies the location a report belongs to.
type ReportLocation struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Timezone string  `json:"timezone"`
}

// ReportWeather carries the latest observed conditions.
type ReportWeather struct {
	Timestamp   *time.Time `json:"timestamp"`
	Temp        *float64   `json:"temp"`
	FeelsLike   *float64   `json:"feels_like"`
	Humidity    *int       `json:"humidity"`
	Pressure    *int       `json:"pressure"`
	UVI         *float64   `json:"uvi"`
	Clouds      *int       `json:"clouds"`
	WindSpeed   *float64   `json:"wind_speed"`
	WeatherMain *string    `json:"weather_main"`
	Description *string    `json:"description"`
	Icon        *string    `json:"icon"`
}
