package store

import "time"

// Location is one tracked place. The coordinate pair is the identity: a
// second insert with the same (lat, lon) violates the composite unique index.
type Location struct {
	ID             uint    `gorm:"primaryKey"`
	Name           string  `gorm:"not null"`
	Lat            float64 `gorm:"not null;uniqueIndex:idx_locations_lat_lon"`
	Lon            float64 `gorm:"not null;uniqueIndex:idx_locations_lat_lon"`
	Timezone       string
	TimezoneOffset int
}

func (Location) TableName() string {
	return "locations"
}

// CurrentWeather is one observed-conditions record.
type CurrentWeather struct {
	ID                 uint       `gorm:"primaryKey"`
	Dt                 *time.Time `gorm:"not null"`
	Sunrise            *time.Time
	Sunset             *time.Time
	Temp               *float64
	FeelsLike          *float64
	Pressure           *int
	Humidity           *int
	DewPoint           *float64
	UVI                *float64 `gorm:"column:uvi"`
	Clouds             *int
	Visibility         *int
	WindSpeed          *float64
	WindDeg            *int
	WindGust           *float64
	WeatherID          *int `gorm:"column:weather_id"`
	WeatherMain        *string
	WeatherDescription *string
	WeatherIcon        *string
	LocationID         uint     `gorm:"not null;index"`
	Location           Location `gorm:"constraint:OnDelete:CASCADE"`
}

func (CurrentWeather) TableName() string {
	return "current_weather"
}

// HourlyWeather is one hour of forecast.
type HourlyWeather struct {
	ID                 uint       `gorm:"primaryKey"`
	Dt                 *time.Time `gorm:"not null"`
	Temp               *float64
	FeelsLike          *float64
	Pressure           *int
	Humidity           *int
	DewPoint           *float64
	UVI                *float64 `gorm:"column:uvi"`
	Clouds             *int
	Visibility         *int
	WindSpeed          *float64
	WindDeg            *int
	WindGust           *float64
	Pop                *float64
	WeatherID          *int `gorm:"column:weather_id"`
	WeatherMain        *string
	WeatherDescription *string
	WeatherIcon        *string
	LocationID         uint     `gorm:"not null;index"`
	Location           Location `gorm:"constraint:OnDelete:CASCADE"`
}

func (HourlyWeather) TableName() string {
	return "hourly_weather"
}

// DailyWeather is one day of forecast with per-period temperatures flattened
// into columns.
type DailyWeather struct {
	ID                 uint       `gorm:"primaryKey"`
	Dt                 *time.Time `gorm:"not null"`
	Sunrise            *time.Time
	Sunset             *time.Time
	Moonrise           *time.Time
	Moonset            *time.Time
	MoonPhase          *float64
	Summary            *string
	TempDay            *float64
	TempMin            *float64
	TempMax            *float64
	TempNight          *float64
	TempEve            *float64
	TempMorn           *float64
	FeelsLikeDay       *float64
	FeelsLikeNight     *float64
	FeelsLikeEve       *float64
	FeelsLikeMorn      *float64
	Pressure           *int
	Humidity           *int
	DewPoint           *float64
	WindSpeed          *float64
	WindDeg            *int
	WindGust           *float64
	Clouds             *int
	Pop                *float64
	Rain               *float64
	Snow               *float64
	UVI                *float64 `gorm:"column:uvi"`
	WeatherID          *int     `gorm:"column:weather_id"`
	WeatherMain        *string
	WeatherDescription *string
	WeatherIcon        *string
	LocationID         uint     `gorm:"not null;index"`
	Location           Location `gorm:"constraint:OnDelete:CASCADE"`
}

func (DailyWeather) TableName() string {
	return "daily_weather"
}
