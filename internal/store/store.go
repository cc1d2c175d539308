package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Jake-Garneau/weather-backend/internal/weather"
)

var (
	// ErrNotFound is returned when no data is available for a location.
	ErrNotFound = errors.New("no weather data for location")
	// ErrDuplicateLocation is returned when an insert collides with the
	// coordinate unique index.
	ErrDuplicateLocation = errors.New("location with these coordinates already exists")
)

// DB is a GORM-backed weather store.
type DB struct {
	db *gorm.DB
}

// New wraps an open GORM handle.
func New(db *gorm.DB) *DB {
	return &DB{db: db}
}

// Migrate creates or updates the weather tables.
func (s *DB) Migrate() error {
	return s.db.AutoMigrate(&Location{}, &CurrentWeather{}, &HourlyWeather{}, &DailyWeather{})
}

// SaveBundle persists every row of one fetch cycle in a single transaction.
// The owning location is resolved by coordinates inside the same transaction
// and created on first sight; an existing location is never updated. An empty
// bundle is a no-op.
func (s *DB) SaveBundle(ctx context.Context, name string, b weather.Bundle) error {
	if b.Empty() {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loc, err := resolveLocation(tx, name, b.Location)
		if err != nil {
			return err
		}

		// The current row is written unconditionally: a payload without an
		// observation time fails the NOT NULL dt constraint and rolls the
		// whole cycle back.
		row := currentEntity(b.Current, loc.ID)
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return fmt.Errorf("insert current weather: %w", err)
		}
		if len(b.Hourly) > 0 {
			rows := make([]HourlyWeather, len(b.Hourly))
			for i, h := range b.Hourly {
				rows[i] = hourlyEntity(h, loc.ID)
			}
			if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
				return fmt.Errorf("insert hourly weather: %w", err)
			}
		}
		if len(b.Daily) > 0 {
			rows := make([]DailyWeather, len(b.Daily))
			for i, d := range b.Daily {
				rows[i] = dailyEntity(d, loc.ID)
			}
			if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
				return fmt.Errorf("insert daily weather: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return classify("save bundle", err)
	}
	return nil
}

// LatestCurrent returns the newest current-weather record for the named
// location.
func (s *DB) LatestCurrent(ctx context.Context, name string) (weather.CurrentReport, error) {
	var loc Location
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&loc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return weather.CurrentReport{}, ErrNotFound
	}
	if err != nil {
		return weather.CurrentReport{}, classify("lookup location", err)
	}

	var row CurrentWeather
	err = s.db.WithContext(ctx).
		Where("location_id = ?", loc.ID).
		Order("dt DESC, id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return weather.CurrentReport{}, ErrNotFound
	}
	if err != nil {
		return weather.CurrentReport{}, classify("read current weather", err)
	}

	return weather.CurrentReport{
		Location: weather.ReportLocation{
			Name:     loc.Name,
			Lat:      loc.Lat,
			Lon:      loc.Lon,
			Timezone: loc.Timezone,
		},
		Weather: weather.ReportWeather{
			Timestamp:   row.Dt,
			Temp:        row.Temp,
			FeelsLike:   row.FeelsLike,
			Humidity:    row.Humidity,
			Pressure:    row.Pressure,
			UVI:         row.UVI,
			Clouds:      row.Clouds,
			WindSpeed:   row.WindSpeed,
			WeatherMain: row.WeatherMain,
			Description: row.WeatherDescription,
			Icon:        row.WeatherIcon,
		},
	}, nil
}

// resolveLocation finds the location owning lr's coordinates, inserting it on
// first sight. Timezone fields are written only on insert.
func resolveLocation(tx *gorm.DB, name string, lr weather.LocationRow) (Location, error) {
	var loc Location
	err := tx.Where("lat = ? AND lon = ?", lr.Lat, lr.Lon).First(&loc).Error
	if err == nil {
		return loc, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Location{}, fmt.Errorf("lookup location: %w", err)
	}

	loc = Location{
		Name:           name,
		Lat:            lr.Lat,
		Lon:            lr.Lon,
		Timezone:       lr.Timezone,
		TimezoneOffset: lr.TimezoneOffset,
	}
	if err := tx.Create(&loc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Location{}, ErrDuplicateLocation
		}
		return Location{}, fmt.Errorf("insert location: %w", err)
	}
	return loc, nil
}

// classify maps store errors onto the pipeline failure taxonomy.
func classify(op string, err error) error {
	if errors.Is(err, ErrDuplicateLocation) {
		return weather.NewFailure(weather.KindDuplicateLocation, op, err)
	}
	return weather.NewFailure(weather.KindStorage, op, err)
}

func currentEntity(r weather.CurrentRow, locID uint) CurrentWeather {
	return CurrentWeather{
		Dt:                 r.Dt,
		Sunrise:            r.Sunrise,
		Sunset:             r.Sunset,
		Temp:               r.Temp,
		FeelsLike:          r.FeelsLike,
		Pressure:           r.Pressure,
		Humidity:           r.Humidity,
		DewPoint:           r.DewPoint,
		UVI:                r.UVI,
		Clouds:             r.Clouds,
		Visibility:         r.Visibility,
		WindSpeed:          r.WindSpeed,
		WindDeg:            r.WindDeg,
		WindGust:           r.WindGust,
		WeatherID:          r.Condition.WeatherID,
		WeatherMain:        r.Condition.WeatherMain,
		WeatherDescription: r.Condition.WeatherDescription,
		WeatherIcon:        r.Condition.WeatherIcon,
		LocationID:         locID,
	}
}

func hourlyEntity(r weather.HourlyRow, locID uint) HourlyWeather {
	return HourlyWeather{
		Dt:                 r.Dt,
		Temp:               r.Temp,
		FeelsLike:          r.FeelsLike,
		Pressure:           r.Pressure,
		Humidity:           r.Humidity,
		DewPoint:           r.DewPoint,
		UVI:                r.UVI,
		Clouds:             r.Clouds,
		Visibility:         r.Visibility,
		WindSpeed:          r.WindSpeed,
		WindDeg:            r.WindDeg,
		WindGust:           r.WindGust,
		Pop:                r.Pop,
		WeatherID:          r.Condition.WeatherID,
		WeatherMain:        r.Condition.WeatherMain,
		WeatherDescription: r.Condition.WeatherDescription,
		WeatherIcon:        r.Condition.WeatherIcon,
		LocationID:         locID,
	}
}

func dailyEntity(r weather.DailyRow, locID uint) DailyWeather {
	return DailyWeather{
		Dt:                 r.Dt,
		Sunrise:            r.Sunrise,
		Sunset:             r.Sunset,
		Moonrise:           r.Moonrise,
		Moonset:            r.Moonset,
		MoonPhase:          r.MoonPhase,
		Summary:            r.Summary,
		TempDay:            r.TempDay,
		TempMin:            r.TempMin,
		TempMax:            r.TempMax,
		TempNight:          r.TempNight,
		TempEve:            r.TempEve,
		TempMorn:           r.TempMorn,
		FeelsLikeDay:       r.FeelsLikeDay,
		FeelsLikeNight:     r.FeelsLikeNight,
		FeelsLikeEve:       r.FeelsLikeEve,
		FeelsLikeMorn:      r.FeelsLikeMorn,
		Pressure:           r.Pressure,
		Humidity:           r.Humidity,
		DewPoint:           r.DewPoint,
		WindSpeed:          r.WindSpeed,
		WindDeg:            r.WindDeg,
		WindGust:           r.WindGust,
		Clouds:             r.Clouds,
		Pop:                r.Pop,
		Rain:               r.Rain,
		Snow:               r.Snow,
		UVI:                r.UVI,
		WeatherID:          r.Condition.WeatherID,
		WeatherMain:        r.Condition.WeatherMain,
		WeatherDescription: r.Condition.WeatherDescription,
		WeatherIcon:        r.Condition.WeatherIcon,
		LocationID:         locID,
	}
}
