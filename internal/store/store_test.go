package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Jake-Garneau/weather-backend/internal/weather"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "weather.db") + "?_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	s := New(db)
	require.NoError(t, s.Migrate())
	return s
}

func timep(epoch int64) *time.Time {
	t := time.Unix(epoch, 0).UTC()
	return &t
}

func f64p(v float64) *float64 { return &v }
func intp(v int) *int         { return &v }
func strp(v string) *string   { return &v }

func testBundle() weather.Bundle {
	return weather.Bundle{
		Location: weather.LocationRow{
			Lat:            40.0,
			Lon:            -75.0,
			Timezone:       "America/New_York",
			TimezoneOffset: -18000,
		},
		Current: weather.CurrentRow{
			Dt:       timep(1700000000),
			Temp:     f64p(60.5),
			Humidity: intp(55),
			Condition: weather.ConditionCols{
				WeatherID:          intp(800),
				WeatherMain:        strp("Clear"),
				WeatherDescription: strp("clear sky"),
				WeatherIcon:        strp("01d"),
			},
		},
		Hourly: []weather.HourlyRow{
			{Dt: timep(1700003600), Temp: f64p(59.0), Pop: f64p(0.1)},
			{Dt: timep(1700007200), Temp: f64p(57.5)},
		},
		Daily: []weather.DailyRow{
			{Dt: timep(1700000000), TempDay: f64p(65.0), TempMin: f64p(48.0), Rain: f64p(0.12)},
		},
	}
}

func TestSaveBundleRoundTrip(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBundle(ctx, "Philadelphia", testBundle()))

	report, err := s.LatestCurrent(ctx, "Philadelphia")
	require.NoError(t, err)

	assert.Equal(t, "Philadelphia", report.Location.Name)
	assert.Equal(t, 40.0, report.Location.Lat)
	assert.Equal(t, -75.0, report.Location.Lon)
	assert.Equal(t, "America/New_York", report.Location.Timezone)

	require.NotNil(t, report.Weather.Timestamp)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), *report.Weather.Timestamp)
	assert.Equal(t, 60.5, *report.Weather.Temp)
	assert.Equal(t, 55, *report.Weather.Humidity)
	assert.Equal(t, "Clear", *report.Weather.WeatherMain)
	assert.Equal(t, "clear sky", *report.Weather.Description)
	assert.Equal(t, "01d", *report.Weather.Icon)

	var hourly int64
	require.NoError(t, s.db.Model(&HourlyWeather{}).Count(&hourly).Error)
	assert.Equal(t, int64(2), hourly)

	var daily int64
	require.NoError(t, s.db.Model(&DailyWeather{}).Count(&daily).Error)
	assert.Equal(t, int64(1), daily)
}

func TestSaveBundleReusesLocation(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBundle(ctx, "Philadelphia", testBundle()))

	second := testBundle()
	second.Current.Dt = timep(1700000300)
	require.NoError(t, s.SaveBundle(ctx, "Philadelphia", second))

	var locations int64
	require.NoError(t, s.db.Model(&Location{}).Count(&locations).Error)
	assert.Equal(t, int64(1), locations)

	var currents int64
	require.NoError(t, s.db.Model(&CurrentWeather{}).Count(&currents).Error)
	assert.Equal(t, int64(2), currents)
}

func TestSaveBundleNeverUpdatesLocation(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBundle(ctx, "Philadelphia", testBundle()))

	second := testBundle()
	second.Location.Timezone = "America/Chicago"
	second.Location.TimezoneOffset = -21600
	require.NoError(t, s.SaveBundle(ctx, "Philadelphia", second))

	var loc Location
	require.NoError(t, s.db.First(&loc).Error)
	assert.Equal(t, "America/New_York", loc.Timezone)
	assert.Equal(t, -18000, loc.TimezoneOffset)
}

func TestCoordinateUniqueIndex(t *testing.T) {
	s := newTestDB(t)

	require.NoError(t, s.db.Create(&Location{Name: "A", Lat: 40.0, Lon: -75.0}).Error)

	err := s.db.Create(&Location{Name: "B", Lat: 40.0, Lon: -75.0}).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestDuplicateLocationClassified(t *testing.T) {
	err := classify("save bundle", fmt.Errorf("insert location: %w", ErrDuplicateLocation))
	assert.ErrorIs(t, err, ErrDuplicateLocation)
	assert.Equal(t, weather.KindDuplicateLocation, weather.KindOf(err))
}

func TestLatestCurrentPicksNewest(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	first := testBundle()
	first.Current.Dt = timep(1700000000)
	first.Current.Temp = f64p(50.0)
	require.NoError(t, s.SaveBundle(ctx, "Philadelphia", first))

	second := testBundle()
	second.Current.Dt = timep(1700000600)
	second.Current.Temp = f64p(55.0)
	require.NoError(t, s.SaveBundle(ctx, "Philadelphia", second))

	report, err := s.LatestCurrent(ctx, "Philadelphia")
	require.NoError(t, err)
	assert.Equal(t, 55.0, *report.Weather.Temp)
	assert.Equal(t, time.Unix(1700000600, 0).UTC(), *report.Weather.Timestamp)
}

func TestLatestCurrentUnknownLocation(t *testing.T) {
	s := newTestDB(t)

	_, err := s.LatestCurrent(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLatestCurrentNoWeatherRows(t *testing.T) {
	s := newTestDB(t)

	require.NoError(t, s.db.Create(&Location{Name: "Philadelphia", Lat: 40.0, Lon: -75.0}).Error)

	_, err := s.LatestCurrent(context.Background(), "Philadelphia")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveBundleEmptyIsNoOp(t *testing.T) {
	s := newTestDB(t)

	require.NoError(t, s.SaveBundle(context.Background(), "Philadelphia", weather.Bundle{}))

	var locations int64
	require.NoError(t, s.db.Model(&Location{}).Count(&locations).Error)
	assert.Equal(t, int64(0), locations)
}

func TestSaveBundleWeatherlessIsNoOp(t *testing.T) {
	s := newTestDB(t)

	b := weather.Bundle{
		Location: weather.LocationRow{
			Lat:            40.0,
			Lon:            -75.0,
			Timezone:       "America/New_York",
			TimezoneOffset: -18000,
		},
	}
	require.NoError(t, s.SaveBundle(context.Background(), "Philadelphia", b))

	var locations int64
	require.NoError(t, s.db.Model(&Location{}).Count(&locations).Error)
	assert.Equal(t, int64(0), locations)
}

func TestSaveBundleMissingCurrentRollsBack(t *testing.T) {
	s := newTestDB(t)

	b := weather.Bundle{
		Location: weather.LocationRow{Lat: 40.0, Lon: -75.0},
		Hourly: []weather.HourlyRow{
			{Dt: timep(1700003600), Temp: f64p(59.0)},
		},
	}

	err := s.SaveBundle(context.Background(), "Philadelphia", b)
	require.Error(t, err)
	assert.Equal(t, weather.KindStorage, weather.KindOf(err))

	var locations int64
	require.NoError(t, s.db.Model(&Location{}).Count(&locations).Error)
	assert.Equal(t, int64(0), locations)

	var hourly int64
	require.NoError(t, s.db.Model(&HourlyWeather{}).Count(&hourly).Error)
	assert.Equal(t, int64(0), hourly)
}

func TestSaveBundleLostInsertRace(t *testing.T) {
	s := newTestDB(t)

	// Slip a conflicting location in on the same transaction connection
	// between the lookup miss and the insert.
	raced := false
	var raceErr error
	require.NoError(t, s.db.Callback().Create().Before("gorm:create").Register("conflicting_insert", func(tx *gorm.DB) {
		loc, ok := tx.Statement.Dest.(*Location)
		if !ok || raced {
			return
		}
		raced = true
		rival := Location{Name: "Rival", Lat: loc.Lat, Lon: loc.Lon}
		raceErr = tx.Session(&gorm.Session{NewDB: true}).Create(&rival).Error
	}))

	err := s.SaveBundle(context.Background(), "Philadelphia", testBundle())
	require.NoError(t, raceErr)
	require.True(t, raced)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateLocation)
	assert.Equal(t, weather.KindDuplicateLocation, weather.KindOf(err))

	var currents int64
	require.NoError(t, s.db.Model(&CurrentWeather{}).Count(&currents).Error)
	assert.Equal(t, int64(0), currents)
}

func TestSaveBundleRollsBackOnBadRow(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	bad := testBundle()
	bad.Hourly[1].Dt = nil

	err := s.SaveBundle(ctx, "Philadelphia", bad)
	require.Error(t, err)
	assert.Equal(t, weather.KindStorage, weather.KindOf(err))

	var locations int64
	require.NoError(t, s.db.Model(&Location{}).Count(&locations).Error)
	assert.Equal(t, int64(0), locations)

	var currents int64
	require.NoError(t, s.db.Model(&CurrentWeather{}).Count(&currents).Error)
	assert.Equal(t, int64(0), currents)
}

func TestDeleteLocationCascades(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBundle(ctx, "Philadelphia", testBundle()))

	require.NoError(t, s.db.Where("name = ?", "Philadelphia").Delete(&Location{}).Error)

	var currents int64
	require.NoError(t, s.db.Model(&CurrentWeather{}).Count(&currents).Error)
	assert.Equal(t, int64(0), currents)

	var hourly int64
	require.NoError(t, s.db.Model(&HourlyWeather{}).Count(&hourly).Error)
	assert.Equal(t, int64(0), hourly)
}
