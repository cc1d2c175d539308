package weather

import "time"

// Normalize flattens a raw One Call payload into row structs. It is a pure
// transformation: no I/O, no clock reads, nothing mutated on the input.
// Absent fields stay nil all the way to the rows.
func Normalize(raw *RawPayload) Bundle {
	b := Bundle{
		Location: LocationRow{
			Lat:            raw.Lat,
			Lon:            raw.Lon,
			Timezone:       raw.Timezone,
			TimezoneOffset: raw.TimezoneOffset,
		},
	}

	if raw.Current != nil {
		b.Current = normalizeCurrent(raw.Current)
	}
	for i := range raw.Hourly {
		b.Hourly = append(b.Hourly, normalizeHourly(&raw.Hourly[i]))
	}
	for i := range raw.Daily {
		b.Daily = append(b.Daily, normalizeDaily(&raw.Daily[i]))
	}
	return b
}

func normalizeCurrent(c *RawCurrent) CurrentRow {
	return CurrentRow{
		Dt:         epochToUTC(c.Dt),
		Sunrise:    epochToUTC(c.Sunrise),
		Sunset:     epochToUTC(c.Sunset),
		Temp:       c.Temp,
		FeelsLike:  c.FeelsLike,
		Pressure:   c.Pressure,
		Humidity:   c.Humidity,
		DewPoint:   c.DewPoint,
		UVI:        c.UVI,
		Clouds:     c.Clouds,
		Visibility: c.Visibility,
		WindSpeed:  c.WindSpeed,
		WindDeg:    c.WindDeg,
		WindGust:   c.WindGust,
		Condition:  firstCondition(c.Weather),
	}
}

func normalizeHourly(h *RawHourly) HourlyRow {
	return HourlyRow{
		Dt:         epochToUTC(h.Dt),
		Temp:       h.Temp,
		FeelsLike:  h.FeelsLike,
		Pressure:   h.Pressure,
		Humidity:   h.Humidity,
		DewPoint:   h.DewPoint,
		UVI:        h.UVI,
		Clouds:     h.Clouds,
		Visibility: h.Visibility,
		WindSpeed:  h.WindSpeed,
		WindDeg:    h.WindDeg,
		WindGust:   h.WindGust,
		Pop:        h.Pop,
		Condition:  firstCondition(h.Weather),
	}
}

func normalizeDaily(d *RawDaily) DailyRow {
	row := DailyRow{
		Dt:        epochToUTC(d.Dt),
		Sunrise:   epochToUTC(d.Sunrise),
		Sunset:    epochToUTC(d.Sunset),
		Moonrise:  epochToUTC(d.Moonrise),
		Moonset:   epochToUTC(d.Moonset),
		MoonPhase: d.MoonPhase,
		Summary:   d.Summary,
		Pressure:  d.Pressure,
		Humidity:  d.Humidity,
		DewPoint:  d.DewPoint,
		WindSpeed: d.WindSpeed,
		WindDeg:   d.WindDeg,
		WindGust:  d.WindGust,
		Clouds:    d.Clouds,
		Pop:       d.Pop,
		Rain:      d.Rain,
		Snow:      d.Snow,
		UVI:       d.UVI,
		Condition: firstCondition(d.Weather),
	}
	if t := d.Temp; t != nil {
		row.TempDay = t.Day
		row.TempMin = t.Min
		row.TempMax = t.Max
		row.TempNight = t.Night
		row.TempEve = t.Eve
		row.TempMorn = t.Morn
	}
	if f := d.FeelsLike; f != nil {
		row.FeelsLikeDay = f.Day
		row.FeelsLikeNight = f.Night
		row.FeelsLikeEve = f.Eve
		row.FeelsLikeMorn = f.Morn
	}
	return row
}

// firstCondition takes the first entry of the nested condition list, or all
// nils when the list is empty.
func firstCondition(conds []RawCondition) ConditionCols {
	if len(conds) == 0 {
		return ConditionCols{}
	}
	c := conds[0]
	return ConditionCols{
		WeatherID:          c.ID,
		WeatherMain:        c.Main,
		WeatherDescription: c.Description,
		WeatherIcon:        c.Icon,
	}
}

// epochToUTC converts a Unix timestamp to UTC wall time, passing nil through.
func epochToUTC(epoch *int64) *time.Time {
	if epoch == nil {
		return nil
	}
	t := time.Unix(*epoch, 0).UTC()
	return &t
}
