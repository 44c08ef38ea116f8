package mapper

import (
	"time"

	"github.com/lildude/stravaweb/internal/extract"
	"github.com/lildude/stravaweb/internal/model"
)

// Activity maps one record of the training activities list.
func Activity(raw extract.Fields) (*model.Activity, error) {
	d := clone(raw)

	// Only one of these is set on a record.
	Rename(d, "bike_id", "gear_id", model.Overwrite, prefixed("b"))
	Rename(d, "athlete_gear_id", "gear_id", model.Overwrite, prefixed("g"))

	Rename(d, "start_time", "start_date", model.Overwrite, nil)
	Rename(d, "distance_raw", "distance", model.Overwrite, nil)
	Rename(d, "moving_time_raw", "moving_time", model.Overwrite, nil)
	Rename(d, "elapsed_time_raw", "elapsed_time", model.Overwrite, nil)
	Rename(d, "elevation_gain_raw", "total_elevation_gain", model.Overwrite, nil)

	a := &model.Activity{
		ID:                 integer(d, "id"),
		Name:               str(d, "name"),
		Description:        str(d, "description"),
		Type:               str(d, "type"),
		WorkoutType:        DecodeWorkoutType(str(d, "type"), d["workout_type"]),
		Distance:           number(d, "distance"),
		MovingTime:         seconds(d, "moving_time"),
		ElapsedTime:        seconds(d, "elapsed_time"),
		TotalElevationGain: number(d, "total_elevation_gain"),
		GearID:             str(d, "gear_id"),
		HasLatLng:          boolean(d, "has_latlng"),
		Trainer:            boolean(d, "trainer"),
		Commute:            boolean(d, "commute"),
		Private:            boolean(d, "private"),
		Flagged:            boolean(d, "flagged"),
	}
	if v, ok := d["suffer_score"].(float64); ok {
		s := int(v)
		a.SufferScore = &s
	}
	if v, ok := d["calories"].(float64); ok {
		a.Calories = &v
	}
	if v, ok := d["start_date"]; ok && v != nil {
		ts, err := parseTimestamp(v)
		if err != nil {
			return nil, err
		}
		a.StartDate = ts
	}
	return a, nil
}

func seconds(d extract.Fields, k string) time.Duration {
	return time.Duration(number(d, k) * float64(time.Second))
}

// ActivityDetails maps the activity page extraction.
func ActivityDetails(raw extract.Fields) *model.ActivityDetails {
	d := clone(raw)
	details := &model.ActivityDetails{
		Name:        str(d, "name"),
		Description: str(d, "description"),
		Type:        str(d, "type"),
		DeviceName:  str(d, "device_name"),
	}
	if m, ok := d["manual"].(bool); ok {
		details.Manual = &m
	}
	if photos, ok := d["photos"].([]any); ok {
		details.Photos = Photos(photos)
	}
	return details
}

// Photos maps a photosJson array. Entries that aren't objects are skipped.
func Photos(raw []any) []model.Photo {
	photos := make([]model.Photo, 0, len(raw))
	for _, r := range raw {
		if p, ok := asFields(r); ok {
			photos = append(photos, Photo(p))
		}
	}
	return photos
}

// Photo maps one photo object.
func Photo(raw extract.Fields) model.Photo {
	d := clone(raw)
	Rename(d, "photo_id", "unique_id", model.Overwrite, nil)
	Rename(d, "owner_id", "athlete_id", model.Overwrite, nil)
	Rename(d, "caption_escaped", "caption", model.Overwrite, func(v any) any {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		return DecodeUnicodeEscapes(s)
	})

	p := model.Photo{
		UniqueID:   str(d, "unique_id"),
		ActivityID: integer(d, "activity_id"),
		AthleteID:  integer(d, "athlete_id"),
		Caption:    str(d, "caption"),
	}

	// Each dimensions entry names a sibling key holding that size's URL.
	if dims, ok := asFields(d["dimensions"]); ok {
		p.URLs = map[string]string{}
		for name, dim := range dims {
			size, ok := asFields(dim)
			if !ok {
				continue
			}
			var smallest float64
			first := true
			for _, v := range size {
				if n, ok := v.(float64); ok && (first || n < smallest) {
					smallest, first = n, false
				}
			}
			if first {
				continue
			}
			if u := str(d, name); u != "" {
				p.URLs[idString(smallest)] = u
			}
		}
	}

	lat, okLat := d["lat"].(float64)
	lng, okLng := d["lng"].(float64)
	if okLat && okLng {
		p.Location = &model.LatLng{Lat: lat, Lng: lng}
	}
	return p
}
