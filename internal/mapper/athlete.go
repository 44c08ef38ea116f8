package mapper

import (
	"strings"
	"time"

	"github.com/lildude/stravaweb/internal/extract"
	"github.com/lildude/stravaweb/internal/model"
)

// Athlete maps the profile page extraction. The returned extras hold the
// photos and completed challenge ids found on the same page.
func Athlete(raw extract.Fields) (*model.Athlete, *model.AthleteExtras) {
	d := clone(raw)

	if geo, ok := asFields(d["geo"]); ok {
		for k, v := range geo {
			d[k] = v
		}
	}
	delete(d, "geo")

	Rename(d, "photo", "profile_medium", model.Overwrite, nil)
	Rename(d, "photo_large", "profile", model.Overwrite, nil)
	Rename(d, "first_name", "firstname", model.Overwrite, nil)
	Rename(d, "last_name", "lastname", model.Overwrite, nil)
	Rename(d, "gender", "sex", model.Overwrite, nil)
	Rename(d, "lat_lng", "location", model.Overwrite, nil)

	// Strava displays "<first> <last>"; split it back when the parts are missing.
	_, hasFirst := d["firstname"]
	_, hasLast := d["lastname"]
	if name := strings.TrimSpace(str(d, "name")); name != "" && !hasFirst && !hasLast {
		first, last, _ := strings.Cut(name, " ")
		d["firstname"], d["lastname"] = first, last
	}
	delete(d, "name")

	a := &model.Athlete{
		ID:            integer(d, "id"),
		Firstname:     str(d, "firstname"),
		Lastname:      str(d, "lastname"),
		Profile:       str(d, "profile"),
		ProfileMedium: str(d, "profile_medium"),
		City:          str(d, "city"),
		State:         str(d, "state"),
		Country:       str(d, "country"),
		Sex:           str(d, "sex"),
		Location:      location(d, "location"),
	}

	extras := &model.AthleteExtras{Photos: []model.Photo{}, Challenges: []int64{}}
	if photos, ok := d["photos"].([]any); ok {
		extras.Photos = Photos(photos)
	}
	if ids, ok := d["challenges"].([]any); ok {
		for _, id := range ids {
			if n, ok := id.(float64); ok {
				extras.Challenges = append(extras.Challenges, int64(n))
			}
		}
	}
	return a, extras
}

// Challenge maps a challenge page extraction.
func Challenge(raw extract.Fields) *model.Challenge {
	d := clone(raw)
	Rename(d, "description", "overview", model.Overwrite, nil)
	Rename(d, "url", "badge_url", model.Overwrite, nil)
	Rename(d, "share_url", "url", model.Overwrite, nil)

	return &model.Challenge{
		ID:        integer(d, "id"),
		URL:       str(d, "url"),
		Name:      str(d, "name"),
		Subtitle:  str(d, "subtitle"),
		Teaser:    str(d, "teaser"),
		Overview:  str(d, "overview"),
		BadgeURL:  str(d, "badge_url"),
		StartDate: challengeDate(d["start_date"]),
		EndDate:   challengeDate(d["end_date"]),
	}
}

func challengeDate(v any) *time.Time {
	switch t := v.(type) {
	case string:
		if ts := ParseComponentDate(t); ts != nil {
			return ts
		}
		if ts, err := parseTimestamp(t); err == nil {
			return &ts
		}
	case float64:
		ts, _ := parseTimestamp(t)
		return &ts
	}
	return nil
}
