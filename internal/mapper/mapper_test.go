package mapper

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/lildude/stravaweb/internal/extract"
	"github.com/lildude/stravaweb/internal/model"
	"github.com/lildude/stravaweb/internal/weberr"
)

func TestRename(t *testing.T) {
	upper := func(v any) any { return v.(string) + "!" }

	tests := []struct {
		name   string
		in     extract.Fields
		policy model.Policy
		fn     func(any) any
		want   extract.Fields
	}{
		{"moves", extract.Fields{"a": "x"}, model.Overwrite, nil, extract.Fields{"b": "x"}},
		{"overwrites", extract.Fields{"a": "x", "b": "y"}, model.Overwrite, nil, extract.Fields{"b": "x"}},
		{"fill keeps existing", extract.Fields{"a": "x", "b": "y"}, model.FillMissing, nil, extract.Fields{"a": "x", "b": "y"}},
		{"fill replaces falsy", extract.Fields{"a": "x", "b": ""}, model.FillMissing, nil, extract.Fields{"b": "x"}},
		{"missing source", extract.Fields{"b": "y"}, model.Overwrite, nil, extract.Fields{"b": "y"}},
		{"nil source dropped", extract.Fields{"a": nil}, model.Overwrite, nil, extract.Fields{}},
		{"fn applied", extract.Fields{"a": "x"}, model.Overwrite, upper, extract.Fields{"b": "x!"}},
		{"fn nil result", extract.Fields{"a": "x"}, model.Overwrite, func(any) any { return nil }, extract.Fields{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			Rename(tc.in, "a", "b", tc.policy, tc.fn)
			if diff := cmp.Diff(tc.want, tc.in); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDistance(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12.3 mi", 12.3 * MetersPerMile},
		{"5 km", 5000},
		{"5", 5000},
		{"1,234.5 km", 1234500},
		{"0.5mi", 0.5 * MetersPerMile},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDistance(tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tc.want) > 0.001 {
				t.Errorf("expected %f, got %f", tc.want, got)
			}
		})
	}

	got, _ := ParseDistance("12.3 mi")
	if int(got) != 19794 {
		t.Errorf("expected 19794 whole meters, got %d", int(got))
	}
	if _, err := ParseDistance("far"); err == nil {
		t.Error("expected error for non-numeric distance")
	}
}

func TestParseComponentDate(t *testing.T) {
	got := ParseComponentDate("Mar 04, 2019")
	if got == nil || !got.Equal(time.Date(2019, time.March, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", got)
	}

	epoch := ParseComponentDate("Since Beginning")
	if epoch == nil || epoch.Unix() != 0 {
		t.Errorf("expected epoch sentinel, got %v", epoch)
	}

	for _, s := range []string{"", "  ", "someday"} {
		if d := ParseComponentDate(s); d != nil {
			t.Errorf("expected nil for %q, got %v", s, d)
		}
	}
}

func TestDecodeUnicodeEscapes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`plain`, "plain"},
		{`caf\u00e9`, "café"},
		{`line\nbreak`, "line\nbreak"},
		{`summit \ud83c\udfd4`, "summit \U0001F3D4"},
		{`quote \"x\"`, `quote "x"`},
	}
	for _, tc := range tests {
		if got := DecodeUnicodeEscapes(tc.in); got != tc.want {
			t.Errorf("DecodeUnicodeEscapes(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWorkoutTypes(t *testing.T) {
	race := DecodeWorkoutType("Ride", float64(11))
	if race == nil || *race != "Race" {
		t.Errorf("expected Race, got %v", race)
	}
	if got := DecodeWorkoutType("Ride", float64(99)); got != nil {
		t.Errorf("expected nil for unknown integer, got %v", *got)
	}
	if got := DecodeWorkoutType("Ride", float64(10)); got != nil {
		t.Errorf("expected nil for default workout, got %v", *got)
	}
	if got := DecodeWorkoutType("Swim", float64(1)); got != nil {
		t.Errorf("expected nil for Swim, got %v", *got)
	}
	if got := DecodeWorkoutType("Run", nil); got != nil {
		t.Errorf("expected nil for absent value, got %v", *got)
	}

	longRun := "Long Run"
	n, err := EncodeWorkoutType("Run", &longRun)
	if err != nil || n != 2 {
		t.Errorf("expected 2, got %d (%v)", n, err)
	}
	n, _ = EncodeWorkoutType("Ride", nil)
	if n != 10 {
		t.Errorf("expected default ride 10, got %d", n)
	}
	bogus := "Tempo"
	if _, err := EncodeWorkoutType("Run", &bogus); !errors.Is(err, &weberr.ValidationError{Field: "workout_type"}) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := EncodeWorkoutType("Swim", nil); err == nil {
		t.Error("expected error for activity type without workout types")
	}
	if !ValidActivityType("VirtualRide") || ValidActivityType("Flying") {
		t.Error("unexpected activity type validation")
	}
}

func TestActivity(t *testing.T) {
	raw := extract.Fields{
		"id":                 float64(123456),
		"name":               "Morning Ride",
		"type":               "Ride",
		"workout_type":       float64(11),
		"start_date":         "Tue, 2/4/2020",
		"start_time":         "2020-02-04T17:36:07+0000",
		"distance":           "15.5",
		"distance_raw":       24947.6,
		"moving_time":        "1:00:17",
		"moving_time_raw":    float64(3617),
		"elapsed_time_raw":   float64(3700),
		"elevation_gain_raw": 71.9,
		"bike_id":            float64(987),
		"suffer_score":       float64(42),
		"trainer":            false,
		"commute":            true,
		"private":            false,
		"has_latlng":         true,
	}

	a, err := Activity(raw)
	if err != nil {
		t.Fatal(err)
	}

	if a.ID != 123456 || a.Name != "Morning Ride" || a.GearID != "b987" {
		t.Errorf("unexpected identity %+v", a)
	}
	if a.WorkoutType == nil || *a.WorkoutType != "Race" {
		t.Errorf("expected workout type Race, got %v", a.WorkoutType)
	}
	if a.Distance != 24947.6 || a.TotalElevationGain != 71.9 {
		t.Errorf("expected raw metrics, got %v %v", a.Distance, a.TotalElevationGain)
	}
	if a.MovingTime != 3617*time.Second || a.ElapsedTime != 3700*time.Second {
		t.Errorf("unexpected durations %v %v", a.MovingTime, a.ElapsedTime)
	}
	if !a.StartDate.Equal(time.Date(2020, 2, 4, 17, 36, 7, 0, time.UTC)) {
		t.Errorf("unexpected start date %v", a.StartDate)
	}
	if a.SufferScore == nil || *a.SufferScore != 42 || a.Calories != nil {
		t.Errorf("unexpected optional metrics %v %v", a.SufferScore, a.Calories)
	}
	if !a.Commute || !a.HasLatLng || a.Trainer {
		t.Errorf("unexpected flags %+v", a)
	}
	if _, ok := raw["bike_id"]; !ok {
		t.Error("mapping must not modify the extractor result")
	}

	shoe, _ := Activity(extract.Fields{"id": float64(1), "type": "Run", "athlete_gear_id": float64(55)})
	if shoe.GearID != "g55" {
		t.Errorf("expected g55, got %q", shoe.GearID)
	}
}

func TestPhoto(t *testing.T) {
	p := Photo(extract.Fields{
		"photo_id":        "abc-123",
		"owner_id":        float64(7),
		"activity_id":     float64(99),
		"caption_escaped": `Caf\u00e9 stop`,
		"lat":             51.5,
		"lng":             -0.12,
		"dimensions": map[string]any{
			"thumbnail": map[string]any{"width": float64(100), "height": float64(75)},
			"large":     map[string]any{"width": float64(1024), "height": float64(768)},
		},
		"thumbnail": "https://example.com/t.jpg",
		"large":     "https://example.com/l.jpg",
	})

	want := model.Photo{
		UniqueID:   "abc-123",
		ActivityID: 99,
		AthleteID:  7,
		Caption:    "Café stop",
		Location:   &model.LatLng{Lat: 51.5, Lng: -0.12},
		URLs:       map[string]string{"75": "https://example.com/t.jpg", "768": "https://example.com/l.jpg"},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("photo mismatch (-want +got):\n%s", diff)
	}
}

func TestBikeDetails(t *testing.T) {
	d, err := BikeDetails(extract.Fields{
		"frame_type": "Road Bike",
		"brand_name": "Dolan",
		"model_name": "ADX",
		"weight":     "8.2 kg",
		"components": []any{
			extract.Fields{"id": "11", "type": "Chain", "brand_name": "SRAM", "model_name": "PC-1071",
				"added": "Since Beginning", "removed": "Jun 01, 2020", "distance": "1,204.6 mi"},
			extract.Fields{"id": "12", "type": "Chain", "added": "Jun 02, 2020", "removed": "", "distance": "850 km"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if d.FrameType != model.RoadBike || d.Weight != 8.2 || d.BrandName != "Dolan" {
		t.Errorf("unexpected details %+v", d)
	}
	if len(d.Components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(d.Components))
	}
	c := d.Components[0]
	if c.ID != 11 || c.Added == nil || c.Added.Unix() != 0 || c.Removed == nil {
		t.Errorf("unexpected first component %+v", c)
	}
	if c.Distance != math.Trunc(1204.6*MetersPerMile) {
		t.Errorf("unexpected distance %v", c.Distance)
	}
	if d.Components[1].Removed != nil || d.Components[1].Distance != 850000 {
		t.Errorf("unexpected second component %+v", d.Components[1])
	}

	if _, err := BikeDetails(extract.Fields{"frame_type": "Unicycle"}); !errors.Is(err, &weberr.ScrapeError{}) {
		t.Errorf("expected scrape error, got %v", err)
	}
}

func TestGearList(t *testing.T) {
	b := Bike(extract.Fields{
		"id":             float64(123),
		"display_name":   "Roadie",
		"default":        true,
		"total_distance": "1,234.5",
		"brand_name":     "Dolan",
		"frame_type":     float64(3),
	})
	if b.ID != "b123" || b.Name != "Roadie" || !b.Primary || b.Distance != 1234500 {
		t.Errorf("unexpected bike %+v", b)
	}
	ctx := context.Background()
	brand, _ := b.BrandName(ctx)
	ft, _ := b.FrameType(ctx)
	if brand != "Dolan" || ft != model.RoadBike {
		t.Errorf("unexpected eager details %q %v", brand, ft)
	}

	s := Shoe(extract.Fields{"id": float64(55), "name": "Trail", "display_name": "Other", "total_distance": "10 mi"})
	if s.ID != "g55" || s.Name != "Trail" || math.Abs(s.Distance-10*MetersPerMile) > 0.001 {
		t.Errorf("unexpected shoe %+v", s)
	}
}

func TestStubGear(t *testing.T) {
	bikes, shoes := StubGear(
		[]any{extract.Fields{"id": "b9", "name": "Commuter", "distance": "1,234.5 km"}},
		[]any{},
	)
	if len(bikes) != 1 || bikes[0].ID != "b9" || bikes[0].Distance != 1234500 {
		t.Errorf("unexpected stubs %+v", bikes)
	}
	if shoes == nil || len(shoes) != 0 {
		t.Errorf("expected empty shoe stubs, got %v", shoes)
	}

	bikes, shoes = StubGear(
		[]any{extract.Fields{"id": "b10", "name": "Tourer", "distance": "1,000 mi"}},
		[]any{extract.Fields{"id": "g3", "name": "Trail", "distance": "100 mi"}},
	)
	if len(bikes) != 1 || bikes[0].Distance != math.Trunc(1000*MetersPerMile) {
		t.Errorf("expected miles converted to meters, got %+v", bikes)
	}
	if len(shoes) != 1 || shoes[0].Distance != math.Trunc(100*MetersPerMile) {
		t.Errorf("expected miles converted to meters, got %+v", shoes)
	}
}

func TestAthlete(t *testing.T) {
	a, extras := Athlete(extract.Fields{
		"id":          float64(7),
		"first_name":  "Ada",
		"last_name":   "Lovelace",
		"photo":       "https://example.com/m.jpg",
		"photo_large": "https://example.com/l.jpg",
		"gender":      "F",
		"geo":         map[string]any{"city": "London", "country": "UK", "lat_lng": []any{51.5, -0.12}},
		"challenges":  []any{float64(1), float64(2)},
		"photos":      []any{map[string]any{"photo_id": "p"}},
	})

	want := &model.Athlete{
		ID: 7, Firstname: "Ada", Lastname: "Lovelace",
		Profile: "https://example.com/l.jpg", ProfileMedium: "https://example.com/m.jpg",
		City: "London", Country: "UK", Sex: "F",
		Location: &model.LatLng{Lat: 51.5, Lng: -0.12},
	}
	if diff := cmp.Diff(want, a, cmp.AllowUnexported(model.Athlete{})); diff != "" {
		t.Errorf("athlete mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{1, 2}, extras.Challenges); diff != "" {
		t.Errorf("challenges mismatch (-want +got):\n%s", diff)
	}
	if len(extras.Photos) != 1 || extras.Photos[0].UniqueID != "p" {
		t.Errorf("unexpected photos %+v", extras.Photos)
	}

	public, _ := Athlete(extract.Fields{"id": int64(8), "name": "Grace Brewster Hopper"})
	if public.Firstname != "Grace" || public.Lastname != "Brewster Hopper" || public.Name() != "Grace Brewster Hopper" {
		t.Errorf("unexpected name split %q %q", public.Firstname, public.Lastname)
	}
}

func TestChallenge(t *testing.T) {
	c := Challenge(extract.Fields{
		"id":          int64(5),
		"name":        "Gran Fondo",
		"description": "Ride 100 km",
		"url":         "https://example.com/badge.png",
		"share_url":   "https://www.strava.com/challenges/5",
		"start_date":  "Jan 01, 2024",
		"end_date":    "Jan 31, 2024",
	})
	if c.Overview != "Ride 100 km" || c.BadgeURL != "https://example.com/badge.png" || c.URL != "https://www.strava.com/challenges/5" {
		t.Errorf("unexpected challenge %+v", c)
	}
	if c.StartDate == nil || c.StartDate.Day() != 1 || c.EndDate == nil || c.EndDate.Day() != 31 {
		t.Errorf("unexpected dates %v %v", c.StartDate, c.EndDate)
	}
	if got := c.TrophyURL(25); got != "https://example.com/badge-25.png" {
		t.Errorf("unexpected trophy url %q", got)
	}
}

func TestKudos(t *testing.T) {
	k, err := Kudos(extract.Fields{
		"athletes":  []any{map[string]any{"id": float64(3), "name": "Bob", "is_following": true}},
		"is_owner":  true,
		"kudosable": false,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := &model.Kudos{Athletes: []model.KudosAthlete{{ID: 3, Name: "Bob", IsFollowing: true}}, IsOwner: true}
	if diff := cmp.Diff(want, k); diff != "" {
		t.Errorf("kudos mismatch (-want +got):\n%s", diff)
	}
}

func TestFeedEntry(t *testing.T) {
	e := FeedEntry(extract.Fields{
		"entity":     "Activity",
		"cursorData": map[string]any{"rank": 1.5, "updated_at": float64(1700000000)},
		"activity":   map[string]any{"id": "42", "activityName": "Lunch Run", "athlete": map[string]any{"athleteId": "7"}},
	})
	if e.Entity != "Activity" || e.ActivityID != 42 || e.AthleteID != 7 || e.Name != "Lunch Run" {
		t.Errorf("unexpected entry %+v", e)
	}
	if e.Rank != 1.5 || e.UpdatedAt.Unix() != 1700000000 {
		t.Errorf("unexpected cursor %v %v", e.Rank, e.UpdatedAt)
	}
}
