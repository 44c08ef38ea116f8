package model

import (
	"context"
	"time"

	"github.com/lildude/stravaweb/internal/lazy"
)

const groupActivityDetails = "details"

// ActivitySource resolves the fields only the activity page carries.
type ActivitySource interface {
	GetActivityDetails(ctx context.Context, id int64) (*ActivityDetails, error)
}

// ActivityDetails is the extended data scraped from an activity page.
type ActivityDetails struct {
	Name        string
	Description string
	Type        string
	DeviceName  string
	Manual      *bool
	Photos      []Photo
}

func (d *ActivityDetails) values() lazy.Values {
	v := lazy.Values{}
	if d.DeviceName != "" {
		v["device_name"] = d.DeviceName
	}
	if d.Manual != nil {
		v["manual"] = *d.Manual
	}
	if d.Photos != nil {
		v["photos"] = d.Photos
	}
	return v
}

// Activity is an activity as listed on the training page.
type Activity struct {
	ID                 int64
	Name               string
	Description        string
	Type               string
	WorkoutType        *string
	StartDate          time.Time
	Distance           float64
	MovingTime         time.Duration
	ElapsedTime        time.Duration
	TotalElevationGain float64
	SufferScore        *int
	Calories           *float64
	GearID             string
	HasLatLng          bool
	Trainer            bool
	Commute            bool
	Private            bool
	Flagged            bool

	extra *lazy.Table
}

func (a *Activity) table() *lazy.Table {
	return table(&a.extra, bindActivity)
}

func bindActivity(t *lazy.Table) {
	t.Bind("manual", lazy.Group(groupActivityDetails)).
		Bind("device_name", lazy.Group(groupActivityDetails)).
		Bind("photos", lazy.Group(groupActivityDetails))
}

// Bind makes the activity resolve its page-only fields from src.
func (a *Activity) Bind(src ActivitySource) {
	a.table().SetLoader(func(ctx context.Context, _ string) (lazy.Values, error) {
		d, err := src.GetActivityDetails(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		return d.values(), nil
	})
}

// Merge folds page details into the activity.
func (a *Activity) Merge(d *ActivityDetails, p Policy) {
	mergeString(&a.Name, d.Name, p)
	mergeString(&a.Description, d.Description, p)
	mergeString(&a.Type, d.Type, p)

	t := a.table()
	for k, v := range d.values() {
		if p == Overwrite {
			_ = t.Set(k, v)
		} else {
			t.Fill(k, v)
		}
	}
}

func (a *Activity) Manual(ctx context.Context) (bool, error) {
	return lazy.Get[bool](ctx, a.table(), "manual")
}

func (a *Activity) DeviceName(ctx context.Context) (string, error) {
	return lazy.Get[string](ctx, a.table(), "device_name")
}

func (a *Activity) Photos(ctx context.Context) ([]Photo, error) {
	return lazy.Get[[]Photo](ctx, a.table(), "photos")
}

// TotalPhotoCount counts the photos on the activity page.
func (a *Activity) TotalPhotoCount(ctx context.Context) (int, error) {
	photos, err := a.Photos(ctx)
	return len(photos), err
}

func mergeString(dst *string, v string, p Policy) {
	if v == "" {
		return
	}
	if p == Overwrite || *dst == "" {
		*dst = v
	}
}
