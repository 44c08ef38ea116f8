package model

import (
	"context"
	"strings"
	"time"

	"github.com/lildude/stravaweb/internal/lazy"
)

const groupBikeDetails = "details"

// Gear is either a *Bike or a *Shoe.
type Gear interface {
	GearID() string
	GearName() string
}

// IsBikeID reports whether a gear id names a bike. Bike ids start with "b",
// everything else is a shoe or other gear.
func IsBikeID(id string) bool {
	return strings.HasPrefix(id, "b")
}

// Shoe is a pair of shoes or any other non-bike gear.
type Shoe struct {
	ID          string
	Name        string
	Distance    float64
	Primary     bool
	BrandName   string
	ModelName   string
	Description string
}

func (s *Shoe) GearID() string   { return s.ID }
func (s *Shoe) GearName() string { return s.Name }

// BikeSource resolves the fields only the bike page carries.
type BikeSource interface {
	GetBikeDetails(ctx context.Context, id string) (*BikeDetails, error)
}

// BikeDetails is the extended data of a bike. Zero fields are unknown.
type BikeDetails struct {
	FrameType   FrameType
	BrandName   string
	ModelName   string
	Description string
	Weight      float64
	Components  []Component
}

func (d *BikeDetails) values() lazy.Values {
	v := lazy.Values{}
	if d.FrameType != FrameUnknown {
		v["frame_type"] = d.FrameType
	}
	if d.BrandName != "" {
		v["brand_name"] = d.BrandName
	}
	if d.ModelName != "" {
		v["model_name"] = d.ModelName
	}
	if d.Description != "" {
		v["description"] = d.Description
	}
	if d.Weight != 0 {
		v["weight"] = d.Weight
	}
	if d.Components != nil {
		v["components"] = d.Components
	}
	return v
}

// Bike is a bike. Everything beyond identity, name and distance may need the
// bike page and is read through accessors.
type Bike struct {
	ID       string
	Name     string
	Distance float64
	Primary  bool

	extra *lazy.Table
}

func (b *Bike) GearID() string   { return b.ID }
func (b *Bike) GearName() string { return b.Name }

func (b *Bike) table() *lazy.Table {
	return table(&b.extra, bindBike)
}

func bindBike(t *lazy.Table) {
	for _, f := range []string{"frame_type", "brand_name", "model_name", "description", "weight", "components"} {
		t.Bind(f, lazy.Group(groupBikeDetails))
	}
}

// Bind makes the bike resolve its missing details from src.
func (b *Bike) Bind(src BikeSource) {
	b.table().SetLoader(func(ctx context.Context, _ string) (lazy.Values, error) {
		d, err := src.GetBikeDetails(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		return d.values(), nil
	})
}

// Merge stores known details on the bike.
func (b *Bike) Merge(d *BikeDetails, p Policy) {
	t := b.table()
	for k, v := range d.values() {
		if p == Overwrite {
			_ = t.Set(k, v)
		} else {
			t.Fill(k, v)
		}
	}
}

func (b *Bike) FrameType(ctx context.Context) (FrameType, error) {
	return lazy.Get[FrameType](ctx, b.table(), "frame_type")
}

func (b *Bike) BrandName(ctx context.Context) (string, error) {
	return lazy.Get[string](ctx, b.table(), "brand_name")
}

func (b *Bike) ModelName(ctx context.Context) (string, error) {
	return lazy.Get[string](ctx, b.table(), "model_name")
}

func (b *Bike) Description(ctx context.Context) (string, error) {
	return lazy.Get[string](ctx, b.table(), "description")
}

// Weight is in kilograms.
func (b *Bike) Weight(ctx context.Context) (float64, error) {
	return lazy.Get[float64](ctx, b.table(), "weight")
}

func (b *Bike) Components(ctx context.Context) ([]Component, error) {
	return lazy.Get[[]Component](ctx, b.table(), "components")
}

// ComponentsOnDate returns the components installed on d. A zero d returns
// every component.
func (b *Bike) ComponentsOnDate(ctx context.Context, d time.Time) ([]Component, error) {
	all, err := b.Components(ctx)
	if err != nil || d.IsZero() {
		return all, err
	}
	var on []Component
	for _, c := range all {
		if c.InstalledOn(d) {
			on = append(on, c)
		}
	}
	return on, nil
}

var (
	minDate = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Component is a bike part. A nil Removed means it is still installed, a nil
// Added means the install date is unknown.
type Component struct {
	ID        int64
	Type      string
	BrandName string
	ModelName string
	Added     *time.Time
	Removed   *time.Time
	Distance  float64
}

// InstalledOn reports whether the component was on the bike on d's calendar
// day. Both ends are inclusive and time of day is ignored.
func (c Component) InstalledOn(d time.Time) bool {
	added, removed := minDate, maxDate
	if c.Added != nil {
		added = calendarDay(*c.Added)
	}
	if c.Removed != nil {
		removed = calendarDay(*c.Removed)
	}
	day := calendarDay(d)
	return !day.Before(added) && !day.After(removed)
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
