package model

import (
	"context"
	"strings"

	"github.com/lildude/stravaweb/internal/lazy"
)

const groupAthleteExtras = "extras"

// AthleteSource resolves an athlete's lazy fields.
type AthleteSource interface {
	GetAthleteExtras(ctx context.Context, id int64) (*AthleteExtras, error)
	GetAllBikes(ctx context.Context, athleteID int64) ([]*Bike, error)
	GetAllShoes(ctx context.Context, athleteID int64) ([]*Shoe, error)
}

// AthleteExtras is what the profile page adds to an athlete.
type AthleteExtras struct {
	Photos []Photo
	// Challenges are the ids of completed challenges.
	Challenges []int64
}

// Athlete is a Strava athlete.
type Athlete struct {
	ID            int64
	Firstname     string
	Lastname      string
	Profile       string
	ProfileMedium string
	City          string
	State         string
	Country       string
	Sex           string
	Location      *LatLng

	extra *lazy.Table
}

func (a *Athlete) table() *lazy.Table {
	return table(&a.extra, a.bind)
}

func (a *Athlete) bind(t *lazy.Table) {
	t.Bind("name", lazy.Property(func(context.Context) (any, error) {
		return strings.TrimSpace(a.Firstname + " " + a.Lastname), nil
	})).
		Bind("photos", lazy.Group(groupAthleteExtras)).
		Bind("challenges", lazy.Group(groupAthleteExtras))
}

// Bind makes the athlete resolve gear and profile extras from src.
func (a *Athlete) Bind(src AthleteSource) {
	t := a.table()
	t.SetLoader(func(ctx context.Context, _ string) (lazy.Values, error) {
		x, err := src.GetAthleteExtras(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		return lazy.Values{"photos": x.Photos, "challenges": x.Challenges}, nil
	})
	t.Bind("bikes", lazy.Func(func(ctx context.Context) (any, error) {
		return src.GetAllBikes(ctx, a.ID)
	}))
	t.Bind("shoes", lazy.Func(func(ctx context.Context) (any, error) {
		return src.GetAllShoes(ctx, a.ID)
	}))
}

// Name is "first last", recomputed on every call.
func (a *Athlete) Name() string {
	name, _ := lazy.Get[string](context.Background(), a.table(), "name")
	return name
}

func (a *Athlete) Bikes(ctx context.Context) ([]*Bike, error) {
	return lazy.Get[[]*Bike](ctx, a.table(), "bikes")
}

func (a *Athlete) Shoes(ctx context.Context) ([]*Shoe, error) {
	return lazy.Get[[]*Shoe](ctx, a.table(), "shoes")
}

func (a *Athlete) Photos(ctx context.Context) ([]Photo, error) {
	return lazy.Get[[]Photo](ctx, a.table(), "photos")
}

func (a *Athlete) Challenges(ctx context.Context) ([]int64, error) {
	return lazy.Get[[]int64](ctx, a.table(), "challenges")
}

// SetGear stores the athlete's gear. Stub lists from a public profile are set
// this way, even when empty, so the resolvers never run for that athlete.
func (a *Athlete) SetGear(bikes []*Bike, shoes []*Shoe) {
	t := a.table()
	if bikes == nil {
		bikes = []*Bike{}
	}
	if shoes == nil {
		shoes = []*Shoe{}
	}
	_ = t.Set("bikes", bikes)
	_ = t.Set("shoes", shoes)
}

// SetExtras stores extras scraped together with the athlete.
func (a *Athlete) SetExtras(x *AthleteExtras) {
	t := a.table()
	if x.Photos != nil {
		_ = t.Set("photos", x.Photos)
	}
	if x.Challenges != nil {
		_ = t.Set("challenges", x.Challenges)
	}
}
