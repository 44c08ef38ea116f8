package summits

import (
	"context"
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/lildude/stravaweb/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func activities(as ...*model.Activity) iter.Seq2[*model.Activity, error] {
	return func(yield func(*model.Activity, error) bool) {
		for _, a := range as {
			if !yield(a, nil) {
				return
			}
		}
	}
}

func on(year int) time.Time {
	return time.Date(year, time.June, 1, 9, 0, 0, 0, time.UTC)
}

func TestTally(t *testing.T) {
	s, err := Tally(1, 2024, activities(
		&model.Activity{Type: "Run", TotalElevationGain: 500, StartDate: on(2024)},
		&model.Activity{Type: "Ride", TotalElevationGain: 300, StartDate: on(2024)},
		&model.Activity{Type: "TrailRun", TotalElevationGain: 200, StartDate: on(2024)},
		&model.Activity{Type: "Swim", TotalElevationGain: 10, StartDate: on(2024)},
		&model.Activity{Type: "Ride", TotalElevationGain: 1500, StartDate: on(2023)},
	))
	if err != nil {
		t.Fatal(err)
	}
	if s.AthleteID != 1 || s.Year != 2024 || s.Run != 700 || s.Ride != 300 {
		t.Errorf("unexpected summit %+v", s)
	}
}

func TestTallyError(t *testing.T) {
	boom := errors.New("boom")
	seq := func(yield func(*model.Activity, error) bool) {
		yield(nil, boom)
	}
	if _, err := Tally(1, 2024, seq); !errors.Is(err, boom) {
		t.Errorf("expected listing error, got %v", err)
	}
}

func TestSaveGet(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&Summit{}); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	got, err := Get(ctx, db, 1, 2024)
	if err != nil || got != nil {
		t.Fatalf("expected no summit yet, got %+v (%v)", got, err)
	}

	tests := []struct {
		desc string
		in   Summit
	}{
		{"create", Summit{AthleteID: 1, Year: 2024, Run: 500, Ride: 300}},
		{"replace", Summit{AthleteID: 1, Year: 2024, Run: 700, Ride: 300}},
		{"other year", Summit{AthleteID: 1, Year: 2023, Ride: 1500}},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			in := tc.in
			if err := Save(ctx, db, &in); err != nil {
				t.Fatal(err)
			}
			got, err := Get(ctx, db, in.AthleteID, in.Year)
			if err != nil {
				t.Fatal(err)
			}
			if got == nil || got.Run != in.Run || got.Ride != in.Ride {
				t.Errorf("expected %+v, got %+v", in, got)
			}
		})
	}

	var n int64
	db.Model(&Summit{}).Count(&n)
	if n != 2 {
		t.Errorf("expected one row per athlete and year, got %d", n)
	}
}
