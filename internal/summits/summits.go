// Package summits totals the elevation an athlete climbed per year and keeps
// the totals in a database.
package summits

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/lildude/stravaweb/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Summit is the yearly climbing total of one athlete, in meters.
type Summit struct {
	gorm.Model
	AthleteID int64 `gorm:"uniqueIndex:idx_summit_athlete_year"`
	Year      int   `gorm:"uniqueIndex:idx_summit_athlete_year"`
	Run       float64
	Ride      float64
}

// Add counts one activity towards the total. Types other than runs and rides
// are ignored.
func (s *Summit) Add(a *model.Activity) {
	switch a.Type {
	case "Run", "VirtualRun", "TrailRun":
		s.Run += a.TotalElevationGain
	case "Ride", "VirtualRide", "EBikeRide", "GravelRide", "MountainBikeRide":
		s.Ride += a.TotalElevationGain
	}
}

// Tally sums the activities of seq that started in year. seq is expected to
// be newest first, like the training page listing, and is consumed in full.
func Tally(athleteID int64, year int, seq iter.Seq2[*model.Activity, error]) (*Summit, error) {
	s := &Summit{AthleteID: athleteID, Year: year}
	for a, err := range seq {
		if err != nil {
			return nil, fmt.Errorf("listing activities: %w", err)
		}
		if a.StartDate.Year() != year {
			continue
		}
		s.Add(a)
	}
	return s, nil
}

// Save stores s, replacing any total already stored for the same athlete and
// year.
func Save(ctx context.Context, db *gorm.DB, s *Summit) error {
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "athlete_id"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{"run", "ride", "updated_at"}),
	}).Create(s).Error
	if err != nil {
		return fmt.Errorf("saving summit %d/%d: %w", s.AthleteID, s.Year, err)
	}
	return nil
}

// Get returns the stored total, or nil when there is none.
func Get(ctx context.Context, db *gorm.DB, athleteID int64, year int) (*Summit, error) {
	var s Summit
	err := db.WithContext(ctx).Where("athlete_id = ? AND year = ?", athleteID, year).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting summit %d/%d: %w", athleteID, year, err)
	}
	return &s, nil
}
