package mapper

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lildude/stravaweb/internal/extract"
	"github.com/lildude/stravaweb/internal/model"
)

// Kudos maps the kudos JSON by round-tripping it through the tagged struct.
func Kudos(raw extract.Fields) (*model.Kudos, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding kudos: %w", err)
	}
	k := &model.Kudos{}
	if err := json.Unmarshal(b, k); err != nil {
		return nil, fmt.Errorf("decoding kudos: %w", err)
	}
	if k.Athletes == nil {
		k.Athletes = []model.KudosAthlete{}
	}
	return k, nil
}

// FollowAthlete maps one follow list entry.
func FollowAthlete(d extract.Fields) model.FollowAthlete {
	return model.FollowAthlete{
		ID:        integer(d, "id"),
		Name:      str(d, "name"),
		AvatarURL: str(d, "avatar_url"),
		Location:  str(d, "location"),
		URL:       str(d, "url"),
	}
}

// FeedEntry maps one dashboard feed entry.
func FeedEntry(raw extract.Fields) model.FeedEntry {
	e := model.FeedEntry{Entity: str(raw, "entity"), Fields: raw}
	if cursor, ok := asFields(raw["cursorData"]); ok {
		e.Rank = number(cursor, "rank")
		if ts := number(cursor, "updated_at"); ts != 0 {
			e.UpdatedAt = time.Unix(int64(ts), 0).UTC()
		}
	}
	if act, ok := asFields(raw["activity"]); ok {
		e.ActivityID = integer(act, "id")
		e.Name = str(act, "activityName")
		if athlete, ok := asFields(act["athlete"]); ok {
			e.AthleteID = integer(athlete, "athleteId")
		}
	}
	return e
}
