package model

import (
	"fmt"
	"strings"
	"time"
)

// Photo is a photo attached to an activity.
type Photo struct {
	UniqueID   string
	ActivityID int64
	AthleteID  int64
	Caption    string
	Location   *LatLng
	// URLs maps the smaller image dimension, as a string, to the image URL.
	URLs map[string]string
}

// Challenge is a Strava challenge.
type Challenge struct {
	ID        int64
	URL       string
	Name      string
	Subtitle  string
	Teaser    string
	Overview  string
	BadgeURL  string
	StartDate *time.Time
	EndDate   *time.Time
}

// TrophyURL returns the badge image for a completion percentage. The site
// serves one image per step as "<name>-<pct>.<ext>".
func (c *Challenge) TrophyURL(pct int) string {
	if c.BadgeURL == "" {
		return ""
	}
	i := strings.LastIndex(c.BadgeURL, ".")
	if i < 0 || strings.Contains(c.BadgeURL[i:], "/") {
		return fmt.Sprintf("%s-%d", c.BadgeURL, pct)
	}
	return fmt.Sprintf("%s-%d%s", c.BadgeURL[:i], pct, c.BadgeURL[i:])
}
