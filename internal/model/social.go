package model

import "time"

// KudosAthlete is one athlete in an activity's kudos list.
type KudosAthlete struct {
	AvatarURL   string `json:"avatar_url"`
	Firstname   string `json:"firstname"`
	ID          int64  `json:"id"`
	IsFollowing bool   `json:"is_following"`
	IsPrivate   bool   `json:"is_private"`
	Location    string `json:"location"`
	MemberType  string `json:"member_type"`
	Name        string `json:"name"`
	URL         string `json:"url"`
}

// Kudos is the kudos state of an activity.
type Kudos struct {
	Athletes  []KudosAthlete `json:"athletes"`
	IsOwner   bool           `json:"is_owner"`
	Kudosable bool           `json:"kudosable"`
}

// FollowAthlete is one entry of a followers or following list.
type FollowAthlete struct {
	ID        int64
	Name      string
	AvatarURL string
	Location  string
	URL       string
}

// FeedEntry is one entry of the dashboard feed. Fields keeps the raw entry
// for entity kinds that have no canonical type.
type FeedEntry struct {
	Entity     string
	ActivityID int64
	AthleteID  int64
	Name       string
	UpdatedAt  time.Time
	Rank       float64
	Fields     map[string]any
}
