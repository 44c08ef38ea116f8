package webclient

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"time"

	"github.com/lildude/stravaweb/internal/extract"
	"github.com/lildude/stravaweb/internal/mapper"
	"github.com/lildude/stravaweb/internal/model"
	"github.com/lildude/stravaweb/internal/paginate"
)

// Feed types accepted by GetFeed.
const (
	FeedFollowing  = "following"
	FeedMyActivity = "my_activity"
)

// FeedFilter selects a dashboard feed and a window of it.
type FeedFilter struct {
	// FeedType defaults to FeedFollowing.
	FeedType string
	// AthleteID defaults to the logged in athlete.
	AthleteID int64
	// Before and After bound the entries' update time, both exclusive.
	Before time.Time
	After  time.Time
}

// GetFeed returns the dashboard feed newest first.
func (c *Client) GetFeed(ctx context.Context, f FeedFilter) iter.Seq2[model.FeedEntry, error] {
	if f.FeedType == "" {
		f.FeedType = FeedFollowing
	}
	if f.AthleteID == 0 {
		f.AthleteID = c.sess.AthleteID()
	}

	cur := paginate.Cursor[model.FeedEntry, extract.FeedCursor]{
		Fetch: func(ctx context.Context, cursor *extract.FeedCursor) (paginate.Page[model.FeedEntry, extract.FeedCursor], error) {
			return c.feedPage(ctx, f, cursor)
		},
	}
	if !f.After.IsZero() {
		cur.Stop = func(e model.FeedEntry) bool { return !e.UpdatedAt.IsZero() && e.UpdatedAt.Before(f.After) }
	}
	if !f.Before.IsZero() {
		cur.Skip = func(e model.FeedEntry) bool { return e.UpdatedAt.After(f.Before) }
	}
	return cur.All(ctx)
}

func (c *Client) feedPage(ctx context.Context, f FeedFilter, cursor *extract.FeedCursor) (paginate.Page[model.FeedEntry, extract.FeedCursor], error) {
	var page paginate.Page[model.FeedEntry, extract.FeedCursor]

	q := url.Values{
		"feed_type":  {f.FeedType},
		"athlete_id": {itoa(f.AthleteID)},
	}
	switch {
	case cursor != nil:
		q.Set("before", strconv.FormatInt(cursor.UpdatedAt, 10))
		q.Set("cursor", strconv.FormatFloat(cursor.Rank, 'f', -1, 64))
	case !f.Before.IsZero():
		q.Set("before", strconv.FormatInt(f.Before.Unix(), 10))
	}

	c.log.WithField("feed_type", f.FeedType).Debug("getting page of feed")
	res, err := c.sess.GetXHR(ctx, "dashboard/feed", q)
	if err != nil {
		return page, err
	}
	fp, err := extract.Feed(res.Body)
	if err != nil {
		return page, err
	}

	page.HasMore = fp.HasMore
	if fp.Cursor != nil {
		page.Next = *fp.Cursor
	}
	page.Items = make([]model.FeedEntry, 0, len(fp.Entries))
	for _, e := range fp.Entries {
		page.Items = append(page.Items, mapper.FeedEntry(e))
	}
	return page, nil
}

// GetFollowers lists the athletes following an athlete.
func (c *Client) GetFollowers(ctx context.Context, athleteID int64) iter.Seq2[model.FollowAthlete, error] {
	return c.follows(ctx, athleteID, "followers")
}

// GetFollowing lists the athletes an athlete follows.
func (c *Client) GetFollowing(ctx context.Context, athleteID int64) iter.Seq2[model.FollowAthlete, error] {
	return c.follows(ctx, athleteID, "following")
}

func (c *Client) follows(ctx context.Context, athleteID int64, kind string) iter.Seq2[model.FollowAthlete, error] {
	if athleteID == 0 {
		athleteID = c.sess.AthleteID()
	}
	l := paginate.Links[model.FollowAthlete]{
		Start: fmt.Sprintf("/athletes/%d/follows?type=%s", athleteID, kind),
		Fetch: c.followPage,
	}
	return l.All(ctx)
}

func (c *Client) followPage(ctx context.Context, link string) ([]model.FollowAthlete, string, error) {
	// Next links may be absolute; only the path and query are kept so that
	// requests stay on the session's site.
	u, err := url.Parse(link)
	if err != nil {
		return nil, "", fmt.Errorf("parsing follow list link %q: %w", link, err)
	}

	c.log.WithField("link", u.RequestURI()).Debug("getting page of follow list")
	res, err := c.sess.Get(ctx, u.Path, u.Query())
	if err != nil {
		return nil, "", err
	}
	fp, err := extract.FollowList(res.Body)
	if err != nil {
		return nil, "", err
	}

	athletes := make([]model.FollowAthlete, 0, len(fp.Athletes))
	for _, a := range fp.Athletes {
		athletes = append(athletes, mapper.FollowAthlete(a))
	}
	next := ""
	if fp.Next != "" {
		if n, err := url.Parse(fp.Next); err == nil {
			next = n.RequestURI()
		}
	}
	return athletes, next, nil
}

// GetKudos returns who gave kudos to an activity.
func (c *Client) GetKudos(ctx context.Context, activityID int64) (*model.Kudos, error) {
	res, err := c.sess.GetXHR(ctx, fmt.Sprintf("feed/activity/%d/kudos", activityID), nil)
	if err != nil {
		return nil, err
	}
	raw, err := extract.Kudos(res.Body)
	if err != nil {
		return nil, err
	}
	return mapper.Kudos(raw)
}

// GiveKudos gives kudos to an activity.
func (c *Client) GiveKudos(ctx context.Context, activityID int64) error {
	c.log.WithField("activity_id", activityID).Info("giving kudos")
	_, err := c.sess.PostXHR(ctx, fmt.Sprintf("feed/activity/%d/kudo", activityID), url.Values{})
	return err
}

// PostComment comments on an activity.
func (c *Client) PostComment(ctx context.Context, activityID int64, text string) error {
	c.log.WithField("activity_id", activityID).Info("posting comment")
	_, err := c.sess.PostXHR(ctx, fmt.Sprintf("feed/activity/%d/comment", activityID), url.Values{"text": {text}})
	return err
}
