package webclient

import (
	"context"
	"iter"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lildude/stravaweb/internal/extract"
	"github.com/lildude/stravaweb/internal/mapper"
	"github.com/lildude/stravaweb/internal/model"
	"github.com/lildude/stravaweb/internal/paginate"
	"github.com/lildude/stravaweb/internal/session"
	"github.com/lildude/stravaweb/internal/weberr"
)

const activitiesPerPage = 20

// ActivityFilter narrows GetActivities. Filters combine with AND. Zero values
// do not filter.
type ActivityFilter struct {
	Keywords     string
	ActivityType string
	// WorkoutType is a workout label such as "Race". It, and GearID, may only
	// be used together with an activity type that has workout types.
	WorkoutType *string
	Commute     bool
	Private     bool
	Indoor      bool
	GearID      string
	// Before and After bound the start date, both exclusive.
	Before time.Time
	After  time.Time
	Limit  int
}

func (f ActivityFilter) query() (url.Values, error) {
	if f.ActivityType != "" && !mapper.ValidActivityType(f.ActivityType) {
		return nil, weberr.Invalid("activity_type", "must be one of: %s", strings.Join(mapper.ActivityTypes, ", "))
	}

	q := url.Values{}
	switch {
	case mapper.HasWorkoutTypes(f.ActivityType):
		wt, err := mapper.EncodeWorkoutType(f.ActivityType, f.WorkoutType)
		if err != nil {
			return nil, err
		}
		if f.WorkoutType != nil {
			q.Set("workout_type", strconv.Itoa(wt))
		}
	case f.WorkoutType != nil:
		if _, err := mapper.EncodeWorkoutType(f.ActivityType, f.WorkoutType); err != nil {
			return nil, err
		}
	case f.GearID != "":
		return nil, weberr.Invalid("gear_id", "can only filter by gear when activity type is one of: %s",
			strings.Join(mapper.WorkoutActivityTypes(), ", "))
	}

	q.Set("search_session_id", uuid.NewString())
	q.Set("new_activity_only", "false")
	q.Set("activity_type", f.ActivityType)
	q.Set("commute", flag(f.Commute))
	q.Set("private_activities", flag(f.Private))
	q.Set("trainer", flag(f.Indoor))
	q.Set("gear", f.GearID)
	q.Set("order", "start_date_local DESC")
	if f.Keywords != "" {
		q.Set("keywords", f.Keywords)
	}
	return q, nil
}

func flag(b bool) string {
	if b {
		return "true"
	}
	return ""
}

// GetActivities lists the athlete's activities newest first. The filter is
// validated before anything is fetched, and a validation error is the only
// element of the returned sequence.
func (c *Client) GetActivities(ctx context.Context, f ActivityFilter) iter.Seq2[*model.Activity, error] {
	q, err := f.query()
	if err != nil {
		return func(yield func(*model.Activity, error) bool) { yield(nil, err) }
	}

	o := paginate.Offset[*model.Activity]{
		PerPage: activitiesPerPage,
		Limit:   f.Limit,
		Fetch: func(ctx context.Context, page, perPage int) ([]*model.Activity, error) {
			return c.activityPage(ctx, q, page, perPage)
		},
	}
	// Pages arrive newest first: anything older than After ends the listing.
	if !f.After.IsZero() {
		o.Stop = func(a *model.Activity) bool { return a.StartDate.Before(f.After) }
	}
	if !f.Before.IsZero() {
		o.Skip = func(a *model.Activity) bool { return a.StartDate.After(f.Before) }
	}
	return o.All(ctx)
}

func (c *Client) activityPage(ctx context.Context, base url.Values, page, perPage int) ([]*model.Activity, error) {
	q := url.Values{}
	for k, v := range base {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	c.log.WithField("page", page).Debug("getting page of activities")
	res, err := c.sess.GetXHR(ctx, "athlete/training_activities", q)
	if err != nil {
		return nil, err
	}
	rows, err := extract.ActivityList(res.Body)
	if err != nil {
		return nil, err
	}

	activities := make([]*model.Activity, 0, len(rows))
	for _, row := range rows {
		a, err := mapper.Activity(row)
		if err != nil {
			return nil, err
		}
		a.Bind(c)
		activities = append(activities, a)
	}
	return activities, nil
}

// GetActivity returns one activity, combining its page with its entry of the
// training list. The list is searched by the name and type found on the page.
func (c *Client) GetActivity(ctx context.Context, id int64) (*model.Activity, error) {
	d, err := c.GetActivityDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	for a, err := range c.GetActivities(ctx, ActivityFilter{Keywords: d.Name, ActivityType: d.Type}) {
		if err != nil {
			return nil, err
		}
		if a.ID == id {
			a.Merge(d, model.FillMissing)
			return a, nil
		}
	}
	return nil, weberr.Scrape(weberr.ReasonNotFound, "activity "+itoa(id)+" not in training list", nil)
}

// GetActivityDetails scrapes the activity page.
func (c *Client) GetActivityDetails(ctx context.Context, id int64) (*model.ActivityDetails, error) {
	c.log.WithField("activity_id", id).Debug("getting activity details")
	res, err := c.sess.Get(ctx, "activities/"+itoa(id), nil)
	if err != nil {
		return nil, err
	}
	raw, err := extract.ActivityDetail(res.Body, c.log.WithField("activity_id", id))
	if err != nil {
		return nil, err
	}
	return mapper.ActivityDetails(raw), nil
}

// GetActivityPhotos returns the photos shown on the activity page.
func (c *Client) GetActivityPhotos(ctx context.Context, id int64) ([]model.Photo, error) {
	d, err := c.GetActivityDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.Photos, nil
}

// DeleteActivity deletes an activity. The site confirms by redirecting to the
// training page.
func (c *Client) DeleteActivity(ctx context.Context, id int64) error {
	c.log.WithField("activity_id", id).Info("deleting activity")
	res, err := c.sess.Post(ctx, "activities/"+itoa(id), url.Values{"_method": {"delete"}})
	if err != nil {
		return err
	}
	return session.ExpectRedirect(res, "/athlete/training", "delete activity "+itoa(id))
}
