// Package webclient scrapes the Strava website on top of an authenticated
// session. Entities it returns are bound back to the client, so their lazy
// fields are fetched from the site on first access.
package webclient

import (
	"strconv"

	"github.com/lildude/stravaweb/internal/client"
	"github.com/lildude/stravaweb/internal/logger"
	"github.com/lildude/stravaweb/internal/model"
	"github.com/lildude/stravaweb/internal/session"
	"github.com/sirupsen/logrus"
)

// Options configures a Client.
type Options struct {
	// API is the REST client used by the AthleteFromAPI and BikeFromAPI
	// calls. It may be nil.
	API    *client.Client
	Logger logrus.FieldLogger
}

// Client is the scraping client. Like the session it wraps, it is not safe
// for concurrent use.
type Client struct {
	sess *session.Session
	api  *client.Client
	log  logrus.FieldLogger

	bikes map[string]*model.BikeDetails
}

var (
	_ model.ActivitySource = (*Client)(nil)
	_ model.BikeSource     = (*Client)(nil)
	_ model.AthleteSource  = (*Client)(nil)
)

// New returns a client for an already authenticated session.
func New(sess *session.Session, opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		sess:  sess,
		api:   opts.API,
		log:   log.WithField("component", "webclient"),
		bikes: map[string]*model.BikeDetails{},
	}
}

// Session returns the underlying session.
func (c *Client) Session() *session.Session {
	return c.sess
}

// InvalidateBike drops the cached page details of one bike.
func (c *Client) InvalidateBike(id string) {
	delete(c.bikes, id)
}

// InvalidateAll drops every cached bike.
func (c *Client) InvalidateAll() {
	clear(c.bikes)
}

func (c *Client) isCurrent(athleteID int64) bool {
	return athleteID == 0 || athleteID == c.sess.AthleteID()
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
