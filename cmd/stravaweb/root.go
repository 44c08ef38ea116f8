package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/lildude/stravaweb/internal/cache"
	"github.com/lildude/stravaweb/internal/client"
	"github.com/lildude/stravaweb/internal/config"
	"github.com/lildude/stravaweb/internal/logger"
	"github.com/lildude/stravaweb/internal/session"
	"github.com/lildude/stravaweb/internal/strava"
	"github.com/lildude/stravaweb/internal/webclient"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfg   *config.Config
	log   *logrus.Logger
	web   *webclient.Client
	store *cache.SessionStore
	redis *cache.RedisCache
)

var rootCmd = &cobra.Command{
	Use:   "stravaweb",
	Short: "Strava website data the REST API does not expose",
	Long: "Logs in to the Strava website with a remember token or email and password, " +
		"then scrapes activities, gear, athletes, challenges and the social feed.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		log = logger.NewLogger(cfg.Log.Level)
		log.SetOutput(cmd.ErrOrStderr())

		return login(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		defer closeCache()
		return saveArtifacts(cmd.Context())
	},
}

// login authenticates a session, resuming from cached artifacts when there
// are any, and builds the scraping client on top of it.
func login(ctx context.Context) error {
	closeCache()

	opts := session.Options{
		BaseURL: cfg.BaseURL,
		CSRF:    cfg.CSRF(),
		Logger:  log,
	}
	creds := session.Credentials{
		Token:    cfg.Token,
		Email:    cfg.Email,
		Password: cfg.Password,
	}

	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to session cache: %w", err)
		}
		redis = rc
		store = cache.NewSessionStore(rc)

		if creds.Token == "" && creds.Email != "" {
			a, err := store.Load(ctx, creds.Email)
			if err != nil {
				log.WithError(err).Warn("ignoring unreadable cached session")
			} else if a != nil {
				log.WithField("athlete_id", a.AthleteID).Debug("resuming cached session")
				creds.Token = a.Token
				if opts.CSRF == nil {
					opts.CSRF = a.CSRF()
				}
			}
		}
	}

	sess, err := session.New(opts)
	if err != nil {
		return err
	}

	var api *client.Client
	var src session.IdentitySource
	if cfg.APIToken != "" {
		api, err = strava.NewClient(ctx, cfg.APIBaseURL, cfg.APIToken)
		if err != nil {
			return err
		}
		src = strava.Identity{Client: api}
	}

	if err := sess.Authenticate(ctx, creds, src); err != nil {
		return fmt.Errorf("log in: %w", err)
	}

	web = webclient.New(sess, webclient.Options{API: api, Logger: log})
	return nil
}

// cacheUser is the key session artifacts are stored under.
func cacheUser(sess *session.Session) string {
	if cfg.Email != "" {
		return cfg.Email
	}
	return strconv.FormatInt(sess.AthleteID(), 10)
}

func saveArtifacts(ctx context.Context) error {
	if store == nil || web == nil {
		return nil
	}
	sess := web.Session()
	a := &cache.Artifacts{
		AthleteID: sess.AthleteID(),
		Token:     sess.Token(),
		Expires:   sess.TokenExpiry(),
	}
	for param, token := range sess.CSRFPair() {
		a.CSRFParam, a.CSRFToken = param, token
	}
	if err := store.Save(ctx, cacheUser(sess), a); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func closeCache() {
	if redis == nil {
		return
	}
	if err := redis.Close(); err != nil {
		log.WithError(err).Warn("closing session cache")
	}
	redis, store = nil, nil
}
