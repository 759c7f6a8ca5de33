package probe

import (
	"context"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

// Context reports the current user and host name.
type Context struct{}

func (Context) Name() string { return "context" }

// Collect returns nil when either the user or the host name cannot be determined.
func (Context) Collect(_ context.Context, env Env) (*models.Context, error) {
	user := env.Sys.OSGetenv("USER")
	if user == "" {
		user = env.Sys.OSGetenv("USERNAME")
	}
	if user == "" {
		if u, err := env.Sys.UserCurrent(); err == nil {
			user = u.Username
		}
	}

	host := readOptional(env.Sys, "/etc/hostname")
	if host == "" {
		if h, err := env.Sys.OSHostname(); err == nil {
			host = h
		}
	}

	if user == "" || host == "" {
		return nil, nil
	}
	return &models.Context{User: user, Host: host}, nil
}

func (Context) Project(rec *models.Context, ns *namespace.Table) error {
	_, err := ns.Record("context",
		namespace.F("user", rec.User),
		namespace.F("host", rec.Host),
	)
	return err
}
