package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/saajha/bloodlink/cmd/cli/internal/credentials"
	"github.com/saajha/bloodlink/internal/client"
	"github.com/saajha/bloodlink/internal/notify"
	"github.com/saajha/bloodlink/internal/portal"
	"github.com/saajha/bloodlink/internal/session"
)

// ErrLoginRequired is returned when a command needs a session and there is
// none. The login hint has already been printed.
var ErrLoginRequired = errors.New("login required")

type Globals struct {
	Debug      bool
	Version    string
	Server     string
	Timeout    time.Duration
	SessionDir string
	CacheDir   string
	NoColor    bool

	// Out and Err default to stdout and stderr.
	Out    io.Writer
	Err    io.Writer
	Logger *zerolog.Logger
}

func (g *Globals) stdout() io.Writer {
	if g.Out != nil {
		return g.Out
	}
	return os.Stdout
}

func (g *Globals) stderr() io.Writer {
	if g.Err != nil {
		return g.Err
	}
	return os.Stderr
}

// app is the per-invocation wiring: token store, API client, session and
// navigator.
type app struct {
	store   *credentials.Store
	api     *client.Client
	session *session.Manager
	nav     *portal.Navigator
	out     io.Writer
}

// start builds the app and settles the session from the stored token.
func (g *Globals) start(ctx context.Context) (*app, error) {
	store, err := credentials.NewStore(g.SessionDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	cfg := client.DefaultConfig()
	if g.Server != "" {
		cfg.ServerURL = g.Server
	}
	if g.Timeout > 0 {
		cfg.Timeout = g.Timeout
	}
	cfg.CacheDir = g.CacheDir
	cfg.Logger = g.Logger

	api, err := client.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	notifier := notify.NewConsole(g.stderr(), !g.NoColor && g.Err == nil)
	mgr := session.NewManager(store, api, notifier)
	mgr.Initialize(ctx)

	return &app{
		store:   store,
		api:     api,
		session: mgr,
		nav:     portal.NewNavigator(mgr, api, g.stdout(), notifier),
		out:     g.stdout(),
	}, nil
}

// open navigates to path. Being sent to the login page instead counts as a
// failure so scripts see a non-zero exit.
func (a *app) open(ctx context.Context, path string, page portal.Page) error {
	res, err := a.nav.Open(ctx, path, page)
	if err != nil {
		return err
	}
	if res.Redirected() && res.Path == portal.LoginPath {
		return ErrLoginRequired
	}
	return nil
}

// run is the common body of page commands.
func run(ctx context.Context, globals *Globals, path string, page portal.Page) error {
	a, err := globals.start(ctx)
	if err != nil {
		return err
	}
	return a.open(ctx, path, page)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
