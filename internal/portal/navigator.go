package portal

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/saajha/bloodlink/internal/client"
	"github.com/saajha/bloodlink/internal/session"
	"github.com/saajha/bloodlink/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const maxRedirects = 3

var (
	// ErrRouteNotFound is returned for paths missing from the route table.
	ErrRouteNotFound = errors.New("route not found")
	// ErrRedirectLoop is returned when guards keep redirecting.
	ErrRedirectLoop = errors.New("too many redirects")
)

// Page renders the content of a route.
type Page interface {
	Render(ctx context.Context, v *View) error
}

// PageFunc adapts a function to Page.
type PageFunc func(ctx context.Context, v *View) error

func (f PageFunc) Render(ctx context.Context, v *View) error { return f(ctx, v) }

// View is what a page gets to work with. It is built only after the guard
// allowed the route.
type View struct {
	Out      io.Writer
	Route    Route
	Session  *session.Manager
	Snapshot session.Snapshot
	Notifier session.Notifier
	// API is bound to the session token when the session is authenticated.
	API *client.Client

	nav *Navigator
}

// Navigate opens another route, as a page does after a successful submit.
func (v *View) Navigate(ctx context.Context, path string, page Page) (Result, error) {
	return v.nav.Open(ctx, path, page)
}

// Result describes what a navigation ended up rendering.
type Result struct {
	Requested string
	// Path is the route that was rendered, after redirects.
	Path string
	// Decision is the guard's verdict for the requested route.
	Decision  session.Decision
	Redirects []string
}

// Redirected reports whether the requested route was replaced by another.
func (r Result) Redirected() bool {
	return len(r.Redirects) > 0
}

// Loading reports whether only the loading indicator was rendered.
func (r Result) Loading() bool {
	return r.Decision.Outcome == session.Loading
}

// Navigator resolves paths to views.
type Navigator struct {
	session  *session.Manager
	api      *client.Client
	out      io.Writer
	notifier session.Notifier
}

func NewNavigator(mgr *session.Manager, api *client.Client, out io.Writer, notifier session.Notifier) *Navigator {
	return &Navigator{session: mgr, api: api, out: out, notifier: notifier}
}

// Open navigates to path and renders page there. A nil page renders the
// route's default view. When the guard redirects, page is dropped and the
// target's default view is rendered instead.
func (n *Navigator) Open(ctx context.Context, path string, page Page) (Result, error) {
	res := Result{Requested: path}

	for hops := 0; ; hops++ {
		if hops > maxRedirects {
			return res, fmt.Errorf("%w: %v", ErrRedirectLoop, res.Redirects)
		}

		route, ok := Lookup(path)
		if !ok {
			return res, fmt.Errorf("%w: %s", ErrRouteNotFound, path)
		}

		snap := n.session.Current()
		decision := session.Guard(snap.Status, route.Kind)
		if hops == 0 {
			res.Decision = decision
		}

		telemetry.GetMetrics().RouteDecisionsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("route", route.Path),
			attribute.String("outcome", decision.Outcome.String()),
		))

		switch decision.Outcome {
		case session.Loading:
			res.Path = path
			renderLoading(n.out)
			return res, nil
		case session.Redirect:
			log.Debug().
				Str("from", path).
				Str("to", decision.Target).
				Stringer("status", snap.Status).
				Msg("route redirected")

			res.Redirects = append(res.Redirects, decision.Target)
			path = decision.Target
			page = nil
			continue
		}

		if page == nil {
			page = DefaultPage(route.Path)
		}

		res.Path = path

		return res, page.Render(ctx, n.view(route, snap))
	}
}

func (n *Navigator) view(route Route, snap session.Snapshot) *View {
	api := n.api
	if snap.Authenticated() {
		api = api.WithToken(snap.Token)
	}

	return &View{
		Out:      n.out,
		Route:    route,
		Session:  n.session,
		Snapshot: snap,
		Notifier: n.notifier,
		API:      api,
		nav:      n,
	}
}

// DefaultPage returns the view shown when a route is opened without
// parameters.
func DefaultPage(path string) Page {
	switch path {
	case LoginPath:
		return &LoginPage{}
	case RegisterPath:
		return &RegisterPage{}
	case DashboardPath:
		return &DashboardPage{}
	case BloodRequestsPath:
		return &BloodRequestsPage{}
	case CreateRequestPath:
		return &CreateRequestPage{}
	case MedicalFacilitiesPath:
		return &FacilitiesPage{}
	case DonationHistoryPath:
		return &DonationHistoryPage{}
	case ProfilePath:
		return &ProfilePage{}
	default:
		return &LandingPage{}
	}
}
