package session

// RouteKind classifies a route by who may see it.
type RouteKind int

const (
	Public RouteKind = iota
	AuthenticatedOnly
	AnonymousOnly
)

func (k RouteKind) String() string {
	switch k {
	case Public:
		return "public"
	case AuthenticatedOnly:
		return "authenticated-only"
	case AnonymousOnly:
		return "anonymous-only"
	default:
		return "unknown"
	}
}

// Paths the guard redirects to.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Outcome is what the navigator should do with a route.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
	// Loading means the session is still hydrating; render a neutral
	// indicator instead of the route.
	Loading
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	case Loading:
		return "loading"
	default:
		return "unknown"
	}
}

// Decision is the guard's verdict. Target is set only for Redirect.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Guard decides whether a route of kind may be shown in status.
func Guard(status Status, kind RouteKind) Decision {
	if kind == Public {
		return Decision{Outcome: Allow}
	}

	if status == StatusHydrating {
		return Decision{Outcome: Loading}
	}

	switch kind {
	case AuthenticatedOnly:
		if status == StatusAuthenticated {
			return Decision{Outcome: Allow}
		}
		return Decision{Outcome: Redirect, Target: LoginPath}
	case AnonymousOnly:
		if status != StatusAuthenticated {
			return Decision{Outcome: Allow}
		}
		return Decision{Outcome: Redirect, Target: DashboardPath}
	}

	// Unknown kinds are treated as protected.
	if status == StatusAuthenticated {
		return Decision{Outcome: Allow}
	}
	return Decision{Outcome: Redirect, Target: LoginPath}
}
