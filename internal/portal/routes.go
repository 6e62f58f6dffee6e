// Package portal maps the portal's pages to routes and renders them as
// terminal views. Every route is checked against the session before its
// view is built.
package portal

import "github.com/saajha/bloodlink/internal/session"

// Route paths.
const (
	LandingPath           = "/"
	LoginPath             = session.LoginPath
	RegisterPath          = "/register"
	DashboardPath         = session.DashboardPath
	BloodRequestsPath     = "/blood-requests"
	CreateRequestPath     = "/create-request"
	MedicalFacilitiesPath = "/medical-facilities"
	DonationHistoryPath   = "/donation-history"
	ProfilePath           = "/profile"
)

// Route is one entry in the route table.
type Route struct {
	Path  string
	Title string
	Kind  session.RouteKind
}

// Routes is the route table in menu order.
var Routes = []Route{
	{Path: LandingPath, Title: "Home", Kind: session.Public},
	{Path: LoginPath, Title: "Login", Kind: session.AnonymousOnly},
	{Path: RegisterPath, Title: "Register", Kind: session.AnonymousOnly},
	{Path: DashboardPath, Title: "Dashboard", Kind: session.AuthenticatedOnly},
	{Path: BloodRequestsPath, Title: "Blood Requests", Kind: session.AuthenticatedOnly},
	{Path: CreateRequestPath, Title: "Create Request", Kind: session.AuthenticatedOnly},
	{Path: MedicalFacilitiesPath, Title: "Medical Facilities", Kind: session.AuthenticatedOnly},
	{Path: DonationHistoryPath, Title: "Donation History", Kind: session.AuthenticatedOnly},
	{Path: ProfilePath, Title: "Profile", Kind: session.AuthenticatedOnly},
}

// Lookup finds the route for path.
func Lookup(path string) (Route, bool) {
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}
