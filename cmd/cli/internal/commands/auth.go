package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/saajha/bloodlink/cmd/cli/internal/credentials"
	"github.com/saajha/bloodlink/internal/models"
	"github.com/saajha/bloodlink/internal/portal"
)

// HomeCmd shows the landing page.
type HomeCmd struct{}

func (h *HomeCmd) Run(ctx context.Context, globals *Globals) error {
	return run(ctx, globals, portal.LandingPath, nil)
}

// LoginCmd signs in and stores the session token.
type LoginCmd struct {
	Email    string `help:"Account email" env:"BLOODLINK_EMAIL"`
	Password string `help:"Account password" env:"BLOODLINK_PASSWORD"`
	Next     string `help:"Page to open after signing in" default:"/dashboard"`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	page := &portal.LoginPage{
		Credentials: models.Credentials{Email: l.Email, Password: l.Password},
		Next:        l.Next,
	}
	return run(ctx, globals, portal.LoginPath, page)
}

// RegisterCmd creates an account and signs in with it.
type RegisterCmd struct {
	Email     string `help:"Account email" required:""`
	Password  string `help:"Account password" required:"" env:"BLOODLINK_PASSWORD"`
	FullName  string `help:"Full name" required:""`
	Role      string `help:"Account role" enum:"donor,beneficiary,medical_facility" default:"donor"`
	BloodType string `help:"Blood type, required for donors"`
	Phone     string `help:"Phone number"`
	Location  string `help:"Address or area"`
	City      string `help:"City"`
	State     string `help:"State"`
	Next      string `help:"Page to open after registering" default:"/dashboard"`
}

func (r *RegisterCmd) Run(ctx context.Context, globals *Globals) error {
	page := &portal.RegisterPage{
		Registration: &models.Registration{
			Email:     r.Email,
			Password:  r.Password,
			FullName:  r.FullName,
			Role:      r.Role,
			BloodType: optional(r.BloodType),
			Phone:     optional(r.Phone),
			Location:  optional(r.Location),
			City:      optional(r.City),
			State:     optional(r.State),
		},
		Next: r.Next,
	}
	return run(ctx, globals, portal.RegisterPath, page)
}

// LogoutCmd forgets the stored session.
type LogoutCmd struct{}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.start(ctx)
	if err != nil {
		return err
	}
	a.session.Logout()
	return nil
}

// StatusCmd reports the session state.
type StatusCmd struct{}

func (s *StatusCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.start(ctx)
	if err != nil {
		return err
	}

	snap := a.session.Current()
	if !snap.Authenticated() {
		fmt.Fprintln(a.out, "Not signed in.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "To sign in:")
		fmt.Fprintln(a.out, "  bloodlink login --email <email> --password <password>")
		return nil
	}

	fmt.Fprintf(a.out, "Signed in as %s <%s>\n", snap.User.FullName, snap.User.Email)
	fmt.Fprintf(a.out, "Role:    %s\n", snap.User.Role)
	fmt.Fprintf(a.out, "Session: %s\n", a.store.Path())

	info, err := credentials.InspectToken(snap.Token)
	if err != nil {
		log.Debug().Err(err).Msg("failed to decode token claims")
		return nil
	}
	if !info.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "Expires: %s\n", info.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

// DashboardCmd shows the dashboard.
type DashboardCmd struct{}

func (d *DashboardCmd) Run(ctx context.Context, globals *Globals) error {
	return run(ctx, globals, portal.DashboardPath, nil)
}

// ProfileCmd shows the signed-in user's profile.
type ProfileCmd struct{}

func (p *ProfileCmd) Run(ctx context.Context, globals *Globals) error {
	return run(ctx, globals, portal.ProfilePath, nil)
}

// OpenCmd opens any portal route by path.
type OpenCmd struct {
	Path string `arg:"" optional:"" help:"Route path, e.g. /dashboard" default:"/"`
}

func (o *OpenCmd) Run(ctx context.Context, globals *Globals) error {
	return run(ctx, globals, o.Path, nil)
}
