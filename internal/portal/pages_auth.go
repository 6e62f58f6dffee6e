package portal

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/saajha/bloodlink/internal/client"
	"github.com/saajha/bloodlink/internal/models"
)

// RegistrationSuccessMessage follows the welcome toast after sign up.
const RegistrationSuccessMessage = "Registration successful!"

// LandingPage is the public home page.
type LandingPage struct{}

func (p *LandingPage) Render(ctx context.Context, v *View) error {
	heading(v.Out, "NGO SAAJHA · Blood Donation Portal")
	fmt.Fprintln(v.Out, "Connecting donors, beneficiaries and medical facilities to save lives.")
	fmt.Fprintln(v.Out)

	stats, err := v.API.Stats(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("failed to fetch stats")
	} else {
		fmt.Fprintf(v.Out, "%d donors · %d active requests · %d medical facilities\n\n",
			stats.TotalDonors, stats.ActiveRequests, stats.TotalFacilities)
	}

	if v.Snapshot.Authenticated() {
		fmt.Fprintf(v.Out, "Signed in as %s. Open your dashboard:\n  bloodlink dashboard\n", v.Snapshot.User.FullName)
		return nil
	}

	fmt.Fprintln(v.Out, "Get started:")
	fmt.Fprintln(v.Out, "  bloodlink register --help")
	fmt.Fprintln(v.Out, "  bloodlink login --email <email> --password <password>")
	return nil
}

// LoginPage signs in with email and password. Without credentials it shows
// how to sign in; with only one of them it fails validation.
type LoginPage struct {
	Credentials models.Credentials
	// Next is opened after a successful login.
	Next string
}

func (p *LoginPage) Render(ctx context.Context, v *View) error {
	if p.Credentials.Empty() {
		heading(v.Out, "Login")
		fmt.Fprintln(v.Out, "Enter your credentials to access your account:")
		fmt.Fprintln(v.Out, "  bloodlink login --email <email> --password <password>")
		return nil
	}

	if err := p.Credentials.Validate(); err != nil {
		v.Notifier.Error(err.Error())
		return err
	}

	resp, err := v.API.Login(ctx, p.Credentials)
	if err != nil {
		v.Notifier.Error(client.Detail(err, "Invalid credentials"))
		return err
	}

	v.Session.Login(resp.AccessToken, resp.User)
	fmt.Fprintf(v.Out, "Signed in as %s (%s)\n", resp.User.FullName, roleLabel(resp.User.Role))

	return openNext(ctx, v, p.Next)
}

// RegisterPage creates an account and signs in with it.
type RegisterPage struct {
	Registration *models.Registration
	Next         string
}

func (p *RegisterPage) Render(ctx context.Context, v *View) error {
	if p.Registration == nil {
		heading(v.Out, "Register")
		fmt.Fprintln(v.Out, "Join our community and start saving lives:")
		fmt.Fprintln(v.Out, "  bloodlink register --email <email> --password <password> --full-name <name> --role <role>")
		fmt.Fprintf(v.Out, "Roles: %s\n", strings.Join(models.RegistrationRoles, ", "))
		fmt.Fprintf(v.Out, "Blood types: %s\n", strings.Join(models.BloodTypes, ", "))
		return nil
	}

	if err := p.Registration.Validate(); err != nil {
		v.Notifier.Error(err.Error())
		return err
	}

	resp, err := v.API.Register(ctx, *p.Registration)
	if err != nil {
		v.Notifier.Error(client.Detail(err, "Registration failed"))
		return err
	}

	v.Session.Login(resp.AccessToken, resp.User)
	v.Notifier.Success(RegistrationSuccessMessage)
	fmt.Fprintf(v.Out, "Signed in as %s (%s)\n", resp.User.FullName, roleLabel(resp.User.Role))

	return openNext(ctx, v, p.Next)
}

func openNext(ctx context.Context, v *View, next string) error {
	if next == "" {
		return nil
	}
	fmt.Fprintln(v.Out)
	_, err := v.Navigate(ctx, next, nil)
	return err
}

// ProfilePage shows the signed-in user's record.
type ProfilePage struct{}

func (p *ProfilePage) Render(ctx context.Context, v *View) error {
	u := v.Snapshot.User
	heading(v.Out, "Profile")

	tw := newTable(v.Out, "FIELD", "VALUE")
	row(tw, "Name", u.FullName)
	row(tw, "Email", u.Email)
	row(tw, "Role", roleLabel(u.Role))
	row(tw, "Blood type", opt(u.BloodType))
	row(tw, "Phone", opt(u.Phone))
	row(tw, "Location", opt(u.Location))
	row(tw, "City", opt(u.City))
	row(tw, "State", opt(u.State))
	if u.IsDonor() {
		available := "yes"
		if u.AvailableToDonate != nil && !*u.AvailableToDonate {
			available = "no"
		}
		row(tw, "Available to donate", available)
	}
	row(tw, "Member since", when(u.CreatedAt))
	return tw.Flush()
}
