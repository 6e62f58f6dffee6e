package portal

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/saajha/bloodlink/internal/models"
)

const recentRequestLimit = 5

// DashboardPage greets the user and summarises portal activity. Failures to
// load stats or recent requests leave those sections out.
type DashboardPage struct{}

func (p *DashboardPage) Render(ctx context.Context, v *View) error {
	u := v.Snapshot.User
	heading(v.Out, fmt.Sprintf("Welcome back, %s!", u.FullName))
	fmt.Fprintf(v.Out, "Role: %s\n\n", roleLabel(u.Role))

	if stats, err := v.API.Stats(ctx); err != nil {
		log.Debug().Err(err).Msg("failed to fetch stats")
	} else {
		tw := newTable(v.Out, "TOTAL DONORS", "ACTIVE REQUESTS", "FULFILLED", "FACILITIES", "USERS")
		row(tw,
			fmt.Sprint(stats.TotalDonors),
			fmt.Sprint(stats.ActiveRequests),
			fmt.Sprint(stats.FulfilledRequests),
			fmt.Sprint(stats.TotalFacilities),
			fmt.Sprint(stats.TotalUsers),
		)
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(v.Out)
	}

	requests, err := v.API.ListBloodRequests(ctx, models.BloodRequestFilter{Status: models.RequestStatusActive})
	if err != nil {
		log.Debug().Err(err).Msg("failed to fetch recent requests")
	} else {
		fmt.Fprintln(v.Out, "Recent blood requests:")
		if len(requests) == 0 {
			fmt.Fprintln(v.Out, "  No active requests at the moment.")
		} else {
			if len(requests) > recentRequestLimit {
				requests = requests[:recentRequestLimit]
			}
			tw := newTable(v.Out, "  PATIENT", "BLOOD", "UNITS", "URGENCY", "HOSPITAL", "CITY")
			for _, r := range requests {
				row(tw, "  "+truncate(r.PatientName, 24), r.BloodType, fmt.Sprint(r.UnitsNeeded), urgencyLabel(r.Urgency), truncate(r.HospitalName, 28), r.City)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
		}
		fmt.Fprintln(v.Out)
	}

	fmt.Fprintln(v.Out, "Quick actions:")
	switch {
	case u.IsDonor():
		fmt.Fprintln(v.Out, "  bloodlink requests list         find someone who needs your blood type")
		fmt.Fprintln(v.Out, "  bloodlink donations record      log a donation you made")
		fmt.Fprintln(v.Out, "  bloodlink donations list        your donation history")
	case u.IsBeneficiary():
		fmt.Fprintln(v.Out, "  bloodlink requests create       ask the community for blood")
		fmt.Fprintln(v.Out, "  bloodlink donors match          find available donors")
	default:
		fmt.Fprintln(v.Out, "  bloodlink requests list         browse active requests")
	}
	fmt.Fprintln(v.Out, "  bloodlink facilities list       medical facility directory")
	fmt.Fprintln(v.Out, "  bloodlink profile               your account")

	return nil
}
