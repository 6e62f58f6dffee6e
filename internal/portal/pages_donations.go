package portal

import (
	"context"
	"errors"
	"fmt"

	"github.com/saajha/bloodlink/internal/client"
	"github.com/saajha/bloodlink/internal/models"
)

const (
	DonationRecordedMessage = "Donation recorded successfully!"
	DonorsOnlyMessage       = "Only donors can record donations"

	// livesPerUnit is the estimate used for the lives saved figure.
	livesPerUnit = 3
)

// ErrDonorsOnly is returned when a non-donor tries to record a donation.
var ErrDonorsOnly = errors.New("only donors can record donations")

// DonationHistoryPage lists the user's donations with totals.
type DonationHistoryPage struct{}

func (p *DonationHistoryPage) Render(ctx context.Context, v *View) error {
	records, err := v.API.ListDonations(ctx)
	if err != nil {
		v.Notifier.Error("Failed to load donation history")
		return err
	}

	units := models.TotalUnits(records)

	heading(v.Out, "Donation History")
	fmt.Fprintf(v.Out, "Total Donations: %d   Total Units: %d   Lives Saved: %d\n\n",
		len(records), units, units*livesPerUnit)

	if len(records) == 0 {
		fmt.Fprintln(v.Out, "No donations recorded yet")
		return nil
	}

	tw := newTable(v.Out, "DATE", "BLOOD", "UNITS", "HOSPITAL", "CITY")
	for _, r := range records {
		row(tw, when(r.DonationDate), r.BloodType, fmt.Sprint(r.UnitsDonated), truncate(r.HospitalName, 28), r.City)
	}
	return tw.Flush()
}

// RecordDonationPage records a donation for the signed-in donor and then
// shows the history. The blood type defaults to the donor's own.
type RecordDonationPage struct {
	Input models.DonationCreate
}

func (p *RecordDonationPage) Render(ctx context.Context, v *View) error {
	user := v.Snapshot.User
	if !user.IsDonor() {
		v.Notifier.Error(DonorsOnlyMessage)
		return ErrDonorsOnly
	}

	in := p.Input
	if in.BloodType == "" && user.BloodType != nil {
		in.BloodType = *user.BloodType
	}
	if in.UnitsDonated == 0 {
		in.UnitsDonated = 1
	}

	if err := in.Validate(); err != nil {
		v.Notifier.Error(err.Error())
		return err
	}

	if _, err := v.API.RecordDonation(ctx, in); err != nil {
		v.Notifier.Error(client.Detail(err, "Failed to record donation"))
		return err
	}

	v.Notifier.Success(DonationRecordedMessage)

	_, err := v.Navigate(ctx, DonationHistoryPath, nil)
	return err
}
