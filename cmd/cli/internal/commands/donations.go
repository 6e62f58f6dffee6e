package commands

import (
	"context"

	"github.com/saajha/bloodlink/internal/models"
	"github.com/saajha/bloodlink/internal/portal"
)

// DonationsCmd works with the donation history.
type DonationsCmd struct {
	List   DonationsListCmd   `cmd:"" default:"withargs" help:"Show your donation history"`
	Record DonationsRecordCmd `cmd:"" help:"Record a donation you made"`
}

type DonationsListCmd struct{}

func (d *DonationsListCmd) Run(ctx context.Context, globals *Globals) error {
	return run(ctx, globals, portal.DonationHistoryPath, nil)
}

type DonationsRecordCmd struct {
	Hospital  string `help:"Hospital where you donated" required:""`
	City      string `help:"City" required:""`
	Units     int    `help:"Units donated" default:"1"`
	BloodType string `help:"Blood type, defaults to your own"`
	RequestID string `help:"Blood request this donation fulfils"`
}

func (d *DonationsRecordCmd) Run(ctx context.Context, globals *Globals) error {
	page := &portal.RecordDonationPage{Input: models.DonationCreate{
		BloodRequestID: optional(d.RequestID),
		BloodType:      d.BloodType,
		UnitsDonated:   d.Units,
		HospitalName:   d.Hospital,
		City:           d.City,
	}}
	return run(ctx, globals, portal.DonationHistoryPath, page)
}
