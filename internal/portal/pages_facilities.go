package portal

import (
	"context"
	"fmt"

	"github.com/saajha/bloodlink/internal/client"
	"github.com/saajha/bloodlink/internal/models"
)

const FacilityAddedMessage = "Medical facility added successfully!"

// FacilitiesPage is the medical facility directory.
type FacilitiesPage struct {
	Filter models.FacilityFilter
}

func (p *FacilitiesPage) Render(ctx context.Context, v *View) error {
	facilities, err := v.API.ListFacilities(ctx, p.Filter)
	if err != nil {
		v.Notifier.Error("Failed to load medical facilities")
		return err
	}

	heading(v.Out, "Medical Facilities")
	if len(facilities) == 0 {
		fmt.Fprintln(v.Out, "No medical facilities found")
		return nil
	}

	tw := newTable(v.Out, "ID", "NAME", "TYPE", "CITY", "PHONE", "BLOOD AVAILABLE")
	for _, f := range facilities {
		row(tw, f.ID, truncate(f.Name, 32), f.FacilityType, f.City, f.Phone, listOrDash(f.BloodTypesAvailable))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(v.Out, "\n%s\n", plural(len(facilities), "facility"))
	return nil
}

// FacilityDetailPage shows one facility.
type FacilityDetailPage struct {
	ID string
}

func (p *FacilityDetailPage) Render(ctx context.Context, v *View) error {
	f, err := v.API.GetFacility(ctx, p.ID)
	if err != nil {
		v.Notifier.Error(client.Detail(err, "Failed to load medical facility"))
		return err
	}

	heading(v.Out, f.Name)
	tw := newTable(v.Out, "FIELD", "VALUE")
	row(tw, "ID", f.ID)
	row(tw, "Type", f.FacilityType)
	row(tw, "Address", f.Address)
	row(tw, "Location", fmt.Sprintf("%s, %s", f.City, f.State))
	row(tw, "Phone", f.Phone)
	row(tw, "Email", opt(f.Email))
	row(tw, "Services", listOrDash(f.Services))
	row(tw, "Blood available", listOrDash(f.BloodTypesAvailable))
	return tw.Flush()
}

// AddFacilityPage registers a new facility and shows the directory.
type AddFacilityPage struct {
	Input *models.MedicalFacilityCreate
}

func (p *AddFacilityPage) Render(ctx context.Context, v *View) error {
	if p.Input == nil {
		return fmt.Errorf("%w: facility input is required", models.ErrValidation)
	}

	if err := p.Input.Validate(); err != nil {
		v.Notifier.Error(err.Error())
		return err
	}

	created, err := v.API.CreateFacility(ctx, *p.Input)
	if err != nil {
		v.Notifier.Error(client.Detail(err, "Failed to add medical facility"))
		return err
	}

	v.Notifier.Success(FacilityAddedMessage)
	fmt.Fprintf(v.Out, "Added facility %s\n", created.ID)
	return nil
}
