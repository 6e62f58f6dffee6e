package portal

import (
	"context"
	"fmt"

	"github.com/saajha/bloodlink/internal/client"
	"github.com/saajha/bloodlink/internal/models"
)

const (
	RequestCreatedMessage = "Blood request created successfully!"
	StatusUpdatedMessage  = "Request status updated"
)

// BloodRequestsPage lists blood requests. The status filter defaults to
// active.
type BloodRequestsPage struct {
	Filter models.BloodRequestFilter
}

func (p *BloodRequestsPage) Render(ctx context.Context, v *View) error {
	requests, err := v.API.ListBloodRequests(ctx, p.Filter)
	if err != nil {
		v.Notifier.Error("Failed to load blood requests")
		return err
	}

	heading(v.Out, "Blood Requests")
	if len(requests) == 0 {
		fmt.Fprintln(v.Out, "No blood requests found")
		fmt.Fprintln(v.Out, "Try adjusting your filters or check back later")
		return nil
	}

	tw := newTable(v.Out, "ID", "PATIENT", "BLOOD", "UNITS", "URGENCY", "HOSPITAL", "CITY", "STATUS", "CREATED")
	for _, r := range requests {
		row(tw, r.ID, truncate(r.PatientName, 24), r.BloodType, fmt.Sprint(r.UnitsNeeded),
			urgencyLabel(r.Urgency), truncate(r.HospitalName, 28), r.City, r.Status, when(r.CreatedAt))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(v.Out, "\n%s\n", plural(len(requests), "request"))
	return nil
}

// BloodRequestDetailPage shows a single request.
type BloodRequestDetailPage struct {
	ID string
}

func (p *BloodRequestDetailPage) Render(ctx context.Context, v *View) error {
	r, err := v.API.GetBloodRequest(ctx, p.ID)
	if err != nil {
		v.Notifier.Error(client.Detail(err, "Failed to load blood request"))
		return err
	}

	heading(v.Out, fmt.Sprintf("Blood request for %s", r.PatientName))
	tw := newTable(v.Out, "FIELD", "VALUE")
	row(tw, "ID", r.ID)
	row(tw, "Blood type", r.BloodType)
	row(tw, "Units needed", fmt.Sprint(r.UnitsNeeded))
	row(tw, "Urgency", urgencyLabel(r.Urgency))
	row(tw, "Hospital", r.HospitalName)
	row(tw, "Location", fmt.Sprintf("%s, %s", r.City, r.State))
	row(tw, "Contact phone", r.ContactPhone)
	row(tw, "Contact email", opt(r.ContactEmail))
	row(tw, "Reason", opt(r.Reason))
	row(tw, "Status", r.Status)
	row(tw, "Requested by", r.RequestedByName)
	row(tw, "Created", when(r.CreatedAt))
	if r.FulfilledAt != nil {
		row(tw, "Fulfilled", when(*r.FulfilledAt))
	}
	return tw.Flush()
}

// RequestStatusPage changes the status of a request.
type RequestStatusPage struct {
	ID     string
	Status string
}

func (p *RequestStatusPage) Render(ctx context.Context, v *View) error {
	if !models.IsRequestStatus(p.Status) {
		err := fmt.Errorf("%w: status %q", models.ErrValidation, p.Status)
		v.Notifier.Error(err.Error())
		return err
	}

	if err := v.API.UpdateBloodRequestStatus(ctx, p.ID, p.Status); err != nil {
		v.Notifier.Error(client.Detail(err, "Failed to update request status"))
		return err
	}

	v.Notifier.Success(StatusUpdatedMessage)
	fmt.Fprintf(v.Out, "Request %s is now %s\n", p.ID, p.Status)
	return nil
}

// CreateRequestPage posts a new blood request and then shows the request
// list.
type CreateRequestPage struct {
	Input *models.BloodRequestCreate
}

func (p *CreateRequestPage) Render(ctx context.Context, v *View) error {
	if p.Input == nil {
		heading(v.Out, "Create Blood Request")
		fmt.Fprintln(v.Out, "Describe the request in a YAML file and submit it:")
		fmt.Fprintln(v.Out, "  bloodlink requests create --file request.yaml")
		fmt.Fprintln(v.Out)
		fmt.Fprintln(v.Out, "Required fields: patient_name, blood_type, units_needed, urgency,")
		fmt.Fprintln(v.Out, "hospital_name, city, state, contact_phone")
		return nil
	}

	if err := p.Input.Validate(); err != nil {
		v.Notifier.Error(err.Error())
		return err
	}

	created, err := v.API.CreateBloodRequest(ctx, *p.Input)
	if err != nil {
		v.Notifier.Error(client.Detail(err, "Failed to create blood request"))
		return err
	}

	v.Notifier.Success(RequestCreatedMessage)
	fmt.Fprintf(v.Out, "Created request %s\n\n", created.ID)

	_, err = v.Navigate(ctx, BloodRequestsPath, nil)
	return err
}

// DonorMatchPage lists available donors for a blood type. The blood type
// defaults to the user's own.
type DonorMatchPage struct {
	BloodType string
	City      string
	State     string
}

func (p *DonorMatchPage) Render(ctx context.Context, v *View) error {
	bloodType := p.BloodType
	if bloodType == "" && v.Snapshot.User != nil && v.Snapshot.User.BloodType != nil {
		bloodType = *v.Snapshot.User.BloodType
	}
	if !models.IsBloodType(bloodType) {
		err := fmt.Errorf("%w: blood type %q", models.ErrValidation, bloodType)
		v.Notifier.Error(err.Error())
		return err
	}

	donors, err := v.API.MatchDonors(ctx, bloodType, p.City, p.State)
	if err != nil {
		v.Notifier.Error(client.Detail(err, "Failed to find donors"))
		return err
	}

	heading(v.Out, fmt.Sprintf("Available %s donors", bloodType))
	if len(donors) == 0 {
		fmt.Fprintln(v.Out, "No matching donors found")
		return nil
	}

	tw := newTable(v.Out, "NAME", "BLOOD", "PHONE", "CITY", "STATE")
	for _, d := range donors {
		row(tw, d.FullName, opt(d.BloodType), opt(d.Phone), opt(d.City), opt(d.State))
	}
	return tw.Flush()
}
