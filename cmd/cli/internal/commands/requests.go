package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/saajha/bloodlink/internal/models"
	"github.com/saajha/bloodlink/internal/portal"
	"gopkg.in/yaml.v3"
)

// RequestsCmd works with blood requests.
type RequestsCmd struct {
	List   RequestsListCmd   `cmd:"" default:"withargs" help:"List blood requests"`
	Show   RequestsShowCmd   `cmd:"" help:"Show a blood request"`
	Create RequestsCreateCmd `cmd:"" help:"Create a blood request"`
	Status RequestsStatusCmd `cmd:"" help:"Change the status of a blood request"`
}

type RequestsListCmd struct {
	Status    string `help:"Request status" enum:"active,fulfilled,cancelled" default:"active"`
	BloodType string `help:"Blood type"`
	City      string `help:"City"`
	Urgency   string `help:"Urgency: low, medium, high or critical"`
}

func (r *RequestsListCmd) Run(ctx context.Context, globals *Globals) error {
	page := &portal.BloodRequestsPage{Filter: models.BloodRequestFilter{
		Status:    r.Status,
		BloodType: r.BloodType,
		City:      r.City,
		Urgency:   r.Urgency,
	}}
	return run(ctx, globals, portal.BloodRequestsPath, page)
}

type RequestsShowCmd struct {
	ID string `arg:"" help:"Request ID"`
}

func (r *RequestsShowCmd) Run(ctx context.Context, globals *Globals) error {
	return run(ctx, globals, portal.BloodRequestsPath, &portal.BloodRequestDetailPage{ID: r.ID})
}

// RequestsCreateCmd takes the request from a YAML file, flags, or both.
// Flags override values from the file.
type RequestsCreateCmd struct {
	File         string `help:"YAML file describing the request" type:"existingfile"`
	PatientName  string `help:"Patient name"`
	BloodType    string `help:"Blood type needed"`
	Units        int    `help:"Units needed"`
	Urgency      string `help:"Urgency: low, medium, high or critical"`
	Hospital     string `help:"Hospital name"`
	City         string `help:"City"`
	State        string `help:"State"`
	ContactPhone string `help:"Contact phone"`
	ContactEmail string `help:"Contact email"`
	Reason       string `help:"Reason for the request"`
}

func (r *RequestsCreateCmd) Run(ctx context.Context, globals *Globals) error {
	in, err := r.input()
	if err != nil {
		return err
	}
	return run(ctx, globals, portal.CreateRequestPath, &portal.CreateRequestPage{Input: in})
}

func (r *RequestsCreateCmd) input() (*models.BloodRequestCreate, error) {
	in := &models.BloodRequestCreate{Urgency: models.UrgencyMedium, UnitsNeeded: 1}

	if r.File != "" {
		if err := loadYAML(r.File, in); err != nil {
			return nil, err
		}
	}

	setString(&in.PatientName, r.PatientName)
	setString(&in.BloodType, r.BloodType)
	setString(&in.Urgency, r.Urgency)
	setString(&in.HospitalName, r.Hospital)
	setString(&in.City, r.City)
	setString(&in.State, r.State)
	setString(&in.ContactPhone, r.ContactPhone)
	if r.Units > 0 {
		in.UnitsNeeded = r.Units
	}
	if r.ContactEmail != "" {
		in.ContactEmail = &r.ContactEmail
	}
	if r.Reason != "" {
		in.Reason = &r.Reason
	}

	return in, nil
}

type RequestsStatusCmd struct {
	ID     string `arg:"" help:"Request ID"`
	Status string `arg:"" help:"New status" enum:"active,fulfilled,cancelled"`
}

func (r *RequestsStatusCmd) Run(ctx context.Context, globals *Globals) error {
	return run(ctx, globals, portal.BloodRequestsPath, &portal.RequestStatusPage{ID: r.ID, Status: r.Status})
}

// DonorsCmd finds donors.
type DonorsCmd struct {
	Match DonorsMatchCmd `cmd:"" default:"withargs" help:"Find available donors for a blood type"`
}

type DonorsMatchCmd struct {
	BloodType string `help:"Blood type, defaults to your own"`
	City      string `help:"City"`
	State     string `help:"State"`
}

func (d *DonorsMatchCmd) Run(ctx context.Context, globals *Globals) error {
	page := &portal.DonorMatchPage{BloodType: d.BloodType, City: d.City, State: d.State}
	return run(ctx, globals, portal.BloodRequestsPath, page)
}

func loadYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse YAML input: %w", err)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
