package commands

import (
	"context"

	"github.com/saajha/bloodlink/internal/models"
	"github.com/saajha/bloodlink/internal/portal"
)

// FacilitiesCmd works with the medical facility directory.
type FacilitiesCmd struct {
	List FacilitiesListCmd `cmd:"" default:"withargs" help:"List medical facilities"`
	Show FacilitiesShowCmd `cmd:"" help:"Show a medical facility"`
	Add  FacilitiesAddCmd  `cmd:"" help:"Add a medical facility"`
}

type FacilitiesListCmd struct {
	City string `help:"City"`
	Type string `help:"Facility type: hospital, clinic, blood_bank or diagnostic_center"`
}

func (f *FacilitiesListCmd) Run(ctx context.Context, globals *Globals) error {
	page := &portal.FacilitiesPage{Filter: models.FacilityFilter{City: f.City, FacilityType: f.Type}}
	return run(ctx, globals, portal.MedicalFacilitiesPath, page)
}

type FacilitiesShowCmd struct {
	ID string `arg:"" help:"Facility ID"`
}

func (f *FacilitiesShowCmd) Run(ctx context.Context, globals *Globals) error {
	return run(ctx, globals, portal.MedicalFacilitiesPath, &portal.FacilityDetailPage{ID: f.ID})
}

// FacilitiesAddCmd takes the facility from a YAML file, flags, or both.
type FacilitiesAddCmd struct {
	File       string   `help:"YAML file describing the facility" type:"existingfile"`
	Name       string   `help:"Facility name"`
	Type       string   `help:"Facility type: hospital, clinic, blood_bank or diagnostic_center"`
	Address    string   `help:"Street address"`
	City       string   `help:"City"`
	State      string   `help:"State"`
	Phone      string   `help:"Phone number"`
	Email      string   `help:"Email address"`
	Services   []string `help:"Services offered"`
	BloodTypes []string `help:"Blood types in stock"`
}

func (f *FacilitiesAddCmd) Run(ctx context.Context, globals *Globals) error {
	in, err := f.input()
	if err != nil {
		return err
	}
	return run(ctx, globals, portal.MedicalFacilitiesPath, &portal.AddFacilityPage{Input: in})
}

func (f *FacilitiesAddCmd) input() (*models.MedicalFacilityCreate, error) {
	in := &models.MedicalFacilityCreate{}

	if f.File != "" {
		if err := loadYAML(f.File, in); err != nil {
			return nil, err
		}
	}

	setString(&in.Name, f.Name)
	setString(&in.FacilityType, f.Type)
	setString(&in.Address, f.Address)
	setString(&in.City, f.City)
	setString(&in.State, f.State)
	setString(&in.Phone, f.Phone)
	if f.Email != "" {
		in.Email = &f.Email
	}
	if len(f.Services) > 0 {
		in.Services = f.Services
	}
	if len(f.BloodTypes) > 0 {
		in.BloodTypesAvailable = f.BloodTypes
	}

	return in, nil
}
