package models

import (
	"slices"
	"time"
)

// Facility types.
const (
	FacilityHospital   = "hospital"
	FacilityClinic     = "clinic"
	FacilityBloodBank  = "blood_bank"
	FacilityDiagnostic = "diagnostic_center"
)

var FacilityTypes = []string{FacilityHospital, FacilityClinic, FacilityBloodBank, FacilityDiagnostic}

// FacilityServices are the services offered in the add-facility form.
var FacilityServices = []string{"blood_bank", "emergency", "surgery", "icu", "diagnostics", "pharmacy"}

// MedicalFacility is an entry in the facility directory.
type MedicalFacility struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	FacilityType        string    `json:"facility_type"`
	Address             string    `json:"address"`
	City                string    `json:"city"`
	State               string    `json:"state"`
	Phone               string    `json:"phone"`
	Email               *string   `json:"email,omitempty"`
	Services            []string  `json:"services"`
	BloodTypesAvailable []string  `json:"blood_types_available"`
	CreatedAt           time.Time `json:"created_at"`
}

// MedicalFacilityCreate is the body of POST /api/medical-facilities.
type MedicalFacilityCreate struct {
	Name                string   `json:"name" yaml:"name"`
	FacilityType        string   `json:"facility_type" yaml:"facility_type"`
	Address             string   `json:"address" yaml:"address"`
	City                string   `json:"city" yaml:"city"`
	State               string   `json:"state" yaml:"state"`
	Phone               string   `json:"phone" yaml:"phone"`
	Email               *string  `json:"email,omitempty" yaml:"email,omitempty"`
	Services            []string `json:"services" yaml:"services"`
	BloodTypesAvailable []string `json:"blood_types_available" yaml:"blood_types_available"`
}

func (c *MedicalFacilityCreate) Validate() error {
	switch {
	case c.Name == "":
		return requiredField("name")
	case !slices.Contains(FacilityTypes, c.FacilityType):
		return invalidField("facility_type", c.FacilityType)
	case c.Address == "":
		return requiredField("address")
	case c.City == "":
		return requiredField("city")
	case c.State == "":
		return requiredField("state")
	case c.Phone == "":
		return requiredField("phone")
	}
	for _, bt := range c.BloodTypesAvailable {
		if !IsBloodType(bt) {
			return invalidField("blood_types_available", bt)
		}
	}
	if c.Services == nil {
		c.Services = []string{}
	}
	if c.BloodTypesAvailable == nil {
		c.BloodTypesAvailable = []string{}
	}
	return nil
}

// FacilityFilter narrows GET /api/medical-facilities.
type FacilityFilter struct {
	City         string
	FacilityType string
}
