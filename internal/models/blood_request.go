package models

import (
	"slices"
	"time"
)

// Urgency levels for a blood request.
const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// Request status values.
const (
	RequestStatusActive    = "active"
	RequestStatusFulfilled = "fulfilled"
	RequestStatusCancelled = "cancelled"
)

var (
	Urgencies       = []string{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical}
	RequestStatuses = []string{RequestStatusActive, RequestStatusFulfilled, RequestStatusCancelled}
)

// BloodRequest is a patient's request for blood units.
type BloodRequest struct {
	ID              string     `json:"id"`
	PatientName     string     `json:"patient_name"`
	BloodType       string     `json:"blood_type"`
	UnitsNeeded     int        `json:"units_needed"`
	Urgency         string     `json:"urgency"`
	HospitalName    string     `json:"hospital_name"`
	City            string     `json:"city"`
	State           string     `json:"state"`
	ContactPhone    string     `json:"contact_phone"`
	ContactEmail    *string    `json:"contact_email,omitempty"`
	Reason          *string    `json:"reason,omitempty"`
	Status          string     `json:"status"`
	RequestedBy     string     `json:"requested_by"`
	RequestedByName string     `json:"requested_by_name"`
	CreatedAt       time.Time  `json:"created_at"`
	FulfilledAt     *time.Time `json:"fulfilled_at,omitempty"`
}

// BloodRequestCreate is the body of POST /api/blood-requests.
type BloodRequestCreate struct {
	PatientName  string  `json:"patient_name" yaml:"patient_name"`
	BloodType    string  `json:"blood_type" yaml:"blood_type"`
	UnitsNeeded  int     `json:"units_needed" yaml:"units_needed"`
	Urgency      string  `json:"urgency" yaml:"urgency"`
	HospitalName string  `json:"hospital_name" yaml:"hospital_name"`
	City         string  `json:"city" yaml:"city"`
	State        string  `json:"state" yaml:"state"`
	ContactPhone string  `json:"contact_phone" yaml:"contact_phone"`
	ContactEmail *string `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`
	Reason       *string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Validate checks the fields the create-request form marks as required.
func (c *BloodRequestCreate) Validate() error {
	switch {
	case c.PatientName == "":
		return requiredField("patient_name")
	case c.BloodType == "":
		return requiredField("blood_type")
	case !IsBloodType(c.BloodType):
		return invalidField("blood_type", c.BloodType)
	case c.UnitsNeeded < 1:
		return invalidField("units_needed", "must be at least 1")
	case !slices.Contains(Urgencies, c.Urgency):
		return invalidField("urgency", c.Urgency)
	case c.HospitalName == "":
		return requiredField("hospital_name")
	case c.City == "":
		return requiredField("city")
	case c.State == "":
		return requiredField("state")
	case c.ContactPhone == "":
		return requiredField("contact_phone")
	}
	return nil
}

// BloodRequestFilter narrows GET /api/blood-requests. Empty fields are omitted.
type BloodRequestFilter struct {
	Status    string
	BloodType string
	City      string
	Urgency   string
}

// IsRequestStatus reports whether v is a known request status.
func IsRequestStatus(v string) bool {
	return slices.Contains(RequestStatuses, v)
}
