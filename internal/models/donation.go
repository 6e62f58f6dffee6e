package models

import "time"

// DonationRecord is one entry in a donor's donation history.
type DonationRecord struct {
	ID             string    `json:"id"`
	DonorID        string    `json:"donor_id"`
	DonorName      string    `json:"donor_name"`
	BloodRequestID *string   `json:"blood_request_id,omitempty"`
	BloodType      string    `json:"blood_type"`
	UnitsDonated   int       `json:"units_donated"`
	DonationDate   time.Time `json:"donation_date"`
	HospitalName   string    `json:"hospital_name"`
	City           string    `json:"city"`
}

// DonationCreate is the body of POST /api/donation-history.
type DonationCreate struct {
	BloodRequestID *string `json:"blood_request_id,omitempty"`
	BloodType      string  `json:"blood_type"`
	UnitsDonated   int     `json:"units_donated"`
	HospitalName   string  `json:"hospital_name"`
	City           string  `json:"city"`
}

func (c *DonationCreate) Validate() error {
	switch {
	case !IsBloodType(c.BloodType):
		return invalidField("blood_type", c.BloodType)
	case c.UnitsDonated < 1:
		return invalidField("units_donated", "must be at least 1")
	case c.HospitalName == "":
		return requiredField("hospital_name")
	case c.City == "":
		return requiredField("city")
	}
	return nil
}

// TotalUnits sums the units across a donation history.
func TotalUnits(records []DonationRecord) int {
	total := 0
	for _, r := range records {
		total += r.UnitsDonated
	}
	return total
}

// Stats is the portal-wide summary returned by GET /api/stats.
type Stats struct {
	TotalUsers        int `json:"total_users"`
	TotalDonors       int `json:"total_donors"`
	ActiveRequests    int `json:"active_requests"`
	FulfilledRequests int `json:"fulfilled_requests"`
	TotalFacilities   int `json:"total_facilities"`
}
