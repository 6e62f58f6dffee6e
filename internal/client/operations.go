package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/saajha/bloodlink/internal/models"
)

// Login exchanges an email and password for an access token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.do(ctx, call{op: "login", method: http.MethodPost, path: "auth/login", body: creds, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns its first access token.
func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.do(ctx, call{op: "register", method: http.MethodPost, path: "auth/register", body: reg, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the user the bound token belongs to. It is never retried: any
// non-2xx answer is reported as is.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, call{op: "me", method: http.MethodGet, path: "auth/me", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchIdentity resolves token to its user via GET /api/auth/me.
func (c *Client) FetchIdentity(ctx context.Context, token string) (*models.User, error) {
	return c.WithToken(token).Me(ctx)
}

// ListBloodRequests returns requests newest first. Status defaults to active.
func (c *Client) ListBloodRequests(ctx context.Context, filter models.BloodRequestFilter) ([]models.BloodRequest, error) {
	q := url.Values{}
	status := filter.Status
	if status == "" {
		status = models.RequestStatusActive
	}
	q.Set("status", status)
	setIf(q, "blood_type", filter.BloodType)
	setIf(q, "city", filter.City)
	setIf(q, "urgency", filter.Urgency)

	out := []models.BloodRequest{}
	err := c.do(ctx, call{op: "list_blood_requests", method: http.MethodGet, path: "blood-requests", query: q, out: &out, retry: true})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBloodRequest(ctx context.Context, id string) (*models.BloodRequest, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	var out models.BloodRequest
	err := c.do(ctx, call{op: "get_blood_request", method: http.MethodGet, path: "blood-requests/" + id, out: &out, retry: true})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBloodRequest(ctx context.Context, in models.BloodRequestCreate) (*models.BloodRequest, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out models.BloodRequest
	err := c.do(ctx, call{op: "create_blood_request", method: http.MethodPost, path: "blood-requests", body: in, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBloodRequestStatus marks a request active, fulfilled or cancelled.
func (c *Client) UpdateBloodRequestStatus(ctx context.Context, id, status string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if !models.IsRequestStatus(status) {
		return fmt.Errorf("%w: invalid status %q", models.ErrValidation, status)
	}
	q := url.Values{"status": {status}}
	return c.do(ctx, call{op: "update_blood_request_status", method: http.MethodPatch, path: "blood-requests/" + id + "/status", query: q})
}

// MatchDonors lists available donors with the given blood type.
func (c *Client) MatchDonors(ctx context.Context, bloodType, city, state string) ([]models.User, error) {
	if !models.IsBloodType(bloodType) {
		return nil, fmt.Errorf("%w: invalid blood_type %q", models.ErrValidation, bloodType)
	}
	q := url.Values{"blood_type": {bloodType}}
	setIf(q, "city", city)
	setIf(q, "state", state)

	out := []models.User{}
	err := c.do(ctx, call{op: "match_donors", method: http.MethodGet, path: "donors/match", query: q, out: &out, retry: true})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListFacilities returns the facility directory sorted by name.
func (c *Client) ListFacilities(ctx context.Context, filter models.FacilityFilter) ([]models.MedicalFacility, error) {
	q := url.Values{}
	setIf(q, "city", filter.City)
	setIf(q, "facility_type", filter.FacilityType)

	out := []models.MedicalFacility{}
	err := c.do(ctx, call{op: "list_facilities", method: http.MethodGet, path: "medical-facilities", query: q, out: &out, public: true, retry: true})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetFacility(ctx context.Context, id string) (*models.MedicalFacility, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	var out models.MedicalFacility
	err := c.do(ctx, call{op: "get_facility", method: http.MethodGet, path: "medical-facilities/" + id, out: &out, public: true, retry: true})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateFacility(ctx context.Context, in models.MedicalFacilityCreate) (*models.MedicalFacility, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out models.MedicalFacility
	err := c.do(ctx, call{op: "create_facility", method: http.MethodPost, path: "medical-facilities", body: in, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDonations returns the calling donor's history, newest first.
func (c *Client) ListDonations(ctx context.Context) ([]models.DonationRecord, error) {
	out := []models.DonationRecord{}
	err := c.do(ctx, call{op: "list_donations", method: http.MethodGet, path: "donation-history", out: &out, retry: true})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RecordDonation(ctx context.Context, in models.DonationCreate) (*models.DonationRecord, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out models.DonationRecord
	err := c.do(ctx, call{op: "record_donation", method: http.MethodPost, path: "donation-history", body: in, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats returns the portal-wide counters shown on the landing page and dashboard.
func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	var out models.Stats
	err := c.do(ctx, call{op: "stats", method: http.MethodGet, path: "stats", out: &out, public: true, retry: true})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
