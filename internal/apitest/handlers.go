package apitest

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/saajha/bloodlink/internal/models"
)

func withUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, ctxUser{}, u)
}

func userFrom(ctx context.Context) models.User {
	u, _ := ctx.Value(ctxUser{}).(models.User)
	return u
}

// addRequest must be called with mu held.
func (s *Server) addRequest(in models.BloodRequestCreate, userID string) models.BloodRequest {
	name := ""
	for _, acc := range s.accounts {
		if acc.user.ID == userID {
			name = acc.user.FullName
		}
	}

	req := models.BloodRequest{
		ID:              uuid.NewString(),
		PatientName:     in.PatientName,
		BloodType:       in.BloodType,
		UnitsNeeded:     in.UnitsNeeded,
		Urgency:         in.Urgency,
		HospitalName:    in.HospitalName,
		City:            in.City,
		State:           in.State,
		ContactPhone:    in.ContactPhone,
		ContactEmail:    in.ContactEmail,
		Reason:          in.Reason,
		Status:          models.RequestStatusActive,
		RequestedBy:     userID,
		RequestedByName: name,
		CreatedAt:       time.Now().UTC().Add(time.Duration(len(s.requests)) * time.Millisecond),
	}
	s.requests = append(s.requests, req)
	return req
}

// addFacility must be called with mu held.
func (s *Server) addFacility(in models.MedicalFacilityCreate) models.MedicalFacility {
	f := models.MedicalFacility{
		ID:                  uuid.NewString(),
		Name:                in.Name,
		FacilityType:        in.FacilityType,
		Address:             in.Address,
		City:                in.City,
		State:               in.State,
		Phone:               in.Phone,
		Email:               in.Email,
		Services:            in.Services,
		BloodTypesAvailable: in.BloodTypesAvailable,
		CreatedAt:           time.Now().UTC(),
	}
	s.facilities = append(s.facilities, f)
	return f
}

func (s *Server) listRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	if status == "" {
		status = models.RequestStatusActive
	}

	s.mu.Lock()
	out := []models.BloodRequest{}
	for _, req := range s.requests {
		if req.Status != status {
			continue
		}
		if v := q.Get("blood_type"); v != "" && req.BloodType != v {
			continue
		}
		if v := q.Get("city"); v != "" && req.City != v {
			continue
		}
		if v := q.Get("urgency"); v != "" && req.Urgency != v {
			continue
		}
		out = append(out, req)
	}
	s.mu.Unlock()

	sortNewestFirst(out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, req := range s.requests {
		if req.ID == id {
			writeJSON(w, http.StatusOK, req)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Blood request not found")
}

func (s *Server) createRequest(w http.ResponseWriter, r *http.Request) {
	var in models.BloodRequestCreate
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	req := s.addRequest(in, userFrom(r.Context()).ID)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, req)
}

func (s *Server) updateRequestStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status := r.URL.Query().Get("status")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.requests {
		if s.requests[i].ID != id {
			continue
		}
		s.requests[i].Status = status
		s.requests[i].FulfilledAt = nil
		if status == models.RequestStatusFulfilled {
			now := time.Now().UTC()
			s.requests[i].FulfilledAt = &now
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Status updated successfully"})
		return
	}
	writeDetail(w, http.StatusNotFound, "Blood request not found")
}

func (s *Server) matchDonors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.Lock()
	out := []models.User{}
	for _, acc := range s.accounts {
		u := acc.user
		if u.Role != models.RoleDonor || u.BloodType == nil || *u.BloodType != q.Get("blood_type") {
			continue
		}
		if u.AvailableToDonate != nil && !*u.AvailableToDonate {
			continue
		}
		if v := q.Get("city"); v != "" && (u.City == nil || *u.City != v) {
			continue
		}
		if v := q.Get("state"); v != "" && (u.State == nil || *u.State != v) {
			continue
		}
		out = append(out, u)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listFacilities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.Lock()
	out := []models.MedicalFacility{}
	for _, f := range s.facilities {
		if v := q.Get("city"); v != "" && f.City != v {
			continue
		}
		if v := q.Get("facility_type"); v != "" && f.FacilityType != v {
			continue
		}
		out = append(out, f)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getFacility(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.facilities {
		if f.ID == id {
			writeJSON(w, http.StatusOK, f)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Medical facility not found")
}

func (s *Server) createFacility(w http.ResponseWriter, r *http.Request) {
	var in models.MedicalFacilityCreate
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	f := s.addFacility(in)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, f)
}

func (s *Server) listDonations(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	s.mu.Lock()
	out := []models.DonationRecord{}
	for _, d := range s.donations {
		if d.DonorID == user.ID {
			out = append(out, d)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].DonationDate.After(out[j].DonationDate) })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createDonation(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	if user.Role != models.RoleDonor {
		writeDetail(w, http.StatusForbidden, "Only donors can record donations")
		return
	}

	var in models.DonationCreate
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	rec := models.DonationRecord{
		ID:             uuid.NewString(),
		DonorID:        user.ID,
		DonorName:      user.FullName,
		BloodRequestID: in.BloodRequestID,
		BloodType:      in.BloodType,
		UnitsDonated:   in.UnitsDonated,
		DonationDate:   time.Now().UTC().Add(time.Duration(len(s.donations)) * time.Millisecond),
		HospitalName:   in.HospitalName,
		City:           in.City,
	}
	s.donations = append(s.donations, rec)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stats != nil {
		writeJSON(w, http.StatusOK, s.stats)
		return
	}

	stats := models.Stats{TotalUsers: len(s.accounts), TotalFacilities: len(s.facilities)}
	for _, acc := range s.accounts {
		if acc.user.Role == models.RoleDonor {
			stats.TotalDonors++
		}
	}
	for _, req := range s.requests {
		switch req.Status {
		case models.RequestStatusActive:
			stats.ActiveRequests++
		case models.RequestStatusFulfilled:
			stats.FulfilledRequests++
		}
	}
	writeJSON(w, http.StatusOK, stats)
}
