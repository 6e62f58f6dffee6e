package models

import (
	"slices"
	"time"
)

// Role values accepted by the portal API.
const (
	RoleDonor           = "donor"
	RoleBeneficiary     = "beneficiary"
	RoleAdmin           = "admin"
	RoleMedicalFacility = "medical_facility"
)

// RegistrationRoles are the roles a user can pick when signing up.
// Admin accounts are provisioned on the backend.
var RegistrationRoles = []string{RoleDonor, RoleBeneficiary, RoleMedicalFacility}

// BloodTypes lists every ABO/Rh blood group the portal knows about.
var BloodTypes = []string{"A+", "A-", "B+", "B-", "O+", "O-", "AB+", "AB-"}

// User is the identity record returned by the auth endpoints.
// It is never persisted locally; it is always re-derived from the token.
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	FullName          string    `json:"full_name"`
	Role              string    `json:"role"`
	BloodType         *string   `json:"blood_type,omitempty"`
	Phone             *string   `json:"phone,omitempty"`
	Location          *string   `json:"location,omitempty"`
	City              *string   `json:"city,omitempty"`
	State             *string   `json:"state,omitempty"`
	AvailableToDonate *bool     `json:"available_to_donate,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// IsDonor returns true if the user registered as a blood donor.
func (u *User) IsDonor() bool {
	return u != nil && u.Role == RoleDonor
}

// IsBeneficiary returns true if the user registered as a beneficiary.
func (u *User) IsBeneficiary() bool {
	return u != nil && u.Role == RoleBeneficiary
}

// Credentials is the body of POST /api/auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Empty reports whether neither field was given.
func (c *Credentials) Empty() bool {
	return c.Email == "" && c.Password == ""
}

func (c *Credentials) Validate() error {
	if c.Email == "" {
		return requiredField("email")
	}
	if c.Password == "" {
		return requiredField("password")
	}
	return nil
}

// Registration is the body of POST /api/auth/register.
type Registration struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FullName  string  `json:"full_name"`
	Role      string  `json:"role"`
	BloodType *string `json:"blood_type,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Location  *string `json:"location,omitempty"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
}

// Validate checks the fields the registration form requires.
func (r *Registration) Validate() error {
	if r.Email == "" {
		return requiredField("email")
	}
	if r.Password == "" {
		return requiredField("password")
	}
	if r.FullName == "" {
		return requiredField("full_name")
	}
	if !slices.Contains(RegistrationRoles, r.Role) {
		return invalidField("role", r.Role)
	}
	if r.BloodType != nil && !IsBloodType(*r.BloodType) {
		return invalidField("blood_type", *r.BloodType)
	}
	if r.Role == RoleDonor && (r.BloodType == nil || *r.BloodType == "") {
		return requiredField("blood_type")
	}
	return nil
}

// AuthResponse is returned by both login and register.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// IsBloodType reports whether v is one of BloodTypes.
func IsBloodType(v string) bool {
	return slices.Contains(BloodTypes, v)
}
