package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRegistration_Validate(t *testing.T) {
	tests := []struct {
		name    string
		reg     Registration
		wantErr string
	}{
		{
			name: "valid donor",
			reg:  Registration{Email: "asha@example.com", Password: "pw", FullName: "Asha Rao", Role: RoleDonor, BloodType: strPtr("O+")},
		},
		{
			name: "valid beneficiary without blood type",
			reg:  Registration{Email: "b@example.com", Password: "pw", FullName: "Beneficiary One", Role: RoleBeneficiary},
		},
		{
			name:    "donor requires blood type",
			reg:     Registration{Email: "d@example.com", Password: "pw", FullName: "Donor", Role: RoleDonor},
			wantErr: "blood_type is required",
		},
		{
			name:    "admin cannot self register",
			reg:     Registration{Email: "a@example.com", Password: "pw", FullName: "Admin", Role: RoleAdmin},
			wantErr: "invalid role",
		},
		{
			name:    "unknown blood type",
			reg:     Registration{Email: "d@example.com", Password: "pw", FullName: "Donor", Role: RoleDonor, BloodType: strPtr("C+")},
			wantErr: "invalid blood_type",
		},
		{
			name:    "missing email",
			reg:     Registration{Password: "pw", FullName: "X", Role: RoleDonor},
			wantErr: "email is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBloodRequestCreate_Validate(t *testing.T) {
	valid := BloodRequestCreate{
		PatientName:  "Ravi Kumar",
		BloodType:    "B+",
		UnitsNeeded:  2,
		Urgency:      UrgencyCritical,
		HospitalName: "City Hospital",
		City:         "Pune",
		State:        "Maharashtra",
		ContactPhone: "+91 98000 00000",
	}
	require.NoError(t, valid.Validate())

	zeroUnits := valid
	zeroUnits.UnitsNeeded = 0
	require.ErrorIs(t, zeroUnits.Validate(), ErrValidation)

	badUrgency := valid
	badUrgency.Urgency = "urgent"
	err := badUrgency.Validate()
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "urgency")

	noPhone := valid
	noPhone.ContactPhone = ""
	assert.ErrorContains(t, noPhone.Validate(), "contact_phone is required")
}

func TestMedicalFacilityCreate_Validate(t *testing.T) {
	c := MedicalFacilityCreate{
		Name:         "Red Cross Blood Bank",
		FacilityType: FacilityBloodBank,
		Address:      "1 Main Road",
		City:         "Pune",
		State:        "Maharashtra",
		Phone:        "020-000000",
	}
	require.NoError(t, c.Validate())
	assert.NotNil(t, c.Services, "nil slices are normalised so the API receives []")
	assert.NotNil(t, c.BloodTypesAvailable)

	c.BloodTypesAvailable = []string{"A+", "Z-"}
	assert.ErrorContains(t, c.Validate(), "Z-")

	c.BloodTypesAvailable = nil
	c.FacilityType = "pharmacy"
	assert.ErrorIs(t, c.Validate(), ErrValidation)
}

func TestDonationCreate_Validate(t *testing.T) {
	c := DonationCreate{BloodType: "O-", UnitsDonated: 1, HospitalName: "City Hospital", City: "Pune"}
	require.NoError(t, c.Validate())

	c.UnitsDonated = 0
	assert.ErrorIs(t, c.Validate(), ErrValidation)
}

func TestTotalUnits(t *testing.T) {
	records := []DonationRecord{{UnitsDonated: 1}, {UnitsDonated: 2}, {UnitsDonated: 3}}
	assert.Equal(t, 6, TotalUnits(records))
	assert.Equal(t, 0, TotalUnits(nil))
}

func TestUserRoles(t *testing.T) {
	var nilUser *User
	assert.False(t, nilUser.IsDonor())

	u := &User{Role: RoleDonor}
	assert.True(t, u.IsDonor())
	assert.False(t, u.IsBeneficiary())
}

func TestCredentials_Validate(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		empty bool
		err   string
	}{
		{name: "complete", creds: Credentials{Email: "a@example.com", Password: "pw"}},
		{name: "nothing", creds: Credentials{}, empty: true, err: "email is required"},
		{name: "no password", creds: Credentials{Email: "a@example.com"}, err: "password is required"},
		{name: "no email", creds: Credentials{Password: "pw"}, err: "email is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.empty, tt.creds.Empty())

			err := tt.creds.Validate()
			if tt.err == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}
