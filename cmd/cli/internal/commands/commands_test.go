package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/saajha/bloodlink/cmd/cli/internal/credentials"
	"github.com/saajha/bloodlink/internal/apitest"
	"github.com/saajha/bloodlink/internal/models"
	"github.com/saajha/bloodlink/internal/portal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	srv     *apitest.Server
	globals *Globals
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		srv:    apitest.NewServer(t),
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
	env.globals = &Globals{
		Server:     env.srv.URL,
		SessionDir: t.TempDir(),
		Out:        env.out,
		Err:        env.errOut,
	}
	return env
}

func (e *testEnv) reset() {
	e.out.Reset()
	e.errOut.Reset()
}

func (e *testEnv) storedToken(t *testing.T) string {
	t.Helper()
	store, err := credentials.NewStore(e.globals.SessionDir)
	require.NoError(t, err)
	token, err := store.LoadToken()
	if err != nil {
		return ""
	}
	return token
}

func (e *testEnv) login(t *testing.T, role, bloodType string) models.User {
	t.Helper()

	u := models.User{Email: role + "@example.com", FullName: "Asha Rao", Role: role}
	if bloodType != "" {
		u.BloodType = &bloodType
	}
	u = e.srv.AddUser(u, "secret")

	cmd := &LoginCmd{Email: u.Email, Password: "secret"}
	require.NoError(t, cmd.Run(context.Background(), e.globals))
	e.reset()

	return u
}

func TestLoginStatusLogout(t *testing.T) {
	env := newTestEnv(t)
	env.srv.AddUser(models.User{Email: "asha@example.com", FullName: "Asha Rao", Role: models.RoleDonor}, "secret")
	ctx := context.Background()

	err := (&LoginCmd{Email: "asha@example.com", Password: "secret", Next: portal.DashboardPath}).Run(ctx, env.globals)
	require.NoError(t, err)
	assert.Contains(t, env.errOut.String(), "✔ Welcome to NGO SAAJHA Portal!")
	assert.Contains(t, env.out.String(), "Welcome back, Asha Rao!")
	assert.NotEmpty(t, env.storedToken(t))

	env.reset()
	require.NoError(t, (&StatusCmd{}).Run(ctx, env.globals))
	assert.Contains(t, env.out.String(), "Signed in as Asha Rao <asha@example.com>")
	assert.Contains(t, env.out.String(), "Expires:")

	env.reset()
	require.NoError(t, (&LogoutCmd{}).Run(ctx, env.globals))
	assert.Contains(t, env.errOut.String(), "✔ Logged out successfully")
	assert.Empty(t, env.storedToken(t))

	env.reset()
	err = (&DashboardCmd{}).Run(ctx, env.globals)
	require.ErrorIs(t, err, ErrLoginRequired)
	assert.Contains(t, env.out.String(), "bloodlink login --email")
}

func TestLoginCmd_BadPassword(t *testing.T) {
	env := newTestEnv(t)
	env.srv.AddUser(models.User{Email: "asha@example.com", FullName: "Asha Rao", Role: models.RoleDonor}, "secret")

	err := (&LoginCmd{Email: "asha@example.com", Password: "nope"}).Run(context.Background(), env.globals)
	require.Error(t, err)
	assert.Contains(t, env.errOut.String(), "✖ Invalid email or password")
	assert.Empty(t, env.storedToken(t))
}

func TestLoginCmd_AlreadySignedIn(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, models.RoleDonor, "O+")

	err := (&LoginCmd{}).Run(context.Background(), env.globals)
	require.NoError(t, err)
	assert.Contains(t, env.out.String(), "Welcome back, Asha Rao!")
}

func TestStatusCmd_RevokedTokenIsCleared(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, models.RoleDonor, "O+")
	env.srv.RevokeToken(env.storedToken(t))

	require.NoError(t, (&StatusCmd{}).Run(context.Background(), env.globals))
	assert.Contains(t, env.out.String(), "Not signed in.")
	assert.Empty(t, env.storedToken(t))
}

func TestRegisterCmd(t *testing.T) {
	env := newTestEnv(t)

	cmd := &RegisterCmd{
		Email:     "ravi@example.com",
		Password:  "pw",
		FullName:  "Ravi Kumar",
		Role:      models.RoleDonor,
		BloodType: "A-",
		City:      "Pune",
		Next:      portal.ProfilePath,
	}
	require.NoError(t, cmd.Run(context.Background(), env.globals))

	assert.Contains(t, env.errOut.String(), "✔ Registration successful!")
	assert.Contains(t, env.out.String(), "Blood Donor")
	assert.Contains(t, env.out.String(), "Pune")
	assert.NotEmpty(t, env.storedToken(t))
}

func TestRegisterCmd_DonorNeedsBloodType(t *testing.T) {
	env := newTestEnv(t)

	cmd := &RegisterCmd{Email: "ravi@example.com", Password: "pw", FullName: "Ravi Kumar", Role: models.RoleDonor}
	err := cmd.Run(context.Background(), env.globals)
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Zero(t, env.srv.Hits("/api/auth/register"))
}

func TestRequestsCreateFromFile(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, models.RoleBeneficiary, "")

	path := filepath.Join(t.TempDir(), "request.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
patient_name: Meera Shah
blood_type: B-
units_needed: 2
urgency: high
hospital_name: City Hospital
city: Pune
state: MH
contact_phone: "555-0101"
`), 0o600))

	cmd := &RequestsCreateCmd{File: path, Urgency: models.UrgencyCritical}
	require.NoError(t, cmd.Run(context.Background(), env.globals))

	assert.Contains(t, env.errOut.String(), "✔ Blood request created successfully!")
	assert.Contains(t, env.out.String(), "Meera Shah")
	assert.Contains(t, env.out.String(), "CRITICAL")

	env.reset()
	require.NoError(t, (&RequestsListCmd{Status: models.RequestStatusActive, City: "Pune"}).Run(context.Background(), env.globals))
	assert.Contains(t, env.out.String(), "Meera Shah")
	assert.Contains(t, env.out.String(), "1 request")
}

func TestRequestsCreateCmd_Input(t *testing.T) {
	cmd := &RequestsCreateCmd{PatientName: "Meera Shah", BloodType: "O+", Hospital: "City Hospital", Reason: "surgery"}
	in, err := cmd.input()
	require.NoError(t, err)

	assert.Equal(t, "Meera Shah", in.PatientName)
	assert.Equal(t, models.UrgencyMedium, in.Urgency)
	assert.Equal(t, 1, in.UnitsNeeded)
	require.NotNil(t, in.Reason)
	assert.Equal(t, "surgery", *in.Reason)
	assert.Nil(t, in.ContactEmail)
}

func TestRequestsStatusCmd(t *testing.T) {
	env := newTestEnv(t)
	u := env.login(t, models.RoleBeneficiary, "")
	req := env.srv.AddBloodRequest(models.BloodRequestCreate{
		PatientName: "Meera Shah", BloodType: "B-", UnitsNeeded: 1, Urgency: models.UrgencyLow,
		HospitalName: "City Hospital", City: "Pune", State: "MH", ContactPhone: "555-0101",
	}, u.ID)

	cmd := &RequestsStatusCmd{ID: req.ID, Status: models.RequestStatusFulfilled}
	require.NoError(t, cmd.Run(context.Background(), env.globals))
	assert.Contains(t, env.out.String(), "is now fulfilled")

	env.reset()
	require.NoError(t, (&RequestsShowCmd{ID: req.ID}).Run(context.Background(), env.globals))
	assert.Contains(t, env.out.String(), "fulfilled")
}

func TestFacilitiesAddAndList(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, models.RoleMedicalFacility, "")

	add := &FacilitiesAddCmd{
		Name:       "Sahyadri Blood Bank",
		Type:       models.FacilityBloodBank,
		Address:    "1 MG Road",
		City:       "Pune",
		State:      "MH",
		Phone:      "555-0199",
		BloodTypes: []string{"O+", "O-"},
	}
	require.NoError(t, add.Run(context.Background(), env.globals))
	assert.Contains(t, env.errOut.String(), "✔ Medical facility added successfully!")

	env.reset()
	require.NoError(t, (&FacilitiesListCmd{City: "Pune"}).Run(context.Background(), env.globals))
	assert.Contains(t, env.out.String(), "Sahyadri Blood Bank")
	assert.Contains(t, env.out.String(), "O+, O-")
}

func TestDonationsRecordAndList(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, models.RoleDonor, "AB+")

	rec := &DonationsRecordCmd{Hospital: "City Hospital", City: "Pune", Units: 1}
	require.NoError(t, rec.Run(context.Background(), env.globals))
	assert.Contains(t, env.errOut.String(), "✔ Donation recorded successfully!")

	env.reset()
	require.NoError(t, (&DonationsListCmd{}).Run(context.Background(), env.globals))
	assert.Contains(t, env.out.String(), "Total Donations: 1   Total Units: 1   Lives Saved: 3")
	assert.Contains(t, env.out.String(), "AB+")
}

func TestOpenCmd(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, (&OpenCmd{Path: portal.LandingPath}).Run(context.Background(), env.globals))
	assert.Contains(t, env.out.String(), "Blood Donation Portal")

	err := (&OpenCmd{Path: "/nowhere"}).Run(context.Background(), env.globals)
	require.ErrorIs(t, err, portal.ErrRouteNotFound)
}

func TestLoginCmd_CorruptSessionFile(t *testing.T) {
	env := newTestEnv(t)
	env.srv.AddUser(models.User{Email: "asha@example.com", FullName: "Asha Rao", Role: models.RoleDonor}, "secret")
	require.NoError(t, os.WriteFile(filepath.Join(env.globals.SessionDir, "config.json"), []byte("{not json"), 0o600))
	ctx := context.Background()

	require.NoError(t, (&LoginCmd{Email: "asha@example.com", Password: "secret"}).Run(ctx, env.globals))
	assert.NotEmpty(t, env.storedToken(t))

	env.reset()
	require.NoError(t, (&StatusCmd{}).Run(ctx, env.globals))
	assert.Contains(t, env.out.String(), "Signed in as Asha Rao <asha@example.com>")
}

func TestLoginCmd_MissingPassword(t *testing.T) {
	env := newTestEnv(t)

	err := (&LoginCmd{Email: "asha@example.com"}).Run(context.Background(), env.globals)
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, env.errOut.String(), "✖ validation failed: password is required")
	assert.Zero(t, env.srv.Hits("/api/auth/login"))
}
