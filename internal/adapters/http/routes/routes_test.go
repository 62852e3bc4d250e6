package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"loantrack/internal/adapters/http/middleware"
	"loantrack/internal/adapters/persistence/models"
	"loantrack/internal/config"
	"loantrack/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	password.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
}

type testServer struct {
	t   *testing.T
	app *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Cookie: config.CookieConfig{SameSite: "lax"},
		Seed: config.SeedConfig{
			Enabled:          true,
			AdminEmail:       "admin@creditsea.com",
			AdminPassword:    "admin123",
			VerifierEmail:    "verifier@creditsea.com",
			VerifierPassword: "verifier123",
		},
	}

	db, err := config.Open(config.DatabaseConfig{Driver: "sqlite", DBName: "file::memory:?_pragma=foreign_keys(1)"}, nil)
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	log := zap.NewNop()
	require.NoError(t, config.NewSeeder(db, cfg.Seed, log).Run(context.Background()))

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	middleware.Setup(app, cfg)
	Setup(app, db, cfg, log)

	return &testServer{t: t, app: app}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (s *testServer) token(status int, env envelope) string {
	s.t.Helper()
	require.True(s.t, status == http.StatusOK || status == http.StatusCreated, "auth failed: %d %s", status, env.Error)

	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(s.t, data.AccessToken)
	return data.AccessToken
}

func (s *testServer) login(email, pass string) string {
	s.t.Helper()
	return s.token(s.do(http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"email": email, "password": pass}))
}

type loanBody struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	Amount float64 `json:"amount"`
}

func decode(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func TestLoanLifecycle(t *testing.T) {
	s := newTestServer(t)

	applicant := s.token(s.do(http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"full_name": "Jane Applicant",
		"email":     "Jane@Example.com",
		"password":  "secret123",
	}))

	status, env := s.do(http.MethodPost, "/api/v1/loans", applicant, fiber.Map{
		"amount":             50000,
		"purpose":            "home renovation",
		"employment_status":  "employed",
		"employment_address": "123 Business St, City",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var loan loanBody
	decode(t, env, &loan)
	assert.Equal(t, "pending", loan.Status)
	assert.Equal(t, 50000.0, loan.Amount)

	status, env = s.do(http.MethodGet, "/api/v1/loans/my-loans", applicant, nil)
	require.Equal(t, http.StatusOK, status)
	var own []loanBody
	decode(t, env, &own)
	require.Len(t, own, 1)
	assert.Equal(t, loan.ID, own[0].ID)

	verifier := s.login("verifier@creditsea.com", "verifier123")

	status, env = s.do(http.MethodGet, "/api/v1/loans/pending", verifier, nil)
	require.Equal(t, http.StatusOK, status)
	var pending []loanBody
	decode(t, env, &pending)
	assert.Len(t, pending, 1)

	status, env = s.do(http.MethodPut, "/api/v1/loans/"+loan.ID+"/verify", verifier, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	decode(t, env, &loan)
	assert.Equal(t, "verified", loan.Status)

	// second verify loses: the loan is no longer pending
	status, _ = s.do(http.MethodPut, "/api/v1/loans/"+loan.ID+"/verify", verifier, nil)
	assert.Equal(t, http.StatusConflict, status)

	admin := s.login("admin@creditsea.com", "admin123")

	status, env = s.do(http.MethodPut, "/api/v1/loans/"+loan.ID+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	decode(t, env, &loan)
	assert.Equal(t, "approved", loan.Status)

	status, env = s.do(http.MethodGet, "/api/v1/loans/statistics", applicant, nil)
	require.Equal(t, http.StatusOK, status)
	var stats struct {
		TotalLoans      int64   `json:"total_loans"`
		ApprovedLoans   int64   `json:"approved_loans"`
		DisbursedAmount float64 `json:"disbursed_amount"`
		ReceivedAmount  float64 `json:"received_amount"`
	}
	decode(t, env, &stats)
	assert.Equal(t, int64(1), stats.TotalLoans)
	assert.Equal(t, int64(1), stats.ApprovedLoans)
	assert.Equal(t, 50000.0, stats.DisbursedAmount)
	assert.Equal(t, 50000.0, stats.ReceivedAmount)

	status, env = s.do(http.MethodGet, "/api/v1/loans/"+loan.ID+"/history", applicant, nil)
	require.Equal(t, http.StatusOK, status)
	var events []struct {
		Type     string `json:"type"`
		ToStatus string `json:"to_status"`
	}
	decode(t, env, &events)
	require.Len(t, events, 3)
	assert.Equal(t, "CREATE", events[0].Type)
	assert.Equal(t, "VERIFY", events[1].Type)
	assert.Equal(t, "APPROVE", events[2].Type)

	status, env = s.do(http.MethodGet, "/api/v1/loans?page=1&limit=10", admin, nil)
	require.Equal(t, http.StatusOK, status)
	var page struct {
		Data []struct {
			ID        string `json:"id"`
			Applicant struct {
				Email string `json:"email"`
			} `json:"applicant"`
		} `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	decode(t, env, &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "jane@example.com", page.Data[0].Applicant.Email)
	assert.Equal(t, int64(1), page.Meta.Total)
}

func TestAccessControl(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(http.MethodGet, "/api/v1/loans", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)

	status, _ = s.do(http.MethodGet, "/api/v1/loans/statistics", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	applicant := s.token(s.do(http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"full_name": "Sam Applicant",
		"email":     "sam@example.com",
		"password":  "secret123",
	}))

	for _, path := range []string{"/api/v1/loans", "/api/v1/loans/pending", "/api/v1/loans/verified", "/api/v1/admins"} {
		status, _ := s.do(http.MethodGet, path, applicant, nil)
		assert.Equal(t, http.StatusForbidden, status, path)
	}

	// role is checked before the loan is looked up
	status, _ = s.do(http.MethodPut, "/api/v1/loans/does-not-exist/approve", applicant, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(http.MethodGet, "/api/v1/loans/does-not-exist", applicant, nil)
	assert.Equal(t, http.StatusNotFound, status)

	admin := s.login("admin@creditsea.com", "admin123")
	status, _ = s.do(http.MethodPut, "/api/v1/loans/does-not-exist/approve", admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestValidationDetails(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"full_name": "A",
		"email":     "not-an-email",
		"password":  "123",
	})
	require.Equal(t, http.StatusBadRequest, status)
	fields := map[string]bool{}
	for _, d := range env.Details {
		fields[d.Field] = true
	}
	assert.True(t, fields["full_name"])
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])

	applicant := s.token(s.do(http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"full_name": "Val Applicant",
		"email":     "val@example.com",
		"password":  "secret123",
	}))

	status, env = s.do(http.MethodPost, "/api/v1/loans", applicant, fiber.Map{
		"amount":             500,
		"purpose":            "ab",
		"employment_status":  "employed",
		"employment_address": "123 Business St",
	})
	require.Equal(t, http.StatusBadRequest, status)
	fields = map[string]bool{}
	for _, d := range env.Details {
		fields[d.Field] = true
	}
	assert.True(t, fields["amount"])
	assert.True(t, fields["purpose"])
	assert.False(t, fields["employment_status"])

	status, _ = s.do(http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"full_name": "Val Again",
		"email":     "VAL@example.com",
		"password":  "secret123",
	})
	assert.Equal(t, http.StatusConflict, status)
}

func TestAdminManagementAndReject(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin@creditsea.com", "admin123")

	status, env := s.do(http.MethodPost, "/api/v1/admins", admin, fiber.Map{
		"full_name": "Second Admin",
		"email":     "second@creditsea.com",
		"password":  "admin456",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var created struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	decode(t, env, &created)
	assert.Equal(t, "admin", created.Role)

	status, env = s.do(http.MethodGet, "/api/v1/admins", admin, nil)
	require.Equal(t, http.StatusOK, status)
	var admins []struct {
		ID string `json:"id"`
	}
	decode(t, env, &admins)
	assert.Len(t, admins, 2)

	status, _ = s.do(http.MethodDelete, "/api/v1/admins/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.do(http.MethodDelete, "/api/v1/admins/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = s.do(http.MethodPost, "/api/v1/loans", admin, fiber.Map{
		"amount":             1000,
		"purpose":            "office equipment",
		"employment_status":  "self-employed",
		"employment_address": "9 Market Road",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var loan loanBody
	decode(t, env, &loan)

	status, env = s.do(http.MethodPut, "/api/v1/loans/"+loan.ID+"/reject", admin, fiber.Map{"reason": "incomplete documents"})
	require.Equal(t, http.StatusOK, status, env.Error)
	var rejected struct {
		Status          string `json:"status"`
		RejectionReason string `json:"rejection_reason"`
	}
	decode(t, env, &rejected)
	assert.Equal(t, "rejected", rejected.Status)
	assert.Equal(t, "incomplete documents", rejected.RejectionReason)

	status, _ = s.do(http.MethodPut, "/api/v1/loans/"+loan.ID+"/approve", admin, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestDeleteAdminWithLoans(t *testing.T) {
	s := newTestServer(t)
	first := s.login("admin@creditsea.com", "admin123")

	status, env := s.do(http.MethodPost, "/api/v1/loans", first, fiber.Map{
		"amount":             5000,
		"purpose":            "laptop purchase",
		"employment_status":  "employed",
		"employment_address": "1 Head Office Road",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var loan loanBody
	decode(t, env, &loan)

	status, env = s.do(http.MethodGet, "/api/v1/auth/me", first, nil)
	require.Equal(t, http.StatusOK, status)
	var me struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(t, env, &me)

	status, env = s.do(http.MethodPost, "/api/v1/admins", first, fiber.Map{
		"full_name": "Second Admin",
		"email":     "second@creditsea.com",
		"password":  "admin456",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	second := s.login("second@creditsea.com", "admin456")

	status, env = s.do(http.MethodDelete, "/api/v1/admins/"+me.User.ID, second, nil)
	require.Equal(t, http.StatusOK, status, env.Error)

	// the loan stays, still pointing at its former owner
	status, env = s.do(http.MethodGet, "/api/v1/loans/"+loan.ID, second, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	var stored struct {
		UserID string `json:"user_id"`
	}
	decode(t, env, &stored)
	assert.Equal(t, me.User.ID, stored.UserID)
}

func TestCreateLoanWrongAmountType(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin@creditsea.com", "admin123")

	status, env := s.do(http.MethodPost, "/api/v1/loans", admin, fiber.Map{
		"amount":             "abc",
		"purpose":            "home renovation",
		"employment_status":  "employed",
		"employment_address": "123 Business St",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Len(t, env.Details, 1)
	assert.Equal(t, "amount", env.Details[0].Field)
	assert.Equal(t, "amount must be a number", env.Details[0].Message)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = s.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
