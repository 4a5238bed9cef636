package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/mymoo-services/api/internal/config"
	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Addr:           ":0",
		AppEnv:         "test",
		BasePath:       "/api/v1",
		StoreBackend:   config.BackendSQLite,
		DatabaseURL:    filepath.Join(t.TempDir(), "server.db"),
		ConnectTimeout: 5 * time.Second,
		RequestTimeout: 5 * time.Second,
		JWTConfigs:     []config.JWTConfig{lineIssuer},
		JWTAudience:    "mymoo-web",
		AdminJWT:       adminIssuer,
		AllowedOrigins: []string{"https://mymoo.example"},
	}
}

func setupTestServer(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	backend, err := OpenBackend(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = backend.Close(context.Background())
	})
	return New(cfg, backend, zerolog.Nop()).Handler()
}

func liveToken(t *testing.T, cfg config.JWTConfig, subject string) string {
	t.Helper()
	claims := claimsFor(cfg.Issuer, subject)
	claims.IssuedAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	return signToken(t, cfg, claims)
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	handler := setupTestServer(t, testConfig(t))

	rec := doJSON(t, handler, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, config.BackendSQLite, body["backend"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHealthzDegraded(t *testing.T) {
	cfg := testConfig(t)
	backend := &Backend{
		Name: config.BackendSQLite,
		Health: checkFunc(func(context.Context) error {
			return errors.New("database is locked")
		}),
	}
	handler := New(cfg, backend, zerolog.Nop()).Handler()

	rec := doJSON(t, handler, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestStoreLifecycle(t *testing.T) {
	cfg := testConfig(t)
	handler := setupTestServer(t, cfg)
	adminToken := liveToken(t, adminIssuer, "1")
	userToken := liveToken(t, lineIssuer, "42")

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/admin/stores", adminToken, map[string]any{
		"name":        "Mymoo Coffee",
		"address":     "Seoul, Jongno-gu 1",
		"description": "Hand drip coffee",
		"phoneNumber": "02-123-4567",
		"longitude":   126.9780,
		"latitude":    37.5665,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Positive(t, created.ID)
	storePath := fmt.Sprintf("/api/v1/stores/%d", created.ID)

	rec = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/admin/stores/%d/menus", created.ID), adminToken, map[string]any{
		"name":  "Americano",
		"price": 4500,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/stores?logt=126.97&lat=37.56", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list domain.StoreList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Stores, 1)
	assert.Equal(t, "Mymoo Coffee", list.Stores[0].Name)
	assert.True(t, list.Stores[0].Likeable)
	assert.False(t, list.HasNext)

	rec = doJSON(t, handler, http.MethodPatch, storePath, userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var like domain.LikeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &like))
	assert.Equal(t, domain.LikeActionLiked, like.Action)
	assert.Equal(t, 1, like.LikeCount)
	assert.False(t, like.Likeable)

	rec = doJSON(t, handler, http.MethodPost, storePath+"/donations", userToken, map[string]any{"point": 3000})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var receipt domain.DonationReceipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.Equal(t, int64(3000), receipt.AllDonation)
	assert.Equal(t, int64(3000), receipt.UsableDonation)

	rec = doJSON(t, handler, http.MethodGet, storePath, userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail domain.StoreDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, 1, detail.LikeCount)
	assert.Equal(t, int64(3000), detail.UsableDonation)
	assert.False(t, detail.Likeable)

	rec = doJSON(t, handler, http.MethodGet, storePath+"/donations", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var donations domain.DonationList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &donations))
	require.Len(t, donations.Donations, 1)
	assert.Equal(t, "momo", donations.Donations[0].Donator)

	rec = doJSON(t, handler, http.MethodGet, storePath+"/menus", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Americano")
}

func TestAdminRoutesRequireAdminToken(t *testing.T) {
	handler := setupTestServer(t, testConfig(t))

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/admin/stores", liveToken(t, lineIssuer, "42"), map[string]any{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestAdminRoutesDisabledWithoutSecret(t *testing.T) {
	cfg := testConfig(t)
	cfg.AdminJWT = config.JWTConfig{}
	handler := setupTestServer(t, cfg)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/admin/stores/1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownStoreIsNotFound(t *testing.T) {
	handler := setupTestServer(t, testConfig(t))

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/stores/999", liveToken(t, lineIssuer, "42"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestCORSPreflight(t *testing.T) {
	handler := setupTestServer(t, testConfig(t))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/stores", nil)
	req.Header.Set("Origin", "https://mymoo.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://mymoo.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/stores", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
