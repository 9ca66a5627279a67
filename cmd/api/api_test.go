package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pawbase/pawbase/internal/auth"
	"github.com/pawbase/pawbase/internal/config"
)

// TestAPI_LoginThenListPets is an integration test: it builds the full router
// with a sqlmock-backed DB, logs in with basic auth to get a bearer token,
// then calls GET /api/pets with the token.
func TestAPI_LoginThenListPets(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	hash, err := auth.HashPassword("password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	// Login: GetByUsername("admin") then token insert.
	mock.ExpectQuery(`SELECT id, name, username, password_hash`).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "password_hash"}).
			AddRow(1, "Admin", "admin", hash))
	mock.ExpectQuery(`INSERT INTO tokens \(token, user_id\)`).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "user_id"}).
			AddRow(1, "integrationtoken", 1))

	// GET /api/pets: token resolution, then the list itself.
	mock.ExpectQuery(`SELECT u.id, u.name, u.username, u.password_hash`).
		WithArgs("integrationtoken").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "password_hash"}).
			AddRow(1, "Admin", "admin", hash))
	mock.ExpectQuery(`SELECT id, name, age, user_id FROM pets ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "age", "user_id"}).
			AddRow(1, "Rex", 3, 1))

	cfg := config.Config{RateLimitPerMinute: 600}
	r := newRouter(db, cfg)
	srv := httptest.NewServer(r)
	defer srv.Close()

	// 1) Login with basic auth
	loginReq, _ := http.NewRequest("POST", srv.URL+"/api/users/login", nil)
	loginReq.SetBasicAuth("admin", "password")
	loginResp, err := http.DefaultClient.Do(loginReq)
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer loginResp.Body.Close()
	if loginResp.StatusCode != http.StatusCreated {
		t.Fatalf("login status: got %d, want 201", loginResp.StatusCode)
	}
	var loginOut struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(loginResp.Body).Decode(&loginOut); err != nil || loginOut.Token == "" {
		t.Fatalf("login response: %v", err)
	}

	// 2) GET /api/pets with the bearer token
	petsReq, _ := http.NewRequest("GET", srv.URL+"/api/pets", nil)
	petsReq.Header.Set("Authorization", "Bearer "+loginOut.Token)
	petsResp, err := http.DefaultClient.Do(petsReq)
	if err != nil {
		t.Fatalf("pets request: %v", err)
	}
	defer petsResp.Body.Close()
	if petsResp.StatusCode != http.StatusOK {
		t.Fatalf("pets status: got %d, want 200", petsResp.StatusCode)
	}
	var pets []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(petsResp.Body).Decode(&pets); err != nil {
		t.Fatalf("decode pets: %v", err)
	}
	if len(pets) != 1 || pets[0].Name != "Rex" {
		t.Fatalf("unexpected pets: %+v", pets)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// TestAPI_ProtectedWithoutToken verifies the bearer guard sits in front of
// every /api route except login.
func TestAPI_ProtectedWithoutToken(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	cfg := config.Config{RateLimitPerMinute: 600}
	r := newRouter(db, cfg)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/pets")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", resp.StatusCode)
	}
}
