package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pawbase/pawbase/internal/auth"
	"github.com/pawbase/pawbase/internal/repo"
)

func TestAuthHandler_Login(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	hash, err := auth.HashPassword("password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	mock.ExpectQuery(`SELECT id, name, username, password_hash`).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "password_hash"}).
			AddRow(1, "Admin", "admin", hash))
	mock.ExpectQuery(`INSERT INTO tokens \(token, user_id\)`).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "user_id"}).
			AddRow(1, "sometokenvalue", 1))

	h := &AuthHandler{UserRepo: repo.NewUserRepo(db), TokenRepo: repo.NewTokenRepo(db)}

	req := httptest.NewRequest("POST", "/api/users/login", nil)
	req.SetBasicAuth("admin", "password")
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("Login status: got %d, want 201", rr.Code)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Token == "" {
		t.Error("expected a token in the response")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	hash, err := auth.HashPassword("correct")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	// Only the lookup runs; a failed login must never insert a token.
	mock.ExpectQuery(`SELECT id, name, username, password_hash`).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "password_hash"}).
			AddRow(1, "Admin", "admin", hash))

	h := &AuthHandler{UserRepo: repo.NewUserRepo(db), TokenRepo: repo.NewTokenRepo(db)}

	req := httptest.NewRequest("POST", "/api/users/login", nil)
	req.SetBasicAuth("admin", "wrong")
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Login status: got %d, want 401", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_MissingCredentials(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &AuthHandler{UserRepo: repo.NewUserRepo(db), TokenRepo: repo.NewTokenRepo(db)}

	req := httptest.NewRequest("POST", "/api/users/login", nil)
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Login status: got %d, want 401", rr.Code)
	}
	if rr.Header().Get("WWW-Authenticate") == "" {
		t.Error("expected WWW-Authenticate challenge header")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
