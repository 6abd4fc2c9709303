package controllers

import (
	"net/http"
	"testing"

	"github.com/plumeapp/plume/models"
	"github.com/plumeapp/plume/utils"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)

	w := doRequest(t, r, "POST", "/api/v1/auth/register", map[string]interface{}{
		"username": "alice",
		"email":    "Alice@Example.com",
		"password": "secret123",
	}, 0)
	wantStatus(t, w, http.StatusOK)

	var user models.User
	if err := db.Where("username = ?", "alice").First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if user.PasswordHash == "secret123" {
		t.Error("password must not be stored in plaintext")
	}

	w = doRequest(t, r, "POST", "/api/v1/auth/login", map[string]interface{}{
		"username": "alice",
		"password": "secret123",
	}, 0)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	token, ok := data["token"].(string)
	if !ok || token == "" {
		t.Fatal("login should return a token")
	}
	claims, err := utils.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("token user id = %d, want %d", claims.UserID, user.ID)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	seedUser(t, db, "alice")

	w := doRequest(t, r, "POST", "/api/v1/auth/register", map[string]interface{}{
		"username": "alice",
		"email":    "new@example.com",
		"password": "secret123",
	}, 0)
	wantStatus(t, w, http.StatusConflict)

	w = doRequest(t, r, "POST", "/api/v1/auth/register", map[string]interface{}{
		"username": "newname",
		"email":    "alice@example.com",
		"password": "secret123",
	}, 0)
	wantStatus(t, w, http.StatusConflict)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)

	hash, err := utils.HashPassword("right")
	if err != nil {
		t.Fatal(err)
	}
	db.Create(&models.User{Username: "alice", Email: "alice@example.com", PasswordHash: hash})

	w := doRequest(t, r, "POST", "/api/v1/auth/login", map[string]interface{}{
		"username": "alice",
		"password": "wrong",
	}, 0)
	wantStatus(t, w, http.StatusUnauthorized)
}

func TestLoginByEmail(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)

	hash, err := utils.HashPassword("secret123")
	if err != nil {
		t.Fatal(err)
	}
	db.Create(&models.User{Username: "alice", Email: "alice@example.com", PasswordHash: hash})

	w := doRequest(t, r, "POST", "/api/v1/auth/login", map[string]interface{}{
		"username": "alice@example.com",
		"password": "secret123",
	}, 0)
	wantStatus(t, w, http.StatusOK)
}

func TestMeReturnsCaller(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	user := seedUser(t, db, "alice")

	w := doRequest(t, r, "GET", "/api/v1/auth/me", nil, user.ID)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	if data["user"].(map[string]interface{})["username"] != "alice" {
		t.Errorf("me = %v", data)
	}

	w = doRequest(t, r, "GET", "/api/v1/auth/me", nil, 0)
	wantStatus(t, w, http.StatusUnauthorized)
}
