package controllers

import (
	"net/http"
	"testing"

	"github.com/plumeapp/plume/models"
)

func TestGetUserProfileStats(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	author := seedUser(t, db, "alice")
	fan := seedUser(t, db, "bob")

	visible := seedPost(t, db, author.ID, "visible", "technology", false, false)
	draft := seedPost(t, db, author.ID, "draft", "technology", true, false)
	db.Create(&models.Like{UserID: fan.ID, PostID: visible.ID})
	db.Create(&models.Like{UserID: author.ID, PostID: draft.ID})
	db.Create(&models.PostView{PostID: visible.ID})
	db.Create(&models.PostView{PostID: draft.ID})
	db.Create(&models.Follow{FollowerID: fan.ID, FollowedID: author.ID})

	w := doRequest(t, r, "GET", "/api/v1/users/profile/alice", nil, 0)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)

	stats := data["stats"].(map[string]interface{})
	if stats["total_posts"].(float64) != 1 {
		t.Errorf("total_posts = %v, want 1 (drafts excluded)", stats["total_posts"])
	}
	if stats["likes_received"].(float64) != 2 {
		t.Errorf("likes_received = %v, want 2 (drafts count toward totals)", stats["likes_received"])
	}
	if stats["views_received"].(float64) != 2 {
		t.Errorf("views_received = %v, want 2 (drafts count toward totals)", stats["views_received"])
	}
	if stats["followers"].(float64) != 1 {
		t.Errorf("followers = %v, want 1", stats["followers"])
	}

	posts := data["posts"].([]interface{})
	if len(posts) != 1 {
		t.Fatalf("profile posts = %d, want 1", len(posts))
	}
	if posts[0].(map[string]interface{})["title"] != "visible" {
		t.Errorf("profile post = %v", posts[0])
	}
}

func TestGetUserProfileNotFound(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)

	w := doRequest(t, r, "GET", "/api/v1/users/profile/ghost", nil, 0)
	wantStatus(t, w, http.StatusNotFound)
}

func TestListUsersWithSearch(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	alice := seedUser(t, db, "alice")
	seedUser(t, db, "alicia")
	seedUser(t, db, "bob")
	seedPost(t, db, alice.ID, "published", "technology", false, false)
	seedPost(t, db, alice.ID, "draft", "technology", true, false)

	w := doRequest(t, r, "GET", "/api/v1/users?search=ali", nil, 0)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	users := data["users"].([]interface{})
	if len(users) != 2 {
		t.Fatalf("users = %d, want 2", len(users))
	}
	first := users[0].(map[string]interface{})
	if first["username"] != "alice" {
		t.Errorf("users should be ordered by username, got %v", first)
	}
	if first["post_count"].(float64) != 1 {
		t.Errorf("post_count = %v, want 1 (drafts excluded)", first["post_count"])
	}
}

func TestListUsersExcludesUnverified(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	seedUser(t, db, "alice")
	db.Create(&models.User{
		Username:     "pending",
		Email:        "pending@example.com",
		PasswordHash: "x",
		IsVerified:   false,
	})

	w := doRequest(t, r, "GET", "/api/v1/users", nil, 0)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	users := data["users"].([]interface{})
	if len(users) != 1 {
		t.Fatalf("users = %d, want 1 (unverified hidden)", len(users))
	}
	if users[0].(map[string]interface{})["username"] != "alice" {
		t.Errorf("users = %v", users[0])
	}
}
