package controllers

import (
	"net/http"
	"testing"

	"github.com/plumeapp/plume/models"
)

func TestToggleFollow(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	w := doRequest(t, r, "POST", path("/api/v1/users/%d/follow", bob.ID), nil, alice.ID)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	if data["is_following"] != true || data["followers"].(float64) != 1 {
		t.Errorf("follow = %v", data)
	}

	w = doRequest(t, r, "POST", path("/api/v1/users/%d/follow", bob.ID), nil, alice.ID)
	wantStatus(t, w, http.StatusOK)
	data = decodeData(t, w)
	if data["is_following"] != false || data["followers"].(float64) != 0 {
		t.Errorf("unfollow = %v", data)
	}
	if n := countRows(db, &models.Follow{}); n != 0 {
		t.Errorf("follow rows = %d, want 0", n)
	}
}

func TestToggleFollowRejectsSelf(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	alice := seedUser(t, db, "alice")

	w := doRequest(t, r, "POST", path("/api/v1/users/%d/follow", alice.ID), nil, alice.ID)
	wantStatus(t, w, http.StatusBadRequest)
}

func TestToggleFollowUnknownTarget(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	alice := seedUser(t, db, "alice")

	w := doRequest(t, r, "POST", "/api/v1/users/999/follow", nil, alice.ID)
	wantStatus(t, w, http.StatusNotFound)
}

func TestCheckFollowStatus(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	db.Create(&models.Follow{FollowerID: alice.ID, FollowedID: bob.ID})

	w := doRequest(t, r, "GET", path("/api/v1/users/%d/follow-status", bob.ID), nil, alice.ID)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	if data["is_following"] != true || data["is_self"] != false {
		t.Errorf("status = %v", data)
	}

	w = doRequest(t, r, "GET", path("/api/v1/users/%d/follow-status", alice.ID), nil, alice.ID)
	data = decodeData(t, w)
	if data["is_self"] != true {
		t.Errorf("self status = %v", data)
	}
}

func TestListFollowersAndFollowing(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	db.Create(&models.Follow{FollowerID: bob.ID, FollowedID: alice.ID})
	db.Create(&models.Follow{FollowerID: carol.ID, FollowedID: alice.ID})
	db.Create(&models.Follow{FollowerID: alice.ID, FollowedID: bob.ID})

	w := doRequest(t, r, "GET", path("/api/v1/users/%d/followers", alice.ID), nil, 0)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	if followers := data["followers"].([]interface{}); len(followers) != 2 {
		t.Errorf("followers = %d, want 2", len(followers))
	}

	w = doRequest(t, r, "GET", path("/api/v1/users/%d/following", alice.ID), nil, 0)
	wantStatus(t, w, http.StatusOK)
	data = decodeData(t, w)
	following := data["following"].([]interface{})
	if len(following) != 1 {
		t.Fatalf("following = %d, want 1", len(following))
	}
	if following[0].(map[string]interface{})["username"] != "bob" {
		t.Errorf("following = %v", following[0])
	}
}

func TestFollowStats(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	db.Create(&models.Follow{FollowerID: bob.ID, FollowedID: alice.ID})

	w := doRequest(t, r, "GET", path("/api/v1/users/%d/follow-stats", alice.ID), nil, 0)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	if data["followers"].(float64) != 1 || data["following"].(float64) != 0 {
		t.Errorf("stats = %v", data)
	}

	w = doRequest(t, r, "GET", "/api/v1/users/999/follow-stats", nil, 0)
	wantStatus(t, w, http.StatusNotFound)
}
