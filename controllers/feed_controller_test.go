package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/plumeapp/plume/models"
)

func TestTrendingOrdersByLikes(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	author := seedUser(t, db, "alice")
	fans := []models.User{seedUser(t, db, "bob"), seedUser(t, db, "carol")}

	quiet := seedPost(t, db, author.ID, "quiet", "technology", false, false)
	popular := seedPost(t, db, author.ID, "popular", "technology", false, false)
	for _, fan := range fans {
		db.Create(&models.Like{UserID: fan.ID, PostID: popular.ID})
	}
	db.Create(&models.Like{UserID: fans[0].ID, PostID: quiet.ID})

	w := doRequest(t, r, "GET", "/api/v1/trending", nil, 0)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	posts := data["posts"].([]interface{})
	if len(posts) != 2 {
		t.Fatalf("trending posts = %d, want 2", len(posts))
	}
	first := posts[0].(map[string]interface{})
	if first["title"] != "popular" {
		t.Errorf("first trending post = %v, want the most liked", first["title"])
	}
	if first["likes"].(float64) != 2 {
		t.Errorf("likes = %v, want 2", first["likes"])
	}
}

func TestTrendingExcludesOldAndHiddenPosts(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	author := seedUser(t, db, "alice")

	old := seedPost(t, db, author.ID, "old", "technology", false, false)
	db.Model(&old).Update("created_at", time.Now().Add(-8*24*time.Hour))
	seedPost(t, db, author.ID, "draft", "technology", true, false)
	seedPost(t, db, author.ID, "fresh", "technology", false, false)

	w := doRequest(t, r, "GET", "/api/v1/trending", nil, 0)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	posts := data["posts"].([]interface{})
	if len(posts) != 1 {
		t.Fatalf("trending posts = %d, want 1", len(posts))
	}
	if posts[0].(map[string]interface{})["title"] != "fresh" {
		t.Errorf("trending = %v", posts[0])
	}
	if data["pagination"].(map[string]interface{})["total"].(float64) != 1 {
		t.Errorf("total = %v, want 1", data["pagination"])
	}
}

func TestRecommendationsWithoutPreferences(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	user := seedUser(t, db, "alice")

	w := doRequest(t, r, "GET", "/api/v1/recommendations", nil, user.ID)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	if posts := data["posts"].([]interface{}); len(posts) != 0 {
		t.Errorf("posts = %d, want 0", len(posts))
	}
	if _, ok := data["message"]; !ok {
		t.Error("missing guidance message when no preferences are set")
	}
}

func TestRecommendationsFilterByPreference(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	reader := seedUser(t, db, "alice")
	writer := seedUser(t, db, "bob")
	db.Create(&models.CategoryPreference{UserID: reader.ID, Category: "science"})

	seedPost(t, db, writer.ID, "match", "science", false, false)
	seedPost(t, db, writer.ID, "miss", "travel", false, false)
	seedPost(t, db, reader.ID, "own", "science", false, false)
	seedPost(t, db, writer.ID, "hidden", "science", true, false)

	w := doRequest(t, r, "GET", "/api/v1/recommendations", nil, reader.ID)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	posts := data["posts"].([]interface{})
	if len(posts) != 1 {
		t.Fatalf("recommendations = %d, want 1", len(posts))
	}
	if posts[0].(map[string]interface{})["title"] != "match" {
		t.Errorf("recommendation = %v", posts[0])
	}
}
