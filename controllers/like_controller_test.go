package controllers

import (
	"net/http"
	"testing"

	"github.com/plumeapp/plume/models"
)

func TestTogglePostLike(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	author := seedUser(t, db, "alice")
	liker := seedUser(t, db, "bob")
	post := seedPost(t, db, author.ID, "p", "technology", false, false)

	w := doRequest(t, r, "POST", path("/api/v1/posts/%d/like", post.ID), nil, liker.ID)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	if data["liked"] != true || data["likes"].(float64) != 1 {
		t.Errorf("first toggle = %v", data)
	}

	w = doRequest(t, r, "POST", path("/api/v1/posts/%d/like", post.ID), nil, liker.ID)
	wantStatus(t, w, http.StatusOK)
	data = decodeData(t, w)
	if data["liked"] != false || data["likes"].(float64) != 0 {
		t.Errorf("second toggle = %v", data)
	}

	if n := countRows(db, &models.Like{}); n != 0 {
		t.Errorf("like rows = %d, want 0 after untoggle", n)
	}
}

func TestTogglePostLikeMissingPost(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	liker := seedUser(t, db, "bob")

	w := doRequest(t, r, "POST", "/api/v1/posts/999/like", nil, liker.ID)
	wantStatus(t, w, http.StatusNotFound)
}

func TestPostLikeCountReflectsCaller(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	author := seedUser(t, db, "alice")
	liker := seedUser(t, db, "bob")
	post := seedPost(t, db, author.ID, "p", "technology", false, false)
	db.Create(&models.Like{UserID: liker.ID, PostID: post.ID})

	w := doRequest(t, r, "GET", path("/api/v1/posts/%d/likes", post.ID), nil, liker.ID)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	if data["likes"].(float64) != 1 || data["liked"] != true {
		t.Errorf("caller view = %v", data)
	}

	w = doRequest(t, r, "GET", path("/api/v1/posts/%d/likes", post.ID), nil, 0)
	data = decodeData(t, w)
	if data["liked"] != false {
		t.Error("anonymous caller should never read liked=true")
	}
}

func TestToggleCommentLike(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	author := seedUser(t, db, "alice")
	post := seedPost(t, db, author.ID, "p", "technology", false, false)
	comment := seedComment(t, db, post.ID, author.ID, nil, "c")

	w := doRequest(t, r, "POST", path("/api/v1/comments/%d/like", comment.ID), nil, author.ID)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	if data["liked"] != true || data["likes"].(float64) != 1 {
		t.Errorf("toggle = %v", data)
	}

	var row models.CommentLike
	db.First(&row)
	if row.PostID != post.ID {
		t.Errorf("comment like should carry the post id, got %d", row.PostID)
	}

	w = doRequest(t, r, "POST", path("/api/v1/comments/%d/like", comment.ID), nil, author.ID)
	data = decodeData(t, w)
	if data["liked"] != false {
		t.Errorf("second toggle = %v", data)
	}
}
