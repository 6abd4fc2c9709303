package controllers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/plumeapp/plume/models"
)

func TestCreateCommentAndReply(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	author := seedUser(t, db, "alice")
	commenter := seedUser(t, db, "bob")
	post := seedPost(t, db, author.ID, "p", "technology", false, false)

	w := doRequest(t, r, "POST", path("/api/v1/posts/%d/comments", post.ID), map[string]interface{}{
		"content": "nice post",
	}, commenter.ID)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	commentID := uint(data["comment"].(map[string]interface{})["id"].(float64))

	w = doRequest(t, r, "POST", path("/api/v1/posts/%d/comments", post.ID), map[string]interface{}{
		"content":   "thanks",
		"parent_id": commentID,
	}, author.ID)
	wantStatus(t, w, http.StatusOK)

	var reply models.Comment
	db.Where("parent_id = ?", commentID).First(&reply)
	if !reply.IsReply() {
		t.Error("reply should carry its parent id")
	}
}

func TestCreateCommentRejectsNestedReply(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	author := seedUser(t, db, "alice")
	post := seedPost(t, db, author.ID, "p", "technology", false, false)
	top := seedComment(t, db, post.ID, author.ID, nil, "top")
	reply := seedComment(t, db, post.ID, author.ID, &top.ID, "reply")

	w := doRequest(t, r, "POST", path("/api/v1/posts/%d/comments", post.ID), map[string]interface{}{
		"content":   "reply to reply",
		"parent_id": reply.ID,
	}, author.ID)
	wantStatus(t, w, http.StatusBadRequest)
}

func TestCreateCommentRejectsCrossPostParent(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	author := seedUser(t, db, "alice")
	postA := seedPost(t, db, author.ID, "a", "technology", false, false)
	postB := seedPost(t, db, author.ID, "b", "technology", false, false)
	parent := seedComment(t, db, postA.ID, author.ID, nil, "on a")

	w := doRequest(t, r, "POST", path("/api/v1/posts/%d/comments", postB.ID), map[string]interface{}{
		"content":   "wrong thread",
		"parent_id": parent.ID,
	}, author.ID)
	wantStatus(t, w, http.StatusBadRequest)
}

func TestCreateCommentValidatesContent(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	author := seedUser(t, db, "alice")
	post := seedPost(t, db, author.ID, "p", "technology", false, false)

	w := doRequest(t, r, "POST", path("/api/v1/posts/%d/comments", post.ID), map[string]interface{}{
		"content": "   ",
	}, author.ID)
	wantStatus(t, w, http.StatusBadRequest)

	w = doRequest(t, r, "POST", path("/api/v1/posts/%d/comments", post.ID), map[string]interface{}{
		"content": strings.Repeat("a", models.MaxCommentLength+1),
	}, author.ID)
	wantStatus(t, w, http.StatusBadRequest)
}

func TestEditCommentAuthorOnly(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	author := seedUser(t, db, "alice")
	other := seedUser(t, db, "bob")
	post := seedPost(t, db, author.ID, "p", "technology", false, false)
	comment := seedComment(t, db, post.ID, author.ID, nil, "original")

	w := doRequest(t, r, "PUT", path("/api/v1/comments/%d", comment.ID), map[string]interface{}{
		"content": "hijacked",
	}, other.ID)
	wantStatus(t, w, http.StatusForbidden)

	w = doRequest(t, r, "PUT", path("/api/v1/comments/%d", comment.ID), map[string]interface{}{
		"content": "edited",
	}, author.ID)
	wantStatus(t, w, http.StatusOK)

	var reloaded models.Comment
	db.First(&reloaded, comment.ID)
	if reloaded.Content != "edited" {
		t.Errorf("content = %q, want %q", reloaded.Content, "edited")
	}
}

func TestDeleteCommentByPostOwner(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	owner := seedUser(t, db, "alice")
	commenter := seedUser(t, db, "bob")
	stranger := seedUser(t, db, "carol")
	post := seedPost(t, db, owner.ID, "p", "technology", false, false)
	comment := seedComment(t, db, post.ID, commenter.ID, nil, "spam")

	w := doRequest(t, r, "DELETE", path("/api/v1/comments/%d", comment.ID), nil, stranger.ID)
	wantStatus(t, w, http.StatusForbidden)

	w = doRequest(t, r, "DELETE", path("/api/v1/comments/%d", comment.ID), nil, owner.ID)
	wantStatus(t, w, http.StatusOK)
	if n := countRows(db, &models.Comment{}); n != 0 {
		t.Errorf("comments remaining = %d, want 0", n)
	}
}

func TestDeleteTopLevelCommentCascadesReplies(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	author := seedUser(t, db, "alice")
	post := seedPost(t, db, author.ID, "p", "technology", false, false)
	top := seedComment(t, db, post.ID, author.ID, nil, "top")
	reply := seedComment(t, db, post.ID, author.ID, &top.ID, "reply")
	db.Create(&models.CommentLike{UserID: author.ID, CommentID: reply.ID, PostID: post.ID})
	db.Create(&models.CommentLike{UserID: author.ID, CommentID: top.ID, PostID: post.ID})
	keeper := seedComment(t, db, post.ID, author.ID, nil, "unrelated")

	w := doRequest(t, r, "DELETE", path("/api/v1/comments/%d", top.ID), nil, author.ID)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	if data["replies_deleted"].(float64) != 1 {
		t.Errorf("replies_deleted = %v, want 1", data["replies_deleted"])
	}

	var remaining []models.Comment
	db.Find(&remaining)
	if len(remaining) != 1 || remaining[0].ID != keeper.ID {
		t.Errorf("remaining comments = %v, want only the unrelated one", remaining)
	}
	if n := countRows(db, &models.CommentLike{}); n != 0 {
		t.Errorf("comment likes remaining = %d, want 0", n)
	}
}

func TestListCommentsWithReplyPreviews(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	author := seedUser(t, db, "alice")
	post := seedPost(t, db, author.ID, "p", "technology", false, false)
	top := seedComment(t, db, post.ID, author.ID, nil, "top")
	for i := 0; i < repliesPreviewLimit+3; i++ {
		seedComment(t, db, post.ID, author.ID, &top.ID, path("reply %d", i))
	}
	db.Create(&models.CommentLike{UserID: author.ID, CommentID: top.ID, PostID: post.ID})

	w := doRequest(t, r, "GET", path("/api/v1/posts/%d/comments", post.ID), nil, author.ID)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	comments := data["comments"].([]interface{})
	if len(comments) != 1 {
		t.Fatalf("top-level comments = %d, want 1", len(comments))
	}
	item := comments[0].(map[string]interface{})
	if item["replies_count"].(float64) != float64(repliesPreviewLimit+3) {
		t.Errorf("replies_count = %v", item["replies_count"])
	}
	if got := len(item["replies"].([]interface{})); got != repliesPreviewLimit {
		t.Errorf("embedded replies = %d, want %d", got, repliesPreviewLimit)
	}
	if item["has_more_replies"] != true {
		t.Error("has_more_replies should be true")
	}
	if item["is_liked"] != true {
		t.Error("is_liked should reflect the caller's like")
	}
	if item["likes"].(float64) != 1 {
		t.Errorf("likes = %v, want 1", item["likes"])
	}
}

func TestListCommentsShowsEditedTimestamp(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	author := seedUser(t, db, "alice")
	post := seedPost(t, db, author.ID, "p", "technology", false, false)
	comment := seedComment(t, db, post.ID, author.ID, nil, "original")
	backdated := time.Now().Add(-time.Hour)
	db.Model(&comment).Updates(map[string]interface{}{
		"created_at": backdated,
		"updated_at": backdated,
	})

	w := doRequest(t, r, "PUT", path("/api/v1/comments/%d", comment.ID), map[string]interface{}{
		"content": "edited",
	}, author.ID)
	wantStatus(t, w, http.StatusOK)

	w = doRequest(t, r, "GET", path("/api/v1/posts/%d/comments", post.ID), nil, 0)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	item := data["comments"].([]interface{})[0].(map[string]interface{})
	stamp, err := time.Parse(time.RFC3339, item["timestamp"].(string))
	if err != nil {
		t.Fatalf("parse timestamp %q: %v", item["timestamp"], err)
	}
	if !stamp.After(backdated.Add(30 * time.Minute)) {
		t.Errorf("listed timestamp = %v, want the edit-time bump, not creation time %v", stamp, backdated)
	}
}

func TestListRepliesOldestFirst(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	author := seedUser(t, db, "alice")
	post := seedPost(t, db, author.ID, "p", "technology", false, false)
	top := seedComment(t, db, post.ID, author.ID, nil, "top")
	first := seedComment(t, db, post.ID, author.ID, &top.ID, "first")
	seedComment(t, db, post.ID, author.ID, &top.ID, "second")

	w := doRequest(t, r, "GET", path("/api/v1/comments/%d/replies", top.ID), nil, 0)
	wantStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	replies := data["replies"].([]interface{})
	if len(replies) != 2 {
		t.Fatalf("replies = %d, want 2", len(replies))
	}
	if uint(replies[0].(map[string]interface{})["id"].(float64)) != first.ID {
		t.Error("replies should be ordered oldest first")
	}
}
