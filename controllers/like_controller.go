package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plumeapp/plume/models"
	"github.com/plumeapp/plume/utils"
)

// LikeController flips and reports like state for posts and comments.
type LikeController struct {
	db *gorm.DB
}

// NewLikeController creates a new LikeController instance.
func NewLikeController(db *gorm.DB) *LikeController {
	return &LikeController{db: db}
}

// TogglePostLike likes the post when the caller has not liked it, unlikes it
// otherwise. Both directions return the fresh count.
func (l *LikeController) TogglePostLike(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid post id")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40140, "unauthorized")
		return
	}

	var post models.Post
	if err := l.db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to load post")
		return
	}

	liked, err := toggleRow(l.db, &models.Like{},
		map[string]interface{}{"user_id": userID, "post_id": post.ID},
		&models.Like{UserID: userID, PostID: post.ID})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to toggle like")
		return
	}

	var count int64
	l.db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&count)

	message := "post unliked"
	if liked {
		message = "post liked"
	}
	utils.Success(ctx, gin.H{"message": message, "liked": liked, "likes": count})
}

// PostLikeCount reports a post's like total and, for authenticated callers,
// whether they are among the likers.
func (l *LikeController) PostLikeCount(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40061, "invalid post id")
		return
	}

	var post models.Post
	if err := l.db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40421, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to load post")
		return
	}

	var count int64
	l.db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&count)

	liked := false
	if callerID := optionalUserID(ctx); callerID != nil {
		var mine int64
		l.db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", post.ID, *callerID).Count(&mine)
		liked = mine > 0
	}

	utils.Success(ctx, gin.H{"likes": count, "liked": liked})
}

// ToggleCommentLike flips the caller's like on a comment.
func (l *LikeController) ToggleCommentLike(ctx *gin.Context) {
	commentID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40062, "invalid comment id")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40141, "unauthorized")
		return
	}

	var comment models.Comment
	if err := l.db.First(&comment, commentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40422, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to load comment")
		return
	}

	liked, err := toggleRow(l.db, &models.CommentLike{},
		map[string]interface{}{"user_id": userID, "comment_id": comment.ID},
		&models.CommentLike{UserID: userID, CommentID: comment.ID, PostID: comment.PostID})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50064, "failed to toggle like")
		return
	}

	var count int64
	l.db.Model(&models.CommentLike{}).Where("comment_id = ?", comment.ID).Count(&count)

	message := "comment unliked"
	if liked {
		message = "comment liked"
	}
	utils.Success(ctx, gin.H{"message": message, "liked": liked, "likes": count})
}

// CommentLikeCount reports a comment's like total and the caller's state.
func (l *LikeController) CommentLikeCount(ctx *gin.Context) {
	commentID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40063, "invalid comment id")
		return
	}

	var comment models.Comment
	if err := l.db.First(&comment, commentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40423, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50065, "failed to load comment")
		return
	}

	var count int64
	l.db.Model(&models.CommentLike{}).Where("comment_id = ?", comment.ID).Count(&count)

	liked := false
	if callerID := optionalUserID(ctx); callerID != nil {
		var mine int64
		l.db.Model(&models.CommentLike{}).Where("comment_id = ? AND user_id = ?", comment.ID, *callerID).Count(&mine)
		liked = mine > 0
	}

	utils.Success(ctx, gin.H{"likes": count, "liked": liked})
}
