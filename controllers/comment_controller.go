package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plumeapp/plume/models"
	"github.com/plumeapp/plume/utils"
)

// repliesPreviewLimit bounds the replies embedded in each top-level comment;
// the replies endpoint pages through the rest.
const repliesPreviewLimit = 10

// CommentController manages the comment tree of a post: one level of nesting,
// cascading deletes, paginated retrieval with bounded reply previews.
type CommentController struct {
	db *gorm.DB
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

type commentPayload struct {
	ID             uint               `json:"id"`
	Content        string             `json:"content"`
	User           models.UserSummary `json:"user"`
	Timestamp      time.Time          `json:"timestamp"`
	Likes          int64              `json:"likes"`
	IsLiked        bool               `json:"is_liked"`
	ParentID       *uint              `json:"parent_id,omitempty"`
	RepliesCount   *int64             `json:"replies_count,omitempty"`
	Replies        []commentPayload   `json:"replies,omitempty"`
	HasMoreReplies *bool              `json:"has_more_replies,omitempty"`
}

// CreateComment adds a comment or a single-level reply to a post.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid post id")
		return
	}

	var req struct {
		Content  string `json:"content" binding:"required"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid request payload")
		return
	}

	content := strings.TrimSpace(utils.Sanitize(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40042, "content cannot be empty")
		return
	}
	if len([]rune(content)) > models.MaxCommentLength {
		utils.Error(ctx, http.StatusBadRequest, 40043, fmt.Sprintf("comment too long (max %d characters)", models.MaxCommentLength))
		return
	}

	var post models.Post
	if err := c.db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40405, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load post")
		return
	}

	if req.ParentID != nil {
		var parent models.Comment
		if err := c.db.First(&parent, *req.ParentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.Error(ctx, http.StatusNotFound, 40406, "parent comment not found")
				return
			}
			utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load parent comment")
			return
		}
		if parent.PostID != post.ID {
			utils.Error(ctx, http.StatusBadRequest, 40044, "invalid parent comment")
			return
		}
		// One level of nesting only: replies cannot be replied to.
		if parent.ParentID != nil {
			utils.Error(ctx, http.StatusBadRequest, 40045, "cannot reply to a reply, reply to the original comment instead")
			return
		}
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40130, "unauthorized")
		return
	}

	comment := models.Comment{
		PostID:   post.ID,
		UserID:   userID,
		ParentID: req.ParentID,
		Content:  content,
	}
	if err := c.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to create comment")
		return
	}
	if err := c.db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to load comment")
		return
	}

	utils.Success(ctx, gin.H{"comment": commentPayload{
		ID:        comment.ID,
		Content:   comment.Content,
		User:      comment.User.Summarize(),
		Timestamp: comment.CreatedAt,
		ParentID:  comment.ParentID,
	}})
}

// EditComment lets the original author replace comment content. The timestamp
// bump is the only visible edit marker; there is no history log.
func (c *CommentController) EditComment(ctx *gin.Context) {
	commentID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40046, "invalid comment id")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40047, "invalid request payload")
		return
	}
	content := strings.TrimSpace(utils.Sanitize(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40048, "content cannot be empty")
		return
	}
	if len([]rune(content)) > models.MaxCommentLength {
		utils.Error(ctx, http.StatusBadRequest, 40049, fmt.Sprintf("comment too long (max %d characters)", models.MaxCommentLength))
		return
	}

	var comment models.Comment
	if err := c.db.First(&comment, commentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40407, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to load comment")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40131, "unauthorized")
		return
	}
	if comment.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40310, "you can only edit your own comments")
		return
	}

	comment.Content = content
	comment.UpdatedAt = time.Now()
	if err := c.db.Save(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to update comment")
		return
	}

	utils.Success(ctx, gin.H{"comment": gin.H{
		"id":        comment.ID,
		"content":   comment.Content,
		"timestamp": comment.UpdatedAt,
		"edited":    true,
	}})
}

// DeleteComment removes a comment. The comment's author or the owning post's
// author may delete; deleting a top-level comment removes its replies and all
// their likes first.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	commentID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid comment id")
		return
	}

	var comment models.Comment
	if err := c.db.First(&comment, commentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40408, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to load comment")
		return
	}

	var post models.Post
	if err := c.db.First(&post, comment.PostID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50047, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40132, "unauthorized")
		return
	}
	if comment.UserID != userID && post.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40311, "only the comment author or the post author can delete")
		return
	}

	var repliesCount int64
	err := c.db.Transaction(func(tx *gorm.DB) error {
		if comment.ParentID == nil {
			if err := tx.Model(&models.Comment{}).Where("parent_id = ?", comment.ID).Count(&repliesCount).Error; err != nil {
				return err
			}
			replyIDs := tx.Model(&models.Comment{}).Select("id").Where("parent_id = ?", comment.ID)
			if err := tx.Where("comment_id IN (?)", replyIDs).Delete(&models.CommentLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("parent_id = ?", comment.ID).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("comment_id = ?", comment.ID).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50048, "failed to delete comment")
		return
	}

	message := "reply deleted"
	if comment.ParentID == nil {
		message = fmt.Sprintf("comment and %d replies deleted", repliesCount)
	}
	utils.Success(ctx, gin.H{"message": message, "replies_deleted": repliesCount})
}

// ListComments returns a post's top-level comments, newest first, each with a
// bounded preview of its replies.
func (c *CommentController) ListComments(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40051, "invalid post id")
		return
	}
	page, perPage, err := utils.ParsePageParams(ctx, 20, 50)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40052, err.Error())
		return
	}

	var post models.Post
	if err := c.db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40409, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50049, "failed to load post")
		return
	}

	callerID := optionalUserID(ctx)

	query := c.db.Model(&models.Comment{}).Where("post_id = ? AND parent_id IS NULL", post.ID)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to count comments")
		return
	}
	pagination := utils.NewPagination(page, perPage, total)

	var comments []models.Comment
	if err := query.Preload("User").
		Order("created_at DESC").
		Offset(pagination.Offset()).Limit(perPage).
		Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to list comments")
		return
	}

	items := make([]commentPayload, 0, len(comments))
	for i := range comments {
		item, err := c.serializeTopLevel(&comments[i], callerID)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to serialize comments")
			return
		}
		items = append(items, item)
	}

	utils.Success(ctx, gin.H{"comments": items, "pagination": pagination})
}

// ListReplies pages through a comment's replies beyond the embedded preview,
// oldest first.
func (c *CommentController) ListReplies(ctx *gin.Context) {
	commentID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40053, "invalid comment id")
		return
	}
	page, perPage, err := utils.ParsePageParams(ctx, 10, 20)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40054, err.Error())
		return
	}

	var comment models.Comment
	if err := c.db.First(&comment, commentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40411, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to load comment")
		return
	}

	callerID := optionalUserID(ctx)

	query := c.db.Model(&models.Comment{}).Where("parent_id = ?", comment.ID)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to count replies")
		return
	}
	pagination := utils.NewPagination(page, perPage, total)

	var replies []models.Comment
	if err := query.Preload("User").
		Order("created_at ASC").
		Offset(pagination.Offset()).Limit(perPage).
		Find(&replies).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50055, "failed to list replies")
		return
	}

	items := make([]commentPayload, 0, len(replies))
	for i := range replies {
		items = append(items, c.serializeReply(&replies[i], callerID))
	}

	utils.Success(ctx, gin.H{"replies": items, "pagination": pagination})
}

func (c *CommentController) serializeTopLevel(comment *models.Comment, callerID *uint) (commentPayload, error) {
	var replies []models.Comment
	if err := c.db.Preload("User").
		Where("parent_id = ?", comment.ID).
		Order("created_at ASC").
		Limit(repliesPreviewLimit).
		Find(&replies).Error; err != nil {
		return commentPayload{}, err
	}
	var totalReplies int64
	if err := c.db.Model(&models.Comment{}).Where("parent_id = ?", comment.ID).Count(&totalReplies).Error; err != nil {
		return commentPayload{}, err
	}

	replyItems := make([]commentPayload, 0, len(replies))
	for i := range replies {
		replyItems = append(replyItems, c.serializeReply(&replies[i], callerID))
	}

	hasMore := totalReplies > repliesPreviewLimit
	return commentPayload{
		ID:             comment.ID,
		Content:        comment.Content,
		User:           comment.User.Summarize(),
		Timestamp:      comment.UpdatedAt,
		Likes:          c.likeCount(comment.ID),
		IsLiked:        c.isLikedBy(comment.ID, callerID),
		RepliesCount:   &totalReplies,
		Replies:        replyItems,
		HasMoreReplies: &hasMore,
	}, nil
}

// serializeReply uses UpdatedAt as the visible timestamp so edits show up in
// listings, same as for top-level comments.
func (c *CommentController) serializeReply(reply *models.Comment, callerID *uint) commentPayload {
	return commentPayload{
		ID:        reply.ID,
		Content:   reply.Content,
		User:      reply.User.Summarize(),
		Timestamp: reply.UpdatedAt,
		Likes:     c.likeCount(reply.ID),
		IsLiked:   c.isLikedBy(reply.ID, callerID),
		ParentID:  reply.ParentID,
	}
}

func (c *CommentController) likeCount(commentID uint) int64 {
	var count int64
	c.db.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count)
	return count
}

// isLikedBy is always false for anonymous callers.
func (c *CommentController) isLikedBy(commentID uint, callerID *uint) bool {
	if callerID == nil {
		return false
	}
	var count int64
	c.db.Model(&models.CommentLike{}).Where("comment_id = ? AND user_id = ?", commentID, *callerID).Count(&count)
	return count > 0
}
