package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plumeapp/plume/models"
	"github.com/plumeapp/plume/utils"
)

// UserController serves public profiles and member discovery.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a new UserController instance.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

type profilePost struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	Likes     int64     `json:"likes"`
	Views     int64     `json:"views"`
	Comments  int64     `json:"comments"`
}

// GetUserProfile returns a user's public profile by username: summary,
// aggregate stats over published posts, and a page of those posts.
func (u *UserController) GetUserProfile(ctx *gin.Context) {
	username := strings.TrimSpace(ctx.Param("username"))
	if username == "" {
		utils.Error(ctx, http.StatusBadRequest, 40095, "invalid username")
		return
	}
	page, perPage, err := utils.ParsePageParams(ctx, 10, 50)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40096, err.Error())
		return
	}

	var user models.User
	if err := u.db.Where("username = ?", username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40450, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50095, "failed to load user")
		return
	}

	visible := u.db.Model(&models.Post{}).
		Where("user_id = ? AND is_draft = ? AND is_archived = ?", user.ID, false, false)

	var totalPosts int64
	if err := visible.Count(&totalPosts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50096, "failed to count posts")
		return
	}

	// Likes and views aggregate over every post the user owns, drafts and
	// archived included; only total_posts and the listing are published-only.
	ownPostIDs := u.db.Model(&models.Post{}).Select("id").Where("user_id = ?", user.ID)

	var likesReceived, viewsReceived, followers, following int64
	u.db.Model(&models.Like{}).Where("post_id IN (?)", ownPostIDs).Count(&likesReceived)
	u.db.Model(&models.PostView{}).Where("post_id IN (?)", ownPostIDs).Count(&viewsReceived)
	u.db.Model(&models.Follow{}).Where("followed_id = ?", user.ID).Count(&followers)
	u.db.Model(&models.Follow{}).Where("follower_id = ?", user.ID).Count(&following)

	pagination := utils.NewPagination(page, perPage, totalPosts)

	var posts []models.Post
	if err := u.db.Preload("Tags").
		Where("user_id = ? AND is_draft = ? AND is_archived = ?", user.ID, false, false).
		Order("created_at DESC").
		Offset(pagination.Offset()).Limit(perPage).
		Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50097, "failed to list posts")
		return
	}

	items := make([]profilePost, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		var likes, views, comments int64
		u.db.Model(&models.Like{}).Where("post_id = ?", p.ID).Count(&likes)
		u.db.Model(&models.PostView{}).Where("post_id = ?", p.ID).Count(&views)
		u.db.Model(&models.Comment{}).Where("post_id = ?", p.ID).Count(&comments)
		items = append(items, profilePost{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Preview(),
			Category:  p.Category,
			Tags:      p.TagNames(),
			CreatedAt: p.CreatedAt,
			Likes:     likes,
			Views:     views,
			Comments:  comments,
		})
	}

	utils.Success(ctx, gin.H{
		"user": user.Summarize(),
		"stats": gin.H{
			"total_posts":    totalPosts,
			"likes_received": likesReceived,
			"views_received": viewsReceived,
			"followers":      followers,
			"following":      following,
		},
		"posts":      items,
		"pagination": pagination,
	})
}

// ListUsers pages through members alphabetically, with an optional username
// substring filter.
func (u *UserController) ListUsers(ctx *gin.Context) {
	page, perPage, err := utils.ParsePageParams(ctx, 20, 50)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40097, err.Error())
		return
	}

	query := u.db.Model(&models.User{}).Where("is_verified = ?", true)
	if search := strings.TrimSpace(ctx.Query("search")); search != "" {
		query = query.Where("username LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50098, "failed to count users")
		return
	}
	pagination := utils.NewPagination(page, perPage, total)

	var users []models.User
	if err := query.Order("username ASC").
		Offset(pagination.Offset()).Limit(perPage).
		Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50099, "failed to list users")
		return
	}

	items := make([]gin.H, 0, len(users))
	for i := range users {
		var postCount int64
		u.db.Model(&models.Post{}).
			Where("user_id = ? AND is_draft = ? AND is_archived = ?", users[i].ID, false, false).
			Count(&postCount)
		items = append(items, gin.H{
			"id":          users[i].ID,
			"username":    users[i].Username,
			"is_verified": users[i].IsVerified,
			"joined_date": users[i].CreatedAt,
			"post_count":  postCount,
		})
	}
	utils.Success(ctx, gin.H{"users": items, "pagination": pagination})
}
