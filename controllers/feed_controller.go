package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plumeapp/plume/models"
	"github.com/plumeapp/plume/utils"
)

// trendingWindow bounds how old a post may be to appear in trending.
const trendingWindow = 7 * 24 * time.Hour

// FeedController serves the discovery listings: trending and per-user
// recommendations.
type FeedController struct {
	db *gorm.DB
}

// NewFeedController creates a new FeedController instance.
func NewFeedController(db *gorm.DB) *FeedController {
	return &FeedController{db: db}
}

type feedItem struct {
	ID        uint               `json:"id"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Category  string             `json:"category"`
	Author    models.UserSummary `json:"author"`
	Tags      []string           `json:"tags"`
	CreatedAt time.Time          `json:"created_at"`
	Likes     int64              `json:"likes"`
}

// Trending lists recent posts ordered by all-time like count. Only published,
// non-archived posts from the last seven days qualify; ties break on recency.
func (f *FeedController) Trending(ctx *gin.Context) {
	page, perPage, err := utils.ParsePageParams(ctx, 20, 50)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40090, err.Error())
		return
	}

	cutoff := time.Now().Add(-trendingWindow)
	base := "posts.is_draft = ? AND posts.is_archived = ? AND posts.created_at >= ?"

	var total int64
	if err := f.db.Model(&models.Post{}).
		Where(base, false, false, cutoff).
		Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to count posts")
		return
	}
	pagination := utils.NewPagination(page, perPage, total)

	var posts []models.Post
	if err := f.db.Model(&models.Post{}).
		Select("posts.*").
		Joins("LEFT JOIN likes ON likes.post_id = posts.id").
		Where(base, false, false, cutoff).
		Group("posts.id").
		Order("COUNT(likes.id) DESC, posts.created_at DESC").
		Offset(pagination.Offset()).Limit(perPage).
		Preload("User").Preload("Tags").
		Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to list trending posts")
		return
	}

	utils.Success(ctx, gin.H{"posts": f.serialize(posts), "pagination": pagination})
}

// Recommendations lists recent posts matching the caller's preferred
// categories, excluding the caller's own posts. Without preferences it
// returns an empty page and points at the preference endpoint.
func (f *FeedController) Recommendations(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40170, "unauthorized")
		return
	}
	page, perPage, err := utils.ParsePageParams(ctx, 10, 50)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40091, err.Error())
		return
	}

	prefs := make([]string, 0)
	if err := f.db.Model(&models.CategoryPreference{}).
		Where("user_id = ?", userID).
		Pluck("category", &prefs).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50092, "failed to load preferences")
		return
	}
	if len(prefs) == 0 {
		utils.Success(ctx, gin.H{
			"posts":      []feedItem{},
			"pagination": utils.NewPagination(page, perPage, 0),
			"message":    "set category preferences to receive recommendations",
		})
		return
	}

	query := f.db.Model(&models.Post{}).
		Where("is_draft = ? AND is_archived = ?", false, false).
		Where("user_id <> ?", userID).
		Where("category IN ?", prefs)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50093, "failed to count posts")
		return
	}
	pagination := utils.NewPagination(page, perPage, total)

	var posts []models.Post
	if err := query.Preload("User").Preload("Tags").
		Order("created_at DESC").
		Offset(pagination.Offset()).Limit(perPage).
		Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50094, "failed to list recommendations")
		return
	}

	utils.Success(ctx, gin.H{"posts": f.serialize(posts), "pagination": pagination})
}

func (f *FeedController) serialize(posts []models.Post) []feedItem {
	items := make([]feedItem, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		var likes int64
		f.db.Model(&models.Like{}).Where("post_id = ?", p.ID).Count(&likes)
		items = append(items, feedItem{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Preview(),
			Category:  p.Category,
			Author:    p.User.Summarize(),
			Tags:      p.TagNames(),
			CreatedAt: p.CreatedAt,
			Likes:     likes,
		})
	}
	return items
}
