package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plumeapp/plume/models"
	"github.com/plumeapp/plume/utils"
)

// FollowController manages the follower graph.
type FollowController struct {
	db *gorm.DB
}

// NewFollowController creates a new FollowController instance.
func NewFollowController(db *gorm.DB) *FollowController {
	return &FollowController{db: db}
}

// ToggleFollow follows the target when no edge exists, unfollows otherwise.
// Self-follow is rejected before the target lookup.
func (f *FollowController) ToggleFollow(ctx *gin.Context) {
	targetID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid user id")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40150, "unauthorized")
		return
	}
	if targetID == userID {
		utils.Error(ctx, http.StatusBadRequest, 40071, "you cannot follow yourself")
		return
	}

	var target models.User
	if err := f.db.First(&target, targetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to load user")
		return
	}

	following, err := toggleRow(f.db, &models.Follow{},
		map[string]interface{}{"follower_id": userID, "followed_id": target.ID},
		&models.Follow{FollowerID: userID, FollowedID: target.ID})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to toggle follow")
		return
	}

	var followers, myFollowing int64
	f.db.Model(&models.Follow{}).Where("followed_id = ?", target.ID).Count(&followers)
	f.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&myFollowing)

	message := "unfollowed " + target.Username
	if following {
		message = "now following " + target.Username
	}
	utils.Success(ctx, gin.H{
		"message":      message,
		"is_following": following,
		"followers":    followers,
		"following":    myFollowing,
	})
}

// CheckFollowStatus reports whether the caller follows the target.
func (f *FollowController) CheckFollowStatus(ctx *gin.Context) {
	targetID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40072, "invalid user id")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40151, "unauthorized")
		return
	}
	if targetID == userID {
		utils.Success(ctx, gin.H{"is_following": false, "is_self": true})
		return
	}

	var target models.User
	if err := f.db.First(&target, targetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40431, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to load user")
		return
	}

	var count int64
	f.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", userID, target.ID).
		Count(&count)
	utils.Success(ctx, gin.H{"is_following": count > 0, "is_self": false})
}

// ListFollowers pages through the users following the target, most recent
// edge first.
func (f *FollowController) ListFollowers(ctx *gin.Context) {
	f.listEdge(ctx, "followers")
}

// ListFollowing pages through the users the target follows.
func (f *FollowController) ListFollowing(ctx *gin.Context) {
	f.listEdge(ctx, "following")
}

func (f *FollowController) listEdge(ctx *gin.Context, direction string) {
	targetID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40073, "invalid user id")
		return
	}
	page, perPage, err := utils.ParsePageParams(ctx, 20, 50)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40074, err.Error())
		return
	}

	var target models.User
	if err := f.db.First(&target, targetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40432, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to load user")
		return
	}

	join := "JOIN follows ON follows.follower_id = users.id"
	edgeFilter := "follows.followed_id = ?"
	if direction == "following" {
		join = "JOIN follows ON follows.followed_id = users.id"
		edgeFilter = "follows.follower_id = ?"
	}

	query := f.db.Model(&models.User{}).Joins(join).Where(edgeFilter, target.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to count users")
		return
	}
	pagination := utils.NewPagination(page, perPage, total)

	var users []models.User
	if err := query.Order("follows.created_at DESC").
		Offset(pagination.Offset()).Limit(perPage).
		Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50075, "failed to list users")
		return
	}

	items := make([]models.UserSummary, 0, len(users))
	for i := range users {
		items = append(items, users[i].Summarize())
	}
	utils.Success(ctx, gin.H{direction: items, "pagination": pagination})
}

// FollowStats returns follower and following totals for a user.
func (f *FollowController) FollowStats(ctx *gin.Context) {
	targetID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40075, "invalid user id")
		return
	}

	var target models.User
	if err := f.db.First(&target, targetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40433, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50076, "failed to load user")
		return
	}

	var followers, following int64
	f.db.Model(&models.Follow{}).Where("followed_id = ?", target.ID).Count(&followers)
	f.db.Model(&models.Follow{}).Where("follower_id = ?", target.ID).Count(&following)

	utils.Success(ctx, gin.H{
		"user_id":   target.ID,
		"username":  target.Username,
		"followers": followers,
		"following": following,
	})
}
