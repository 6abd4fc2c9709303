package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plumeapp/plume/models"
	"github.com/plumeapp/plume/utils"
)

// PreferenceController maintains each user's preferred categories, which feed
// the recommendation listing.
type PreferenceController struct {
	db *gorm.DB
}

// NewPreferenceController creates a new PreferenceController instance.
func NewPreferenceController(db *gorm.DB) *PreferenceController {
	return &PreferenceController{db: db}
}

// GetPreferences returns the caller's preferred categories plus the full
// vocabulary for pickers.
func (p *PreferenceController) GetPreferences(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40160, "unauthorized")
		return
	}

	prefs, err := p.userCategories(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to load preferences")
		return
	}
	utils.Success(ctx, gin.H{
		"preferences":          prefs,
		"available_categories": models.Categories,
	})
}

// SetPreferences replaces the caller's preference set atomically.
func (p *PreferenceController) SetPreferences(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40161, "unauthorized")
		return
	}

	var req struct {
		Categories []string `json:"categories"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid request payload")
		return
	}
	if len(req.Categories) > models.MaxCategoryPreferences {
		utils.Error(ctx, http.StatusBadRequest, 40081, fmt.Sprintf("at most %d preferences allowed", models.MaxCategoryPreferences))
		return
	}

	normalized := make([]string, 0, len(req.Categories))
	seen := make(map[string]bool, len(req.Categories))
	for _, raw := range req.Categories {
		name, ok := models.NormalizeCategory(raw)
		if !ok || name == "" {
			utils.Error(ctx, http.StatusBadRequest, 40082, fmt.Sprintf("unknown category %q", strings.TrimSpace(raw)))
			return
		}
		if !seen[name] {
			seen[name] = true
			normalized = append(normalized, name)
		}
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.CategoryPreference{}).Error; err != nil {
			return err
		}
		for _, name := range normalized {
			if err := tx.Create(&models.CategoryPreference{UserID: userID, Category: name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to save preferences")
		return
	}

	utils.Success(ctx, gin.H{"message": "preferences updated", "preferences": normalized})
}

// AddPreference appends a single category; already-present is a no-op success.
func (p *PreferenceController) AddPreference(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40162, "unauthorized")
		return
	}

	var req struct {
		Category string `json:"category" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40083, "invalid request payload")
		return
	}
	name, valid := models.NormalizeCategory(req.Category)
	if !valid || name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40084, fmt.Sprintf("unknown category %q", strings.TrimSpace(req.Category)))
		return
	}

	var existing int64
	if err := p.db.Model(&models.CategoryPreference{}).
		Where("user_id = ? AND category = ?", userID, name).
		Count(&existing).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50082, "failed to check preference")
		return
	}
	if existing == 0 {
		var total int64
		if err := p.db.Model(&models.CategoryPreference{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50083, "failed to count preferences")
			return
		}
		if total >= models.MaxCategoryPreferences {
			utils.Error(ctx, http.StatusBadRequest, 40085, fmt.Sprintf("at most %d preferences allowed", models.MaxCategoryPreferences))
			return
		}
		if err := p.db.Create(&models.CategoryPreference{UserID: userID, Category: name}).Error; err != nil && !isDuplicateKey(err) {
			utils.Error(ctx, http.StatusInternalServerError, 50084, "failed to add preference")
			return
		}
	}

	prefs, err := p.userCategories(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50085, "failed to load preferences")
		return
	}
	utils.Success(ctx, gin.H{"message": "preference added", "preferences": prefs})
}

// RemovePreference deletes a single category from the caller's set.
func (p *PreferenceController) RemovePreference(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40163, "unauthorized")
		return
	}

	name, valid := models.NormalizeCategory(ctx.Param("category"))
	if !valid || name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40086, "unknown category")
		return
	}

	res := p.db.Where("user_id = ? AND category = ?", userID, name).Delete(&models.CategoryPreference{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50086, "failed to remove preference")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40440, "category not in preferences")
		return
	}

	prefs, err := p.userCategories(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50087, "failed to load preferences")
		return
	}
	utils.Success(ctx, gin.H{"message": "preference removed", "preferences": prefs})
}

func (p *PreferenceController) userCategories(userID uint) ([]string, error) {
	prefs := make([]string, 0)
	err := p.db.Model(&models.CategoryPreference{}).
		Where("user_id = ?", userID).
		Order("category ASC").
		Pluck("category", &prefs).Error
	return prefs, err
}
