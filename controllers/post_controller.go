package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plumeapp/plume/models"
	"github.com/plumeapp/plume/utils"
)

// PostController manages post CRUD, lifecycle transitions, search and view
// recording.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

type postPayload struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	Category   string    `json:"category"`
	Author     string    `json:"author"`
	Tags       []string  `json:"tags"`
	IsDraft    bool      `json:"is_draft"`
	IsArchived bool      `json:"is_archived"`
	LikesCount *int64    `json:"likes_count,omitempty"`
	ViewsCount *int64    `json:"views_count,omitempty"`
}

func serializePost(p *models.Post, preview bool) postPayload {
	content := p.Content
	if preview {
		content = p.Preview()
	}
	return postPayload{
		ID:         p.ID,
		Title:      p.Title,
		Content:    content,
		Timestamp:  p.CreatedAt,
		Category:   p.Category,
		Author:     p.User.Username,
		Tags:       p.TagNames(),
		IsDraft:    p.IsDraft,
		IsArchived: p.IsArchived,
	}
}

// ListCategories returns the fixed category vocabulary.
func (p *PostController) ListCategories(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"categories": models.Categories,
		"total":      len(models.Categories),
	})
}

// CreatePost allows authenticated users to create new posts, as drafts unless
// publish is set.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title    string   `json:"title" binding:"required,min=1"`
		Content  string   `json:"content" binding:"required"`
		Category string   `json:"category"`
		Tags     []string `json:"tags"`
		Publish  bool     `json:"publish"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "title cannot be empty")
		return
	}
	content := utils.Sanitize(req.Content)

	category, ok := models.NormalizeCategory(req.Category)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid category, must be one of: "+strings.Join(models.Categories, ", "))
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	post := models.Post{
		UserID:   userID,
		Title:    title,
		Content:  content,
		Category: category,
		IsDraft:  !req.Publish,
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		tags, err := upsertTags(tx, req.Tags)
		if err != nil {
			return err
		}
		post.Tags = tags
		return tx.Create(&post).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.InvalidateByPrefix("cache:user:" + strconv.Itoa(int(userID)) + ":posts:")

	if err := p.db.Preload("User").Preload("Tags").First(&post, post.ID).Error; err == nil {
		utils.Success(ctx, gin.H{"post": serializePost(&post, false)})
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// upsertTags resolves tag names to rows, creating missing ones. Names are
// lowercased; tags are shared vocabulary and never deleted later.
func upsertTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := map[string]bool{}
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		var tag models.Tag
		err := tx.Where("name = ?", name).First(&tag).Error
		if err == gorm.ErrRecordNotFound {
			tag = models.Tag{Name: name}
			if err = tx.Create(&tag).Error; err != nil && isDuplicateKey(err) {
				err = tx.Where("name = ?", name).First(&tag).Error
			}
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// ListPosts returns published, non-archived posts, newest first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	page, perPage, err := utils.ParsePageParams(ctx, 10, 100)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, err.Error())
		return
	}
	category := strings.TrimSpace(ctx.Query("category"))

	cacheKey := fmt.Sprintf("cache:posts:list:cat=%s:page=%d:size=%d", category, page, perPage)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	query := p.db.Model(&models.Post{}).Where("is_draft = ? AND is_archived = ?", false, false)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to count posts")
		return
	}
	pagination := utils.NewPagination(page, perPage, total)

	var posts []models.Post
	if err := query.Preload("User").Preload("Tags").
		Order("created_at DESC").
		Offset(pagination.Offset()).Limit(perPage).
		Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list posts")
		return
	}

	items := make([]postPayload, 0, len(posts))
	for i := range posts {
		items = append(items, serializePost(&posts[i], true))
	}

	payload := gin.H{"posts": items, "pagination": pagination}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// GetPost returns a single post with live like/view counts and records the
// view, subject to the per-user cooldown.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid post id")
		return
	}

	var post models.Post
	if err := p.db.Preload("User").Preload("Tags").First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load post")
		return
	}

	p.recordView(post.ID, optionalUserID(ctx), ctx.ClientIP())

	var viewCount, likeCount int64
	p.db.Model(&models.PostView{}).Where("post_id = ?", post.ID).Count(&viewCount)
	p.db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likeCount)

	payload := serializePost(&post, false)
	payload.LikesCount = &likeCount
	payload.ViewsCount = &viewCount
	utils.Success(ctx, gin.H{"post": payload})
}

// recordView appends a view event. Authenticated viewers are deduplicated
// within the cooldown window; anonymous views have no cooldown key and are
// always recorded.
func (p *PostController) recordView(postID uint, userID *uint, ip string) {
	if userID != nil {
		var recent int64
		p.db.Model(&models.PostView{}).
			Where("post_id = ? AND user_id = ? AND created_at > ?", postID, *userID, time.Now().Add(-models.ViewCooldown)).
			Count(&recent)
		if recent > 0 {
			return
		}
	}
	if err := p.db.Create(&models.PostView{PostID: postID, UserID: userID, IPAddress: ip}).Error; err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("record view failed post=%d err=%v", postID, err)
		}
	}
}

// UpdatePost allows the author to update their post.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40025, "invalid post id")
		return
	}

	var req struct {
		Title    *string  `json:"title"`
		Content  *string  `json:"content"`
		Category *string  `json:"category"`
		Tags     []string `json:"tags"`
		Publish  *bool    `json:"publish"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40026, "invalid request payload")
		return
	}

	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40121, "unauthorized")
		return
	}
	if post.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "you can only update your own posts")
		return
	}

	if req.Title != nil {
		title := utils.Sanitize(strings.TrimSpace(*req.Title))
		if title == "" {
			utils.Error(ctx, http.StatusBadRequest, 40027, "title cannot be empty")
			return
		}
		post.Title = title
	}
	if req.Content != nil {
		post.Content = utils.Sanitize(*req.Content)
	}
	if req.Category != nil {
		category, valid := models.NormalizeCategory(*req.Category)
		if !valid {
			utils.Error(ctx, http.StatusBadRequest, 40028, "invalid category, must be one of: "+strings.Join(models.Categories, ", "))
			return
		}
		post.Category = category
	}
	if req.Publish != nil {
		post.IsDraft = !*req.Publish
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if req.Tags != nil {
			tags, err := upsertTags(tx, req.Tags)
			if err != nil {
				return err
			}
			if err := tx.Model(&post).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return tx.Save(&post).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to update post")
		return
	}

	p.invalidatePostCaches(post.UserID)
	utils.Success(ctx, gin.H{"message": "post updated"})
}

// DeletePost removes a post and cascades to its likes, comments, comment
// likes and views inside one transaction.
func (p *PostController) DeletePost(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40029, "invalid post id")
		return
	}

	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40122, "unauthorized")
		return
	}
	if post.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40302, "you can only delete your own posts")
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostView{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to delete post")
		return
	}

	p.invalidatePostCaches(post.UserID)
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// PublishPost flips a draft to published.
func (p *PostController) PublishPost(ctx *gin.Context) {
	p.setLifecycleFlag(ctx, func(post *models.Post) { post.IsDraft = false }, "post published")
}

// ArchivePost marks a post archived, removing it from public listings.
func (p *PostController) ArchivePost(ctx *gin.Context) {
	p.setLifecycleFlag(ctx, func(post *models.Post) { post.IsArchived = true }, "post archived")
}

func (p *PostController) setLifecycleFlag(ctx *gin.Context, mutate func(*models.Post), message string) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid post id")
		return
	}
	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40404, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50028, "failed to load post")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40123, "unauthorized")
		return
	}
	if post.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40303, "you can only modify your own posts")
		return
	}
	mutate(&post)
	if err := p.db.Save(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50029, "failed to update post")
		return
	}
	p.invalidatePostCaches(post.UserID)
	utils.Success(ctx, gin.H{"message": message})
}

// ListDrafts returns the caller's draft posts.
func (p *PostController) ListDrafts(ctx *gin.Context) {
	p.listOwn(ctx, "is_draft = ?", true)
}

// ListArchived returns the caller's archived posts.
func (p *PostController) ListArchived(ctx *gin.Context) {
	p.listOwn(ctx, "is_archived = ?", true)
}

func (p *PostController) listOwn(ctx *gin.Context, cond string, flag bool) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40124, "unauthorized")
		return
	}
	page, perPage, err := utils.ParsePageParams(ctx, 10, 100)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, err.Error())
		return
	}

	query := p.db.Model(&models.Post{}).Where("user_id = ?", userID).Where(cond, flag)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to count posts")
		return
	}
	pagination := utils.NewPagination(page, perPage, total)

	var posts []models.Post
	if err := query.Preload("User").Preload("Tags").
		Order("created_at DESC").
		Offset(pagination.Offset()).Limit(perPage).
		Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to list posts")
		return
	}

	items := make([]postPayload, 0, len(posts))
	for i := range posts {
		items = append(items, serializePost(&posts[i], true))
	}
	utils.Success(ctx, gin.H{"posts": items, "pagination": pagination})
}

// SearchPosts filters published posts by author username, title, category and
// tags. With author_only=true it returns matching authors instead.
func (p *PostController) SearchPosts(ctx *gin.Context) {
	page, perPage, err := utils.ParsePageParams(ctx, 10, 100)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, err.Error())
		return
	}

	username := strings.TrimSpace(ctx.Query("username"))
	title := strings.TrimSpace(ctx.Query("title"))
	category := strings.TrimSpace(ctx.Query("category"))
	tagFilter := strings.TrimSpace(ctx.Query("tags"))
	authorOnly := strings.EqualFold(ctx.Query("author_only"), "true")

	if authorOnly && username != "" {
		p.searchAuthors(ctx, username, page, perPage)
		return
	}

	query := p.db.Model(&models.Post{}).
		Joins("JOIN users ON users.id = posts.user_id").
		Where("posts.is_draft = ? AND posts.is_archived = ?", false, false)
	if username != "" {
		query = query.Where("users.username LIKE ?", "%"+username+"%")
	}
	if title != "" {
		query = query.Where("posts.title LIKE ?", "%"+title+"%")
	}
	if category != "" {
		query = query.Where("posts.category LIKE ?", "%"+strings.ToLower(category)+"%")
	}
	if tagFilter != "" {
		names := []string{}
		for _, t := range strings.Split(tagFilter, ",") {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				names = append(names, t)
			}
		}
		// Membership via subquery keeps count and pagination free of the
		// join-row multiplication a post with several matching tags causes.
		taggedIDs := p.db.Table("post_tags").
			Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name IN ?", names)
		query = query.Where("posts.id IN (?)", taggedIDs)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to count search results")
		return
	}
	pagination := utils.NewPagination(page, perPage, total)

	var posts []models.Post
	if err := query.Preload("User").Preload("Tags").
		Order("posts.created_at DESC").
		Offset(pagination.Offset()).Limit(perPage).
		Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to search posts")
		return
	}

	items := make([]postPayload, 0, len(posts))
	for i := range posts {
		items = append(items, serializePost(&posts[i], true))
	}
	utils.Success(ctx, gin.H{"posts": items, "pagination": pagination})
}

func (p *PostController) searchAuthors(ctx *gin.Context, username string, page, perPage int) {
	if perPage > 50 {
		perPage = 50
	}

	publishedAuthors := p.db.Model(&models.Post{}).
		Select("user_id").
		Where("is_draft = ? AND is_archived = ?", false, false)
	query := p.db.Model(&models.User{}).
		Where("users.username LIKE ?", "%"+username+"%").
		Where("users.id IN (?)", publishedAuthors)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to count authors")
		return
	}
	pagination := utils.NewPagination(page, perPage, total)

	var users []models.User
	if err := query.Order("users.username").
		Offset(pagination.Offset()).Limit(perPage).
		Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to search authors")
		return
	}

	authors := make([]gin.H, 0, len(users))
	for i := range users {
		var blogCount int64
		p.db.Model(&models.Post{}).
			Where("user_id = ? AND is_draft = ? AND is_archived = ?", users[i].ID, false, false).
			Count(&blogCount)
		authors = append(authors, gin.H{
			"id":          users[i].ID,
			"username":    users[i].Username,
			"post_count":  blogCount,
			"joined_date": users[i].CreatedAt,
		})
	}

	utils.Success(ctx, gin.H{
		"authors":     authors,
		"pagination":  pagination,
		"search_type": "authors_only",
		"search_term": username,
	})
}

func (p *PostController) invalidatePostCaches(userID uint) {
	utils.InvalidateByPrefix("cache:posts:list:")
	utils.InvalidateByPrefix("cache:user:" + strconv.Itoa(int(userID)) + ":posts:")
}
