package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/secondbrain-dev/secondbrain/db"
	"github.com/secondbrain-dev/secondbrain/internal/models"
	"github.com/secondbrain-dev/secondbrain/internal/search"
	"github.com/secondbrain-dev/secondbrain/internal/types"
	"github.com/secondbrain-dev/secondbrain/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateContentRequest struct {
	Link        string         `json:"link" binding:"required"`
	Type        string         `json:"type" binding:"required"`
	Title       string         `json:"title" binding:"required,min=1"`
	Description string         `json:"description"`
	Tags        []string       `json:"tags"`
	Meta        datatypes.JSON `json:"meta"`
}

type DeleteContentRequest struct {
	ContentID uint `json:"contentId" binding:"required"`
}

type PublicToggleRequest struct {
	ID       uint  `json:"id" binding:"required"`
	IsPublic *bool `json:"isPublic" binding:"required"`
}

type ContentResponse struct {
	ID          uint           `json:"id"`
	Link        string         `json:"link"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Tags        []string       `json:"tags"`
	UserID      uint           `json:"userId"`
	IsPublic    bool           `json:"isPublic"`
	Meta        datatypes.JSON `json:"meta,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func toContentResponse(content models.Content) ContentResponse {
	tags := make([]string, 0, len(content.Tags))
	for _, tag := range content.Tags {
		tags = append(tags, tag.Title)
	}

	return ContentResponse{
		ID:          content.ID,
		Link:        content.Link,
		Type:        content.Type,
		Title:       content.Title,
		Description: content.Description,
		Tags:        tags,
		UserID:      content.UserID,
		IsPublic:    content.IsPublic,
		Meta:        content.Meta,
		CreatedAt:   content.CreatedAt,
	}
}

func CreateContent(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateContentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !types.ValidContentType(body.Type) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content type"})
		return
	}

	tags, err := utils.ResolveTags(db.DB, body.Tags)

	if err != nil {
		log.Printf("Failed to resolve tags: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	content := models.Content{
		Link:        body.Link,
		Type:        body.Type,
		Title:       body.Title,
		Description: body.Description,
		Meta:        body.Meta,
		UserID:      userID,
		Tags:        tags,
	}

	if err := db.DB.Create(&content).Error; err != nil {
		log.Printf("Failed to create content: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create content"})
		return
	}

	if err := search.IndexContent(content); err != nil {
		log.Printf("Failed to index content %d: %v", content.ID, err)
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Content created successfully",
		"content": toContentResponse(content),
	})
}

func ListContent(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var contents []models.Content

	if err := db.DB.Preload("Tags").Where("user_id = ?", userID).Find(&contents).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve content"})
		return
	}

	response := make([]ContentResponse, 0, len(contents))

	for _, content := range contents {
		response = append(response, toContentResponse(content))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Content retrieved successfully",
		"contents": response,
	})
}

func DeleteContent(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body DeleteContentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Content ID is required"})
		return
	}

	var content models.Content

	// Owner check fused with the lookup so foreign ids look absent
	if err := db.DB.Where("id = ? AND user_id = ?", body.ContentID, userID).First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve content"})
		}
		return
	}

	if err := db.DB.Delete(&content).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete content"})
		return
	}

	if err := search.RemoveContent(content.ID); err != nil {
		log.Printf("Failed to remove content %d from index: %v", content.ID, err)
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Content deleted successfully"})
}

func PublicToggle(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body PublicToggleRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var content models.Content

	if err := db.DB.Preload("Tags").Where("id = ? AND user_id = ?", body.ID, userID).First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve content"})
		}
		return
	}

	if err := db.DB.Model(&content).Update("is_public", *body.IsPublic).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update content"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Content updated successfully",
		"content": toContentResponse(content),
	})
}

func SearchContent(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	query := ctx.Param("query")

	if query == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	ids, err := search.SearchContent(userID, query)

	if err != nil {
		log.Printf("Search failed for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	contents := []models.Content{}

	if len(ids) > 0 {
		if err := db.DB.Preload("Tags").Where("user_id = ? AND id IN ?", userID, ids).Find(&contents).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve content"})
			return
		}
	}

	response := make([]ContentResponse, 0, len(contents))

	for _, content := range contents {
		response = append(response, toContentResponse(content))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Search completed successfully",
		"contents": response,
	})
}
