package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/secondbrain-dev/secondbrain/db"
	"github.com/secondbrain-dev/secondbrain/internal/models"
	"github.com/secondbrain-dev/secondbrain/internal/utils"
	"gorm.io/gorm"
)

type ShareRequest struct {
	Share *bool `json:"share" binding:"required"`
}

type ShareResponse struct {
	UserID uint   `json:"userId"`
	Hash   string `json:"hash"`
}

const shareHashBytes = 16

// rotateShare replaces any existing share row for the user with a freshly
// generated hash. Delete and insert run in one transaction so concurrent
// enables cannot leave two live hashes; the unique index on user_id rejects
// the loser. A hash collision is retried once with a new token.
func rotateShare(userID uint) (models.Share, error) {
	var share models.Share

	for attempt := 0; attempt < 2; attempt++ {
		share = models.Share{
			UserID: userID,
			Hash:   utils.RandomToken(shareHashBytes),
		}

		// Hard delete: a soft-deleted row would keep its slot in the unique
		// indexes on user_id and hash and block the insert
		err := db.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Share{}).Error; err != nil {
				return err
			}
			return tx.Create(&share).Error
		})

		if err == nil {
			return share, nil
		}

		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == 1 {
			return models.Share{}, err
		}
	}

	return share, nil
}

func ToggleShare(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body ShareRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if *body.Share {
		share, err := rotateShare(currentUser.ID)

		if err != nil {
			log.Printf("Failed to enable sharing for user %d: %v", currentUser.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{
			"message": "Content shared successfully",
			"share": ShareResponse{
				UserID: share.UserID,
				Hash:   share.Hash,
			},
		})
		return
	}

	result := db.DB.Unscoped().Where("user_id = ?", currentUser.ID).Delete(&models.Share{})

	if result.Error != nil {
		log.Printf("Failed to disable sharing for user %d: %v", currentUser.ID, result.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Share not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Share disabled successfully"})
}

// ResolveShare is the one unauthenticated read: the hash itself is the
// capability. Only public items are returned; private rows stay invisible to
// hash holders.
func ResolveShare(ctx *gin.Context) {
	hash := ctx.Param("hash")

	if hash == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Hash is required"})
		return
	}

	var share models.Share

	if err := db.DB.Where("hash = ?", hash).First(&share).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Share not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	var owner models.User

	if err := db.DB.First(&owner, share.UserID).Error; err != nil {
		log.Printf("Failed to fetch share owner %d: %v", share.UserID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var contents []models.Content

	if err := db.DB.Preload("Tags").
		Where("user_id = ? AND is_public = ?", share.UserID, true).
		Find(&contents).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve content"})
		return
	}

	response := make([]ContentResponse, 0, len(contents))

	for _, content := range contents {
		response = append(response, toContentResponse(content))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Share retrieved successfully",
		"share": gin.H{
			"user":     gin.H{"username": owner.Username},
			"contents": response,
			"total":    len(response),
		},
	})
}
