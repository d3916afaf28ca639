package utils

import (
	"strings"

	"github.com/secondbrain-dev/secondbrain/internal/models"
	"gorm.io/gorm"
)

// ResolveTags finds or creates a Tag per title and returns them in one batch.
// Titles are matched exactly (case-sensitive); duplicates and blanks are
// dropped. Runs inside a single transaction so a concurrent submission of the
// same new title cannot create two rows.
func ResolveTags(tx *gorm.DB, titles []string) ([]models.Tag, error) {
	var tags []models.Tag

	seen := make(map[string]bool)

	err := tx.Transaction(func(tx *gorm.DB) error {
		for _, title := range titles {
			title = strings.TrimSpace(title)

			if title == "" || seen[title] {
				continue
			}

			seen[title] = true

			var tag models.Tag

			if err := tx.Where("title = ?", title).
				FirstOrCreate(&tag, models.Tag{Title: title}).Error; err != nil {
				return err
			}

			tags = append(tags, tag)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return tags, nil
}
