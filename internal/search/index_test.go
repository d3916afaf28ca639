package search

import (
	"testing"

	"github.com/secondbrain-dev/secondbrain/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testContent(id, userID uint, title string, tags ...string) models.Content {
	content := models.Content{
		Model:  gorm.Model{ID: id},
		Link:   "https://example.com",
		Type:   "url",
		Title:  title,
		UserID: userID,
	}

	for _, tag := range tags {
		content.Tags = append(content.Tags, models.Tag{Title: tag})
	}

	return content
}

func TestSearchIsOwnerScoped(t *testing.T) {
	require.NoError(t, Init())

	require.NoError(t, IndexContent(testContent(1, 10, "kubernetes deployment notes")))
	require.NoError(t, IndexContent(testContent(2, 10, "sourdough starter")))
	require.NoError(t, IndexContent(testContent(3, 20, "kubernetes security checklist")))

	ids, err := SearchContent(10, "kubernetes")
	require.NoError(t, err)

	assert.Equal(t, []uint{1}, ids)
}

func TestSearchMatchesTags(t *testing.T) {
	require.NoError(t, Init())

	require.NoError(t, IndexContent(testContent(1, 10, "reading list", "distributed", "papers")))
	require.NoError(t, IndexContent(testContent(2, 10, "grocery list")))

	ids, err := SearchContent(10, "papers")
	require.NoError(t, err)

	assert.Equal(t, []uint{1}, ids)
}

func TestRemoveContent(t *testing.T) {
	require.NoError(t, Init())

	require.NoError(t, IndexContent(testContent(1, 10, "ephemeral note")))
	require.NoError(t, RemoveContent(1))

	ids, err := SearchContent(10, "ephemeral")
	require.NoError(t, err)

	assert.Empty(t, ids)
}
