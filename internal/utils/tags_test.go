package utils

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/secondbrain-dev/secondbrain/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTagDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.Tag{}))

	return gdb
}

func TestResolveTagsCreatesAndReuses(t *testing.T) {
	gdb := openTagDB(t)

	first, err := ResolveTags(gdb, []string{"golang", "notes"})
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := ResolveTags(gdb, []string{"golang", "papers"})
	require.NoError(t, err)
	require.Len(t, second, 2)

	assert.Equal(t, first[0].ID, second[0].ID, "existing tag must be reused")

	var count int64
	require.NoError(t, gdb.Model(&models.Tag{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestResolveTagsDropsBlanksAndDuplicates(t *testing.T) {
	gdb := openTagDB(t)

	tags, err := ResolveTags(gdb, []string{"golang", "golang", "  ", "", " golang "})
	require.NoError(t, err)

	require.Len(t, tags, 1)
	assert.Equal(t, "golang", tags[0].Title)
}

func TestResolveTagsIsCaseSensitive(t *testing.T) {
	gdb := openTagDB(t)

	tags, err := ResolveTags(gdb, []string{"Go", "go"})
	require.NoError(t, err)

	assert.Len(t, tags, 2)
}
