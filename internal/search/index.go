package search

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/secondbrain-dev/secondbrain/internal/models"
	"gorm.io/gorm"
)

// contentDoc is the shape indexed per content item. UserID is indexed as a
// keyword so search never crosses owner boundaries.
type contentDoc struct {
	UserID      string   `json:"user_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	Type        string   `json:"type"`
	Tags        []string `json:"tags"`
}

var (
	index   bleve.Index
	indexMu sync.RWMutex
)

func buildIndexMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	userFieldMapping := bleve.NewTextFieldMapping()
	userFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("user_id", userFieldMapping)

	typeFieldMapping := bleve.NewTextFieldMapping()
	typeFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("type", typeFieldMapping)

	indexMapping.DefaultMapping = docMapping

	return indexMapping
}

// Init creates the in-memory content index. The index is rebuilt from the
// database at startup via Reindex, so nothing is persisted to disk.
func Init() error {
	idx, err := bleve.NewMemOnly(buildIndexMapping())

	if err != nil {
		return err
	}

	indexMu.Lock()
	index = idx
	indexMu.Unlock()

	return nil
}

// Reindex loads every content row and indexes it. Called once after Init.
func Reindex(tx *gorm.DB) error {
	var contents []models.Content

	if err := tx.Preload("Tags").Find(&contents).Error; err != nil {
		return err
	}

	for _, content := range contents {
		if err := IndexContent(content); err != nil {
			return err
		}
	}

	return nil
}

func IndexContent(content models.Content) error {
	indexMu.RLock()
	defer indexMu.RUnlock()

	if index == nil {
		return fmt.Errorf("search index is not initialized")
	}

	tags := make([]string, 0, len(content.Tags))
	for _, tag := range content.Tags {
		tags = append(tags, tag.Title)
	}

	return index.Index(strconv.FormatUint(uint64(content.ID), 10), contentDoc{
		UserID:      strconv.FormatUint(uint64(content.UserID), 10),
		Title:       content.Title,
		Description: content.Description,
		Link:        content.Link,
		Type:        content.Type,
		Tags:        tags,
	})
}

func RemoveContent(contentID uint) error {
	indexMu.RLock()
	defer indexMu.RUnlock()

	if index == nil {
		return fmt.Errorf("search index is not initialized")
	}

	return index.Delete(strconv.FormatUint(uint64(contentID), 10))
}

// SearchContent returns ids of the user's content matching the query,
// best matches first.
func SearchContent(userID uint, queryString string) ([]uint, error) {
	indexMu.RLock()
	defer indexMu.RUnlock()

	if index == nil {
		return nil, fmt.Errorf("search index is not initialized")
	}

	match := bleve.NewMatchQuery(queryString)

	owner := bleve.NewTermQuery(strconv.FormatUint(uint64(userID), 10))
	owner.SetField("user_id")

	boolQuery := bleve.NewBooleanQuery()
	boolQuery.AddMust(match, owner)

	request := bleve.NewSearchRequest(boolQuery)
	request.Size = 100

	result, err := index.Search(request)

	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(result.Hits))

	for _, hit := range result.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}

	return ids, nil
}
