package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/secondbrain-dev/secondbrain/db"
	"github.com/secondbrain-dev/secondbrain/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateContentResolvesTags(t *testing.T) {
	r := setupTest(t)

	_, token := createTestUser(t, "alice")

	createTestContent(t, r, token, "go generics", []string{"golang", "notes"})
	createTestContent(t, r, token, "go channels", []string{"golang"})

	// "golang" is reused, not duplicated
	var count int64
	require.NoError(t, db.DB.Model(&models.Tag{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestCreateContentRejectsUnknownType(t *testing.T) {
	r := setupTest(t)

	_, token := createTestUser(t, "alice")

	w := doRequest(t, r, http.MethodPost, "/api/v1/content", token, gin.H{
		"link":  "https://example.com",
		"type":  "hologram",
		"title": "nope",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListContentIsOwnerScoped(t *testing.T) {
	r := setupTest(t)

	_, aliceToken := createTestUser(t, "alice")
	_, bobToken := createTestUser(t, "bob")

	createTestContent(t, r, aliceToken, "alice note", nil)
	createTestContent(t, r, bobToken, "bob note", nil)

	w := doRequest(t, r, http.MethodGet, "/api/v1/content", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	contents := body["contents"].([]any)
	require.Len(t, contents, 1)
	assert.Equal(t, "alice note", contents[0].(map[string]any)["title"])
}

func TestDeleteContent(t *testing.T) {
	r := setupTest(t)

	_, token := createTestUser(t, "alice")
	id := createTestContent(t, r, token, "doomed note", nil)

	w := doRequest(t, r, http.MethodDelete, "/api/v1/content", token, gin.H{"contentId": id})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/v1/content", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["contents"])
}

func TestDeleteForeignContentLooksAbsent(t *testing.T) {
	r := setupTest(t)

	_, aliceToken := createTestUser(t, "alice")
	_, bobToken := createTestUser(t, "bob")

	id := createTestContent(t, r, aliceToken, "alice note", nil)

	w := doRequest(t, r, http.MethodDelete, "/api/v1/content", bobToken, gin.H{"contentId": id})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Row untouched
	var content models.Content
	assert.NoError(t, db.DB.First(&content, id).Error)
}

func TestPublicToggle(t *testing.T) {
	r := setupTest(t)

	_, token := createTestUser(t, "alice")
	id := createTestContent(t, r, token, "toggle me", nil)

	w := doRequest(t, r, http.MethodPatch, "/api/v1/content/public-toggle", token, gin.H{
		"id":       id,
		"isPublic": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["content"].(map[string]any)["isPublic"])

	// false must bind as an explicit value, not fall through as missing
	w = doRequest(t, r, http.MethodPatch, "/api/v1/content/public-toggle", token, gin.H{
		"id":       id,
		"isPublic": false,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var content models.Content
	require.NoError(t, db.DB.First(&content, id).Error)
	assert.False(t, content.IsPublic)
}

func TestPublicToggleByNonOwner(t *testing.T) {
	r := setupTest(t)

	_, aliceToken := createTestUser(t, "alice")
	_, bobToken := createTestUser(t, "bob")

	id := createTestContent(t, r, aliceToken, "alice note", nil)

	w := doRequest(t, r, http.MethodPatch, "/api/v1/content/public-toggle", bobToken, gin.H{
		"id":       id,
		"isPublic": true,
	})
	// NotFound, not Forbidden: existence of foreign ids is not revealed
	assert.Equal(t, http.StatusNotFound, w.Code)

	var content models.Content
	require.NoError(t, db.DB.First(&content, id).Error)
	assert.False(t, content.IsPublic)
}

func TestPublicToggleValidation(t *testing.T) {
	r := setupTest(t)

	_, token := createTestUser(t, "alice")

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing id", gin.H{"isPublic": true}},
		{"missing isPublic", gin.H{"id": 1}},
		{"non-boolean isPublic", gin.H{"id": 1, "isPublic": "yes"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, r, http.MethodPatch, "/api/v1/content/public-toggle", token, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSearchContent(t *testing.T) {
	r := setupTest(t)

	_, aliceToken := createTestUser(t, "alice")
	_, bobToken := createTestUser(t, "bob")

	createTestContent(t, r, aliceToken, "distributed systems reading list", []string{"papers"})
	createTestContent(t, r, aliceToken, "sourdough starter", nil)
	createTestContent(t, r, bobToken, "distributed tracing setup", nil)

	w := doRequest(t, r, http.MethodGet, "/api/v1/search/distributed", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	contents := body["contents"].([]any)
	require.Len(t, contents, 1)
	assert.Equal(t, "distributed systems reading list", contents[0].(map[string]any)["title"])
}

func TestSearchAfterDelete(t *testing.T) {
	r := setupTest(t)

	_, token := createTestUser(t, "alice")
	id := createTestContent(t, r, token, "ephemeral note", nil)

	w := doRequest(t, r, http.MethodDelete, "/api/v1/content", token, gin.H{"contentId": id})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/v1/search/ephemeral", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["contents"])
}
