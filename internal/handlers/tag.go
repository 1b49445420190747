package handlers

import (
	"net/http"

	"github.com/foodgram/foodgram-api/internal/repository"
	"github.com/foodgram/foodgram-api/internal/service"
	"github.com/gin-gonic/gin"
)

// TagHandler is the handler for tag-related requests. Tags are read-only
// through the API; the reference table is maintained by the import
// command.
type TagHandler struct {
	Repo repository.TagRepo
}

// NewTagHandler is the constructor function for initializing a new TagHandler.
func NewTagHandler(repo repository.TagRepo) *TagHandler {
	return &TagHandler{Repo: repo}
}

// ListTags returns all tags, unpaginated.
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.Repo.ListTags()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	results := make([]service.TagResponse, 0, len(tags))
	for i := range tags {
		results = append(results, service.ToTagResponse(&tags[i]))
	}
	c.JSON(http.StatusOK, results)
}

// GetTag returns a single tag by id.
func (h *TagHandler) GetTag(c *gin.Context) {
	tagID, err := parseUintParam(c.Param("tag_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid tag id"})
		return
	}

	tag, err := h.Repo.GetTagByID(tagID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.ToTagResponse(tag))
}
