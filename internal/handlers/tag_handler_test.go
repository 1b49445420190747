package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foodgram/foodgram-api/internal/models"
	"github.com/foodgram/foodgram-api/internal/testutil"
	"github.com/gin-gonic/gin"
)

func newTagHandler() *TagHandler {
	repo := testutil.NewMockTagRepo()
	repo.CreateTags([]models.Tag{
		{Name: "Завтрак", Slug: "breakfast", Color: "#E26C2D"},
		{Name: "Ужин", Slug: "dinner", Color: "#8775D2"},
	})
	return NewTagHandler(repo)
}

func TestListTags(t *testing.T) {
	handler := newTagHandler()

	r := gin.New()
	r.GET("/api/tags/", handler.ListTags)

	req := httptest.NewRequest("GET", "/api/tags/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	var body []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if len(body) != 2 {
		t.Fatalf("tag count = %d, want 2", len(body))
	}
	if body[0]["slug"] != "breakfast" || body[0]["color"] != "#E26C2D" {
		t.Errorf("body[0] = %v", body[0])
	}
}

func TestGetTag(t *testing.T) {
	handler := newTagHandler()

	r := gin.New()
	r.GET("/api/tags/:tag_id/", handler.GetTag)

	req := httptest.NewRequest("GET", "/api/tags/2/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["slug"] != "dinner" {
		t.Errorf("slug = %v, want 'dinner'", body["slug"])
	}

	req = httptest.NewRequest("GET", "/api/tags/99/", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", w.Code)
	}
}
