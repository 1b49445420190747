package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/foodgram/foodgram-api/internal/testutil"
	"github.com/gin-gonic/gin"
)

func TestParseUintParam(t *testing.T) {
	cases := []struct {
		in      string
		want    uint
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, false},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"1.5", 0, true},
	}
	for _, tc := range cases {
		got, err := parseUintParam(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseUintParam(%q) = %d, want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseUintParam(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("parseUintParam(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParsePagination(t *testing.T) {
	cfg := testutil.TestConfig()

	cases := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 10},
		{"?page=3", 3, 10},
		{"?limit=25", 1, 25},
		{"?page=2&limit=50", 2, 50},
		{"?limit=500", 1, 100},
		{"?page=0&limit=0", 1, 10},
		{"?page=-1&limit=-5", 1, 10},
		{"?page=abc&limit=xyz", 1, 10},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/api/recipes/"+tc.query, nil)

		page, limit := parsePagination(c, cfg)
		if page != tc.wantPage || limit != tc.wantLimit {
			t.Errorf("parsePagination(%q) = (%d, %d), want (%d, %d)",
				tc.query, page, limit, tc.wantPage, tc.wantLimit)
		}
	}
}
