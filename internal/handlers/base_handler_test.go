package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"", 1, 20},
		{"?page=3&page_size=5", 3, 5},
		{"?page=0&page_size=0", 1, 20},
		{"?page=-2&page_size=abc", 1, 20},
		{"?page_size=1000", 1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := testContext("/users" + tt.query)
			page, size := ParsePagination(c)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPageSize, size)
		})
	}
}

func TestParseUserIDParam(t *testing.T) {
	c, _ := testContext("/users/0b6a3a56-3f2e-4f0e-9d7e-9f7f3c1f1a11")
	c.Params = gin.Params{{Key: "user_id", Value: "0B6A3A56-3F2E-4F0E-9D7E-9F7F3C1F1A11"}}
	id, ok := ParseUserIDParam(c)
	assert.True(t, ok)
	assert.Equal(t, "0b6a3a56-3f2e-4f0e-9d7e-9f7f3c1f1a11", id)

	c, w := testContext("/users/nope")
	c.Params = gin.Params{{Key: "user_id", Value: "nope"}}
	_, ok = ParseUserIDParam(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Must be a valid UUID")
}
