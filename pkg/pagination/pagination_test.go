package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFromQuery(query string) *PageParams {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return ParsePageParams(c)
}

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"", DefaultPage, DefaultPageSize},
		{"page=3&page_size=50", 3, 50},
		{"page=0&page_size=0", DefaultPage, DefaultPageSize},
		{"page=-1&page_size=-5", DefaultPage, DefaultPageSize},
		{"page=abc&page_size=xyz", DefaultPage, DefaultPageSize},
		{"page=2&page_size=999", 2, MaxPageSize},
	}

	for _, tt := range tests {
		params := paramsFromQuery(tt.query)
		assert.Equal(t, tt.wantPage, params.Page, "query %q 的页码", tt.query)
		assert.Equal(t, tt.wantPageSize, params.PageSize, "query %q 的页大小", tt.query)
	}
}

func TestPageParamsOffset(t *testing.T) {
	params := &PageParams{Page: 3, PageSize: 20}
	assert.Equal(t, 40, params.Offset())
}

func TestNewPageInfo(t *testing.T) {
	info := NewPageInfo(2, 20, 45)
	assert.Equal(t, 3, info.TotalPages)
	assert.True(t, info.HasNext)
	assert.True(t, info.HasPrev)

	first := NewPageInfo(1, 20, 15)
	assert.Equal(t, 1, first.TotalPages)
	assert.False(t, first.HasNext)
	assert.False(t, first.HasPrev)
}
