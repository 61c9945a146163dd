package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestParse(t *testing.T) {
	cases := []struct {
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"", 1, 20, 0},
		{"page=3&limit=10", 3, 10, 20},
		{"page=0&limit=0", 1, 20, 0},
		{"page=-5&limit=-1", 1, 20, 0},
		{"page=2&limit=500", 2, 100, 100},
		{"page=abc&limit=xyz", 1, 20, 0},
	}

	for _, tc := range cases {
		got := Parse(contextWithQuery(tc.query))
		if got.Page != tc.wantPage || got.Limit != tc.wantLimit || got.Offset() != tc.wantOffset {
			t.Errorf("Parse(%q) = %+v (offset %d), want page=%d limit=%d offset=%d",
				tc.query, got, got.Offset(), tc.wantPage, tc.wantLimit, tc.wantOffset)
		}
	}
}
