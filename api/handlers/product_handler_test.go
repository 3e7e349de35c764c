package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopez/internal/models"
	"shopez/internal/services"
)

func newProductRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	catalog := services.NewProductService()
	catalog.InitSampleData()
	h := NewProductHandler(catalog)

	r := gin.New()
	r.GET("/api/products", h.GetAllProducts)
	return r
}

func TestGetAllProductsPagination(t *testing.T) {
	r := newProductRouter()

	tests := []struct {
		name      string
		query     string
		wantCount int
		wantPage  int
		wantNext  bool
	}{
		{"defaults", "", 3, 1, false},
		{"first page of two", "?limit=2", 2, 1, true},
		{"second page of two", "?page=2&limit=2", 1, 2, false},
		{"past the end", "?page=5&limit=2", 0, 5, false},
		{"page overflows offset", "?page=922337203685477581&limit=20", 0, 922337203685477581, false},
		{"negative page", "?page=-3", 3, 1, false},
		{"limit out of range", "?limit=1000", 3, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/products"+tt.query, nil)
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)

			var body struct {
				Data []models.Product `json:"data"`
				Meta struct {
					Page    int  `json:"page"`
					Total   int  `json:"total"`
					HasNext bool `json:"has_next"`
				} `json:"meta"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Len(t, body.Data, tt.wantCount)
			assert.Equal(t, tt.wantPage, body.Meta.Page)
			assert.Equal(t, 3, body.Meta.Total)
			assert.Equal(t, tt.wantNext, body.Meta.HasNext)
		})
	}
}
