package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogService "github.com/surveypool/search-api/internal/service/catalog"
)

func newCatalogRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(catalogService.NewService()).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestListPackages(t *testing.T) {
	r := newCatalogRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/packages", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string `json:"status"`
		Data   []struct {
			ID            string `json:"id"`
			PointsGranted int64  `json:"points_granted"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.Data, 4)
	assert.Equal(t, "points_1000", resp.Data[0].ID)
}

func TestGetPackage(t *testing.T) {
	r := newCatalogRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/packages/points_10000", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"points_granted":10000`)
}

func TestGetPackageUnknown(t *testing.T) {
	r := newCatalogRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/packages/points_999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
