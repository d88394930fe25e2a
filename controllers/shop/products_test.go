package shopControllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationContract(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "admin@example.com")
	for i := 0; i < 5; i++ {
		seedProduct(t, db, owner.ID, fmt.Sprintf("product-%d", i), 1000)
	}

	page1, err := PageOfProducts(db, 1)
	require.NoError(t, err)
	assert.Len(t, page1.Products, 2)
	assert.True(t, page1.HasNextPage)
	assert.False(t, page1.HasPreviousPage)
	assert.Equal(t, 3, page1.LastPage)
	assert.Equal(t, 2, page1.NextPage)

	page3, err := PageOfProducts(db, 3)
	require.NoError(t, err)
	assert.Len(t, page3.Products, 1)
	assert.False(t, page3.HasNextPage)
	assert.True(t, page3.HasPreviousPage)
	assert.Equal(t, 2, page3.PreviousPage)
}

func TestGetProductsDefaultsToFirstPage(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "admin@example.com")
	seedProduct(t, db, owner.ID, "solo", 1000)

	r := gin.New()
	r.GET("/products", GetProducts(db))

	for _, query := range []string{"", "?page=abc", "?page=-3"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products"+query, nil))
		require.Equal(t, http.StatusOK, w.Code)

		var page ProductPage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, 1, page.CurrentPage, "query %q must fall back to page 1", query)
	}
}

func TestGetProductByIDNotFound(t *testing.T) {
	db := testDB(t)

	r := gin.New()
	r.GET("/products/:id", GetProductByID(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
