package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autocitypro/import-service/internal/models"
)

func TestListSKUs(t *testing.T) {
	var gotAuth, gotLimit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotLimit = r.URL.Query().Get("limit")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"products": []map[string]string{
				{"sku": "BRK-1"}, {"sku": "OIL-2"}, {"sku": ""},
			},
		})
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL, "tok-123", time.Second)
	skus, count, err := client.ListSKUs(context.Background(), 10000)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "10000", gotLimit)
	assert.Equal(t, 3, count)
	assert.True(t, skus["BRK-1"])
	assert.True(t, skus["OIL-2"])
	assert.False(t, skus[""], "blank SKUs are not tracked")
}

func TestCreateCategory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/categories", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"category": map[string]string{"_id": "cat-9", "name": body["name"]},
		})
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL, "", time.Second)
	category, err := client.CreateCategory(context.Background(), "Brakes")
	require.NoError(t, err)
	assert.Equal(t, "cat-9", category.ID)
	assert.Equal(t, "Brakes", category.Name)
}

func TestCreateProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload models.CreateProductRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Brake Pad", payload.Name)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"product": map[string]string{"sku": payload.SKU},
		})
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL, "", time.Second)
	sku, err := client.CreateProduct(context.Background(), models.CreateProductRequest{
		Name: "Brake Pad",
		SKU:  "BRK-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "BRK-1", sku)
}

func TestCreateProduct_ServerErrorVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "SKU BRK-1 already exists"})
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL, "", time.Second)
	_, err := client.CreateProduct(context.Background(), models.CreateProductRequest{Name: "X", SKU: "BRK-1"})
	require.Error(t, err)
	assert.Equal(t, "SKU BRK-1 already exists", err.Error(), "server message is kept verbatim for the row")
}

func TestCreateProduct_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL, "", time.Second)
	_, err := client.CreateProduct(context.Background(), models.CreateProductRequest{Name: "X"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestListCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"categories": []map[string]string{
				{"_id": "cat-1", "name": "Brakes"},
				{"_id": "cat-2", "name": "Filters"},
			},
		})
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL, "", time.Second)
	categories, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "cat-1", categories[0].ID)
	assert.Equal(t, "Filters", categories[1].Name)
}
