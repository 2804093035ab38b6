package stripe

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flaboy/aira-catalog/pkg/errors"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("sk_test_123")
	c.APIBase = srv.URL
	c.FilesBase = srv.URL
	return c
}

func TestListProductsQuery(t *testing.T) {
	var gotQuery map[string]string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/products", r.URL.Path)
		require.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		gotQuery = map[string]string{
			"active":         r.URL.Query().Get("active"),
			"limit":          r.URL.Query().Get("limit"),
			"starting_after": r.URL.Query().Get("starting_after"),
		}
		json.NewEncoder(w).Encode(productList{
			Data:    []Product{{ID: "prod_1", Name: "Widget", Active: true}},
			HasMore: true,
		})
	}))

	products, hasMore, err := c.ListProducts(500, "prod_0")
	require.NoError(t, err)
	assert.True(t, hasMore)
	require.Len(t, products, 1)
	assert.Equal(t, "prod_1", products[0].ID)

	// active-only, page size clamped to the service maximum, cursor passed
	assert.Equal(t, "true", gotQuery["active"])
	assert.Equal(t, "100", gotQuery["limit"])
	assert.Equal(t, "prod_0", gotQuery["starting_after"])
}

func TestListProductsFirstPageOmitsCursor(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("starting_after"))
		json.NewEncoder(w).Encode(productList{})
	}))

	_, hasMore, err := c.ListProducts(10, "")
	require.NoError(t, err)
	assert.False(t, hasMore)
}

func TestListActivePrices(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/prices", r.URL.Path)
		assert.Equal(t, "prod_1", r.URL.Query().Get("product"))
		assert.Equal(t, "true", r.URL.Query().Get("active"))
		json.NewEncoder(w).Encode(priceList{Data: []Price{
			{ID: "price_1", Product: "prod_1", UnitAmount: 1999, Currency: "usd"},
		}})
	}))

	prices, err := c.ListActivePrices("prod_1")
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, int64(1999), prices[0].UnitAmount)
}

func TestCreateProductForm(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/products", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Widget", r.PostForm.Get("name"))
		assert.Equal(t, "SKU-1", r.PostForm.Get("metadata[code]"))
		assert.Equal(t, "https://files.example.com/fl_1", r.PostForm.Get("images[0]"))
		json.NewEncoder(w).Encode(Product{ID: "prod_9", Name: "Widget"})
	}))

	product, err := c.CreateProduct(&ProductParams{
		Name:     "Widget",
		Code:     "SKU-1",
		ImageURL: "https://files.example.com/fl_1",
	})
	require.NoError(t, err)
	assert.Equal(t, "prod_9", product.ID)
}

func TestCreatePriceRejectsNonPositiveAmountBeforeNetwork(t *testing.T) {
	called := false
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	for _, amount := range []int64{0, -100} {
		_, err := c.CreatePrice("prod_1", amount, "usd", "SKU-1")
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.ValidationError))
	}
	assert.False(t, called, "no network call should be made")
}

func TestUploadFileRejectsEmptyPayloadBeforeNetwork(t *testing.T) {
	called := false
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := c.UploadFile(nil, "x.png", "image/png", "product_image")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.ImageMissing))
	assert.False(t, called)
}

func TestUploadFileAndCreateLink(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/files":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "product_image", r.PostFormValue("purpose"))
			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "widget.png", header.Filename)
			json.NewEncoder(w).Encode(File{ID: "file_1", Filename: "widget.png"})
		case "/v1/file_links":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "file_1", r.PostForm.Get("file"))
			json.NewEncoder(w).Encode(FileLink{ID: "link_1", URL: "https://files.example.com/fl_1"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	file, err := c.UploadFile([]byte("png-bytes"), "widget.png", "image/png", "product_image")
	require.NoError(t, err)

	link, err := c.CreateFileLink(file.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/fl_1", link.URL)
}

func TestAPIErrorMapsToRemoteError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]map[string]string{
			"error": {"type": "invalid_request_error", "message": "Invalid API Key provided"},
		})
	}))

	_, _, err := c.ListProducts(10, "")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.RemoteError))
	assert.Contains(t, err.Error(), "Invalid API Key")
}
