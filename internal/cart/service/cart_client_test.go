package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridloal/e-commerce-go-storefront/internal/platform/apiclient"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) CartClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPCartClient(apiclient.New(srv.URL+"/api", apiclient.Options{}))
}

func TestHTTPCartClient_ListItems(t *testing.T) {
	ctx := context.Background()

	t.Run("Decodes lines", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/cart", r.URL.Path)
			w.Write([]byte(`[{"id":3,"quantity":2,"product":{"id":7,"name":"Phone","price":20000}}]`))
		})
		got, err := client.ListItems(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 3, got[0].ID)
		assert.Equal(t, 7, got[0].Product.ID)
		assert.True(t, got[0].Subtotal().Equal(decimal.NewFromInt(40000)))
	})

	t.Run("Null and empty bodies are an empty cart", func(t *testing.T) {
		for _, body := range []string{"null", ""} {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			got, err := client.ListItems(ctx)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		}
	})

	t.Run("Non-2xx is rejected", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		_, err := client.ListItems(ctx)
		var re *RejectedError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, http.StatusNotFound, re.StatusCode)
	})
}

func TestHTTPCartClient_Mutations(t *testing.T) {
	ctx := context.Background()

	t.Run("AddItem sends product and quantity as query", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/cart", r.URL.Path)
			assert.Equal(t, "7", r.URL.Query().Get("productId"))
			assert.Equal(t, "3", r.URL.Query().Get("quantity"))
			w.Write([]byte(`{"id":1,"quantity":3}`))
		})
		data, err := client.AddItem(ctx, 7, 3)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":1,"quantity":3}`, string(data))
	})

	t.Run("UpdateItem targets the line", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/api/cart/4", r.URL.Path)
			assert.Equal(t, "5", r.URL.Query().Get("quantity"))
			w.Write([]byte("Cart updated"))
		})
		data, err := client.UpdateItem(ctx, 4, 5)
		require.NoError(t, err)
		assert.JSONEq(t, `"Cart updated"`, string(data))
	})

	t.Run("RemoveItem and Clear use DELETE", func(t *testing.T) {
		var paths []string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			paths = append(paths, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		})
		_, err := client.RemoveItem(ctx, 4)
		require.NoError(t, err)
		_, err = client.Clear(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"/api/cart/4", "/api/cart"}, paths)
	})

	t.Run("Plain-text rejection message is kept", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Only 2 items left"))
		})
		_, err := client.AddItem(ctx, 7, 9)
		var re *RejectedError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, "Only 2 items left", re.Message)
	})
}

func TestHTTPCartClient_Total(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name string
		body string
		want decimal.Decimal
	}{
		{name: "Object payload", body: `{"total": 60000}`, want: decimal.NewFromInt(60000)},
		{name: "Bare number", body: `60000.5`, want: decimal.RequireFromString("60000.5")},
		{name: "Quoted number", body: `"12.25"`, want: decimal.RequireFromString("12.25")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/cart/total", r.URL.Path)
				w.Write([]byte(tc.body))
			})
			got, err := client.Total(ctx)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
		})
	}

	t.Run("Object without total is an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"sum": 3}`))
		})
		_, err := client.Total(ctx)
		assert.Error(t, err)
	})
}
