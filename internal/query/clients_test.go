package query

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/admin-dashboard/internal/controller"
	"github.com/example/admin-dashboard/internal/infrastructure/store"
	"github.com/example/admin-dashboard/internal/readmodel"
	"github.com/example/admin-dashboard/internal/resource"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonServer(t *testing.T, path, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClients_EndToEnd(t *testing.T) {
	var productHits, userHits, medicineHits int32
	products := jsonServer(t, "/products", `[{"id":1,"title":"Ring","price":168,"category":"jewelery","rating":{"rate":3.9,"count":70}}]`, &productHits)
	users := jsonServer(t, "/users", `[{"id":1,"name":"Leanne Graham","address":{"city":"Gwenborough"},"company":{"name":"Romaguera-Crona"}}]`, &userHits)
	medicines := jsonServer(t, "/medicines", `{"success":false}`, &medicineHits)

	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	cache := store.NewMemoryCache()
	var events []resource.FetchEvent
	observer := resource.ObserverFunc(func(_ context.Context, e resource.FetchEvent) {
		events = append(events, e)
	})

	clients := NewClients(Endpoints{
		ProductsURL:  products.URL + "/",
		UsersURL:     users.URL,
		MedicinesURL: medicines.URL,
		Timeout:      2 * time.Second,
	}, cache, observer, logger)
	handler := clients.Handler()
	ctx := context.Background()

	pv, err := handler.Products(ctx, controller.NewProducts())
	require.NoError(t, err)
	assert.Equal(t, 1, pv.Stats.Count)

	uv, err := handler.Users(ctx, controller.NewList())
	require.NoError(t, err)
	assert.Equal(t, 1, uv.Stats.CityCount)

	_, err = handler.Medicines(ctx, controller.NewList())
	var fe *resource.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, resource.KindDecode, fe.Kind)

	// served from cache inside the validity window
	_, err = handler.Products(ctx, controller.NewProducts())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&productHits))

	assert.Equal(t, []string{readmodel.ResourceProducts, readmodel.ResourceUsers}, cache.Keys())
	require.Len(t, events, 3)
	assert.Equal(t, resource.OutcomeFailed, events[2].Outcome)

	sums := handler.Resources()
	assert.Equal(t, resource.Failed, sums[2].Status)
	assert.Equal(t, resource.KindDecode, sums[2].ErrorKind)
}
