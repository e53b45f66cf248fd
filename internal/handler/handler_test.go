package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	dbmodels "github.com/ad-tracker/video-catalog-go/internal/db/models"
	"github.com/ad-tracker/video-catalog-go/internal/db/repository/repotest"
	"github.com/ad-tracker/video-catalog-go/internal/middleware"
	"github.com/ad-tracker/video-catalog-go/internal/service"
	"github.com/ad-tracker/video-catalog-go/internal/validation"
	"github.com/ad-tracker/video-catalog-go/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	// Initialize logger to prevent nil pointer errors
	_ = logger.Init("error", "")
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error { return p.err }

var errDatabaseDown = errors.New("database down")

type testServer struct {
	router *gin.Engine
	store  *repotest.Store
	now    time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		store: repotest.NewStore(),
		now:   time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	catalog := service.NewCatalogService(ts.store, validation.Default(),
		service.WithClock(func() time.Time { return ts.now }))

	router, err := NewRouter(RouterConfig{
		Catalog: catalog,
		DB:      fakePinger{},
		Metrics: middleware.NewMetrics(),
	})
	require.NoError(t, err)
	ts.router = router
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) postForm(t *testing.T, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) seedVideo(title string, categoryID int64, active bool) *dbmodels.Video {
	v := dbmodels.NewVideo(title, "dQw4w9WgXcQ", categoryID, ts.now.Add(-time.Hour))
	v.IsActive = active
	return ts.store.AddVideo(*v)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
