package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
	apperrors "github.com/kevinbibang94/baol-digital-show-clean/internal/platform/errors"
)

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandleGetStats(t *testing.T) {
	stats := &mockStatsService{
		getStatsFn: func(context.Context) (*domain.EngagementRecord, error) {
			return &domain.EngagementRecord{ID: 1, Views: 10, Likes: 3, Dislikes: 1}, nil
		},
	}
	srv := newTestServer(t, withStats(stats))
	c, rec := newJSONContext(http.MethodGet, "/api/reportage/stats", "")

	err := callHandler(srv.handleGetStats, c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get(echo.HeaderCacheControl))

	var got domain.EngagementRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(10), got.Views)
	assert.Equal(t, int64(3), got.Likes)
	assert.Equal(t, int64(1), got.Dislikes)
}

func TestHandleGetStats_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", domain.ErrRecordNotFound, http.StatusNotFound},
		{"store down", errors.New("connection refused"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := &mockStatsService{
				getStatsFn: func(context.Context) (*domain.EngagementRecord, error) { return nil, tt.err },
			}
			srv := newTestServer(t, withStats(stats))
			c, rec := newJSONContext(http.MethodGet, "/api/reportage/stats", "")

			require.NoError(t, callHandler(srv.handleGetStats, c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleIncrementViews(t *testing.T) {
	var gotCurrent int64 = -1
	stats := &mockStatsService{
		incrementViewsFn: func(_ context.Context, current int64) (*domain.EngagementRecord, error) {
			gotCurrent = current
			return &domain.EngagementRecord{ID: 1, Views: current + 1}, nil
		},
	}
	srv := newTestServer(t, withStats(stats))
	c, rec := newJSONContext(http.MethodPost, "/api/reportage/views", `{"current_views":0}`)

	require.NoError(t, callHandler(srv.handleIncrementViews, c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), gotCurrent, "zero is a valid base")
	assert.Contains(t, rec.Body.String(), `"views":1`)
}

func TestHandleIncrementViews_Validation(t *testing.T) {
	stats := &mockStatsService{
		incrementViewsFn: func(_ context.Context, current int64) (*domain.EngagementRecord, error) {
			if current < 0 {
				return nil, domain.ErrNegativeCounter
			}
			return &domain.EngagementRecord{}, nil
		},
	}
	srv := newTestServer(t, withStats(stats))

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"missing field", `{}`, "current_views is required"},
		{"malformed", `{"current_views":`, "invalid request body"},
		{"wrong type", `{"current_views":"ten"}`, "invalid request body"},
		{"negative", `{"current_views":-1}`, domain.ErrNegativeCounter.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newJSONContext(http.MethodPost, "/api/reportage/views", tt.body)

			require.NoError(t, callHandler(srv.handleIncrementViews, c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp apperrors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantMsg, resp.Error)
		})
	}
}

func TestHandleUpdateReactions(t *testing.T) {
	var gotLikes, gotDislikes int64
	stats := &mockStatsService{
		updateReactionsFn: func(_ context.Context, likes, dislikes int64) (*domain.EngagementRecord, error) {
			gotLikes, gotDislikes = likes, dislikes
			return &domain.EngagementRecord{ID: 1, Views: 10, Likes: likes, Dislikes: dislikes}, nil
		},
	}
	srv := newTestServer(t, withStats(stats))
	c, rec := newJSONContext(http.MethodPost, "/api/reportage/reactions", `{"likes":4,"dislikes":0}`)

	require.NoError(t, callHandler(srv.handleUpdateReactions, c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(4), gotLikes)
	assert.Equal(t, int64(0), gotDislikes)
}

func TestHandleUpdateReactions_Validation(t *testing.T) {
	stats := &mockStatsService{
		updateReactionsFn: func(_ context.Context, likes, dislikes int64) (*domain.EngagementRecord, error) {
			if likes < 0 || dislikes < 0 {
				return nil, domain.ErrNegativeCounter
			}
			return &domain.EngagementRecord{}, nil
		},
	}
	srv := newTestServer(t, withStats(stats))

	for _, body := range []string{`{"likes":1}`, `{"dislikes":1}`, `{"likes":-1,"dislikes":0}`, `nope`} {
		c, rec := newJSONContext(http.MethodPost, "/api/reportage/reactions", body)
		require.NoError(t, callHandler(srv.handleUpdateReactions, c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestHandleUpdateReactions_StoreFailure(t *testing.T) {
	stats := &mockStatsService{
		updateReactionsFn: func(context.Context, int64, int64) (*domain.EngagementRecord, error) {
			return nil, errors.New("pool closed")
		},
	}
	srv := newTestServer(t, withStats(stats))
	c, rec := newJSONContext(http.MethodPost, "/api/reportage/reactions", `{"likes":1,"dislikes":0}`)

	require.NoError(t, callHandler(srv.handleUpdateReactions, c))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pool closed")
}

func TestStatsRoutesRegistered(t *testing.T) {
	stats := &mockStatsService{
		getStatsFn: func(context.Context) (*domain.EngagementRecord, error) {
			return &domain.EngagementRecord{ID: 1}, nil
		},
	}
	srv := newTestServer(t, withStats(stats))

	req := httptest.NewRequest(http.MethodGet, "/api/reportage/stats", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Without a websocket handler the live route is absent.
	req = httptest.NewRequest(http.MethodGet, "/api/reportage/live", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
