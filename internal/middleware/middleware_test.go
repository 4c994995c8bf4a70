package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	chiMid "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/themartincox/peartree-sub006/internal/observability"
)

func TestAssetsWithCacheETag(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "site.css"), []byte("body{margin:0}"), 0o644))

	h := AssetsWithCache("/assets", dir)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "body{margin:0}", rec.Body.String())
	require.Equal(t, assetCacheControl, rec.Header().Get("Cache-Control"))
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil)
	req.Header.Set("If-None-Match", `"other", `+etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)
	require.Empty(t, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/", nil))
	require.Equal(t, http.StatusNotFound, rec.Code, "directory listings are not served")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/missing.js", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoggerRecordsRequest(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	r := chi.NewRouter()
	r.Use(chiMid.RequestID)
	r.Use(Logger(zap.New(core)))
	r.Get("/fees", func(w http.ResponseWriter, r *http.Request) {
		id, ok := RequestID(r.Context())
		require.True(t, ok)
		require.NotEmpty(t, id)
		observability.FromContext(r.Context()).Info("inside handler")
		_, _ = w.Write([]byte("hello"))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fees", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "/fees", fields["route"])
	require.EqualValues(t, http.StatusOK, fields["status"])
	require.EqualValues(t, 5, fields["bytes"])
	require.NotEmpty(t, fields["request_id"])
	require.Equal(t, 1, logs.FilterMessage("inside handler").Len())

	require.NotContains(t, fields, "trace_id")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	failed := logs.FilterMessage("request completed").FilterField(zap.Int("status", http.StatusInternalServerError)).All()
	require.Len(t, failed, 1)
	require.Equal(t, zap.ErrorLevel, failed[0].Level)
}

func TestLoggerAddsTraceFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	r := chi.NewRouter()
	r.Use(observability.TraceMiddleware("peartree-web"))
	r.Use(Logger(zap.New(core)))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Cloud-Trace-Context", "105445aa7843bc8bf206b12000100000/1;o=1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "105445aa7843bc8bf206b12000100000", fields["trace_id"])
	require.Equal(t, "projects/peartree-web/traces/105445aa7843bc8bf206b12000100000", fields["logging.googleapis.com/trace"])
}
