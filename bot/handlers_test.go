package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleHealthCheck(t *testing.T) {
	srv, _ := testServer(t, testConfig())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/_health", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, srv.handleHealthCheck(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePreview(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	srv, store := testServer(t, testConfig())
	_, err := store.AddItems(context.Background(), "seed", []string{
		"the quick brown fox jumps over the lazy dog",
	})
	require.NoError(err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/preview", nil)
	rec := httptest.NewRecorder()

	require.NoError(srv.handlePreview(e.NewContext(req, rec)))

	var out GenerateResponse
	require.NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(out.Text)
	assert.LessOrEqual(out.Length, 280)
}

func TestHandlePreviewEmptyCorpus(t *testing.T) {
	srv, _ := testServer(t, testConfig())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/preview", nil)
	rec := httptest.NewRecorder()

	err := srv.handlePreview(e.NewContext(req, rec))
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}
