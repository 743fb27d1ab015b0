package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api-smoke/internal/server"
	"api-smoke/internal/testimage"
	"api-smoke/pkg/api"
)

func newRouter() chi.Router {
	router := chi.NewRouter()
	server.NewPredictionService().AddRoutes(router)
	return router
}

func postPredict(t *testing.T, router chi.Router, imageBase64 string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(api.PredictRequest{ImageBase64: imageBase64})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestDocsEndpoints(t *testing.T) {
	router := newRouter()

	for _, path := range []string{"/docs", "/redoc"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "/predict", path)
	}
}

func TestPredictSyntheticImage(t *testing.T) {
	rec := postPredict(t, newRouter(), testimage.Build())
	assert.Equal(t, http.StatusOK, rec.Code)

	var res api.PredictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	require.NotNil(t, res.NumKernels)
	assert.Equal(t, *res.NumKernels, len(res.MatchedKernelIDs))
	assert.Equal(t, *res.NumKernels, len(res.MatchedScores))
	assert.NotEmpty(t, res.PredictionID)
	for _, score := range res.MatchedScores {
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestPredictIsDeterministic(t *testing.T) {
	router := newRouter()
	payload := testimage.Build()

	var first, second api.PredictResponse
	require.NoError(t, json.Unmarshal(postPredict(t, router, payload).Body.Bytes(), &first))
	require.NoError(t, json.Unmarshal(postPredict(t, router, payload).Body.Bytes(), &second))

	assert.Equal(t, first.NumKernels, second.NumKernels)
	assert.Equal(t, first.MatchedKernelIDs, second.MatchedKernelIDs)
	assert.Equal(t, first.MatchedScores, second.MatchedScores)
}

func TestPredictRejectsBadPayloads(t *testing.T) {
	router := newRouter()

	rec := postPredict(t, router, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postPredict(t, router, "!!! not base64 !!!")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postPredict(t, router, "aGVsbG8=") // valid base64, not an image
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader([]byte("{bad json")))
	out := httptest.NewRecorder()
	router.ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)
}
