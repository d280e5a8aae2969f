package receiver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/kpaschen/weightedcor/lib"
	"github.com/kpaschen/weightedcor/lib/datatypes"
	"github.com/kpaschen/weightedcor/lib/settings"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReceiver(t *testing.T) *CorrelationReceiver {
	correlator, err := lib.NewCorrelator(settings.CorrelationSettings{Workers: 2})
	require.NoError(t, err)
	return NewCorrelationReceiver(correlator)
}

func post(t *testing.T, rec *CorrelationReceiver, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/correlate", strings.NewReader(body))
	w := httptest.NewRecorder()
	rec.Router().ServeHTTP(w, req)
	return w
}

func TestCorrelate(t *testing.T) {
	rec := newTestReceiver(t)
	// x columns: [1 2 3], [3 2 1], [5 5 5]; y column: [1 2 NaN]
	body := `{
		"x": {"rows": 3, "cols": 3, "data": ["1", "2", "3", "3", "2", "1", "5", "5", "5"]},
		"y": {"rows": 3, "cols": 1, "data": ["1", "2", "NaN"]},
		"weights": ["1", "1", "1"]
	}`
	before := testutil.ToFloat64(receivedRequests.WithLabelValues("200"))
	w := post(t, rec, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp CorrelationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Result.Rows)
	assert.Equal(t, 1, resp.Result.Cols)
	require.Len(t, resp.Result.Data, 3)

	// Only two rows are usable once the NaN in y is excluded, so npair is 2 and
	// the two varying columns are still perfectly (anti)correlated.
	assert.InDelta(t, 1.0, float64(resp.Result.Data[0]), 1e-12)
	assert.InDelta(t, -1.0, float64(resp.Result.Data[1]), 1e-12)
	assert.True(t, math.IsNaN(float64(resp.Result.Data[2])))
	assert.Equal(t, []datatypes.ColumnPair{{X: 2, Y: 0}}, resp.DegenerateCells)
	assert.Contains(t, w.Body.String(), `"NaN"`)
	assert.Equal(t, 1.0, testutil.ToFloat64(receivedRequests.WithLabelValues("200"))-before)
}

func TestCorrelateDimensionMismatch(t *testing.T) {
	rec := newTestReceiver(t)
	before := testutil.ToFloat64(receivedRequests.WithLabelValues("400"))

	// Row counts differ.
	w := post(t, rec, `{
		"x": {"rows": 3, "cols": 1, "data": ["1", "2", "3"]},
		"y": {"rows": 2, "cols": 1, "data": ["1", "2"]},
		"weights": ["1", "1", "1"]
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "dimension mismatch")

	// Data does not fill the declared shape.
	w = post(t, rec, `{
		"x": {"rows": 3, "cols": 2, "data": ["1", "2", "3"]},
		"y": {"rows": 3, "cols": 1, "data": ["1", "2", "3"]},
		"weights": ["1", "1", "1"]
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Wrong number of weights.
	w = post(t, rec, `{
		"x": {"rows": 3, "cols": 1, "data": ["1", "2", "3"]},
		"y": {"rows": 3, "cols": 1, "data": ["1", "2", "3"]},
		"weights": ["1", "1"]
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, 3.0, testutil.ToFloat64(receivedRequests.WithLabelValues("400"))-before)
}

func TestCorrelateBadRequest(t *testing.T) {
	rec := newTestReceiver(t)
	w := post(t, rec, `{"x": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Numbers must be quoted.
	w = post(t, rec, `{"x": {"rows": 1, "cols": 1, "data": [1]}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCorrelateOnlyAcceptsPost(t *testing.T) {
	rec := newTestReceiver(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/correlate", nil)
	w := httptest.NewRecorder()
	rec.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCorrelateCancelled(t *testing.T) {
	rec := newTestReceiver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/correlate", strings.NewReader(`{
		"x": {"rows": 2, "cols": 1, "data": ["1", "2"]},
		"y": {"rows": 2, "cols": 1, "data": ["1", "2"]},
		"weights": ["1", "1"]
	}`)).WithContext(ctx)
	w := httptest.NewRecorder()
	rec.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type failingWriter struct {
	*httptest.ResponseRecorder
}

func (f failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection closed")
}

func TestCorrelateLogsEncodeFailure(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	rec := newTestReceiver(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/correlate", strings.NewReader(`{
		"x": {"rows": 2, "cols": 1, "data": ["1", "2"]},
		"y": {"rows": 2, "cols": 1, "data": ["1", "2"]},
		"weights": ["1", "1"]
	}`))
	w := failingWriter{httptest.NewRecorder()}
	rec.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), "failed to encode correlation response")
}
