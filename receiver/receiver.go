package receiver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kpaschen/weightedcor/lib"
	"github.com/kpaschen/weightedcor/lib/datatypes"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/model"
	"gonum.org/v1/gonum/mat"
)

var (
	receivedRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weightedcor_received_requests_total",
			Help: "Total number of correlation requests by response code.",
		},
		[]string{"code"},
	)
)

func init() {
	prometheus.MustRegister(receivedRequests)
}

// Matrix is the wire form of a matrix: dimensions plus the values column after
// column. Values are quoted strings so that NaN and Inf survive json.
type Matrix struct {
	Rows int                 `json:"rows"`
	Cols int                 `json:"cols"`
	Data []model.SampleValue `json:"data"`
}

type CorrelationRequest struct {
	X       Matrix              `json:"x"`
	Y       Matrix              `json:"y"`
	Weights []model.SampleValue `json:"weights"`
}

type CorrelationResponse struct {
	Result          Matrix                 `json:"result"`
	DegenerateCells []datatypes.ColumnPair `json:"degenerateCells"`
	DurationMillis  int64                  `json:"durationMillis"`
}

func toFloats(values []model.SampleValue) []float64 {
	ret := make([]float64, len(values))
	for i, v := range values {
		ret[i] = float64(v)
	}
	return ret
}

func fromFloats(values []float64) []model.SampleValue {
	ret := make([]model.SampleValue, len(values))
	for i, v := range values {
		ret[i] = model.SampleValue(v)
	}
	return ret
}

func (m Matrix) toMatrix() (mat.Matrix, error) {
	return lib.NewColumnMajor(m.Rows, m.Cols, toFloats(m.Data))
}

func fromMatrix(m mat.Matrix) Matrix {
	r, c := m.Dims()
	return Matrix{Rows: r, Cols: c, Data: fromFloats(lib.ColumnMajorData(m))}
}

// A CorrelationReceiver serves correlation matrix computations over http.
type CorrelationReceiver struct {
	correlator *lib.Correlator
}

func NewCorrelationReceiver(correlator *lib.Correlator) *CorrelationReceiver {
	return &CorrelationReceiver{correlator: correlator}
}

// Router serves the correlation endpoint.
func (c *CorrelationReceiver) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/api/v1/correlate", c.Correlate).Methods("POST")
	return router
}

func (c *CorrelationReceiver) fail(w http.ResponseWriter, err error, code int) {
	receivedRequests.WithLabelValues(fmt.Sprintf("%d", code)).Inc()
	http.Error(w, err.Error(), code)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, lib.ErrDimensionMismatch):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (c *CorrelationReceiver) Correlate(w http.ResponseWriter, r *http.Request) {
	var req CorrelationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("failed to decode correlation request: %v\n", err)
		c.fail(w, fmt.Errorf("failed to decode request: %v", err), http.StatusBadRequest)
		return
	}
	x, err := req.X.toMatrix()
	if err != nil {
		c.fail(w, fmt.Errorf("x: %w", err), http.StatusBadRequest)
		return
	}
	y, err := req.Y.toMatrix()
	if err != nil {
		c.fail(w, fmt.Errorf("y: %w", err), http.StatusBadRequest)
		return
	}

	res, err := c.correlator.Compute(r.Context(), x, y, toFloats(req.Weights))
	if err != nil {
		log.Printf("correlation request failed: %v\n", err)
		c.fail(w, err, statusFor(err))
		return
	}

	receivedRequests.WithLabelValues(fmt.Sprintf("%d", http.StatusOK)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(CorrelationResponse{
		Result:          fromMatrix(res.Correlations),
		DegenerateCells: res.DegenerateCells,
		DurationMillis:  res.Duration.Milliseconds(),
	})
	if err != nil {
		log.Printf("failed to encode correlation response: %v\n", err)
	}
}
