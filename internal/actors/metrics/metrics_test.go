package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rbroggi/hbnb/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewStoreMetrics(reg)
	require.NoError(t, err)

	m.ObserveSave(map[model.Kind]int{model.KindUser: 2, model.KindPlace: 1}, 10*time.Millisecond, nil)
	m.ObserveSave(nil, time.Millisecond, nil)
	m.ObserveReload(nil, time.Millisecond, errors.New("boom"))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.operations.WithLabelValues("save", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.operations.WithLabelValues("reload", "error")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.entities.WithLabelValues("User")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.entities.WithLabelValues("Place")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.entities.WithLabelValues("Review")))

	expected := `
# HELP hbnb_store_operations_total Whole-document save and reload attempts by outcome.
# TYPE hbnb_store_operations_total counter
hbnb_store_operations_total{operation="reload",result="error"} 1
hbnb_store_operations_total{operation="save",result="ok"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "hbnb_store_operations_total"))
}

func TestNewStoreMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewStoreMetrics(reg)
	require.NoError(t, err)
	_, err = NewStoreMetrics(reg)
	require.Error(t, err)
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewStoreMetrics(reg)
	require.NoError(t, err)
	m.ObserveSave(map[model.Kind]int{model.KindAmenity: 3}, time.Millisecond, nil)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hbnb_store_entities{kind="Amenity"} 3`)
}
