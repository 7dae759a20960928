package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Topsis/internal/config"
	"github.com/MikeSquared-Agency/Topsis/internal/criteria"
	"github.com/MikeSquared-Agency/Topsis/internal/dataset"
	"github.com/MikeSquared-Agency/Topsis/internal/hermes"
	"github.com/MikeSquared-Agency/Topsis/internal/logging"
	"github.com/MikeSquared-Agency/Topsis/internal/ranking"
	"github.com/MikeSquared-Agency/Topsis/internal/store"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

// Mocks

type staticSource struct {
	ds *dataset.Dataset
}

func (s staticSource) Load(context.Context) (*dataset.Dataset, error) { return s.ds, nil }

type failingSource struct {
	err error
}

func (s failingSource) Load(context.Context) (*dataset.Dataset, error) { return nil, s.err }

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListAlternatives(ctx context.Context) ([]*store.Alternative, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*store.Alternative), args.Error(1)
}

func (m *MockStore) GetAlternative(ctx context.Context, label string) (*store.Alternative, error) {
	args := m.Called(ctx, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Alternative), args.Error(1)
}

func (m *MockStore) UpsertAlternative(ctx context.Context, a *store.Alternative) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockStore) DeleteAlternative(ctx context.Context, label string) (bool, error) {
	args := m.Called(ctx, label)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Close() error { return nil }

type recordingHermes struct {
	mu       sync.Mutex
	subjects []string
}

func (r *recordingHermes) Publish(subject string, _ interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subjects = append(r.subjects, subject)
	return nil
}

func (r *recordingHermes) Subscribe(string, func(string, []byte)) error { return nil }
func (r *recordingHermes) Close()                                      {}

// Fixtures

func testCriteria() criteria.Set {
	return criteria.Set{
		{Name: "Price", Weight: 5, Direction: topsis.Cost},
		{Name: "Camera", Weight: 4, Direction: topsis.Benefit},
		{Name: "Battery", Weight: 4, Direction: topsis.Benefit},
		{Name: "Weight", Weight: 3, Direction: topsis.Cost},
		{Name: "Performance", Weight: 5, Direction: topsis.Benefit},
	}
}

func testDataset() *dataset.Dataset {
	return &dataset.Dataset{
		IDColumn: "Alternative",
		Columns:  []string{"Price", "Camera", "Battery", "Weight", "Performance"},
		Alternatives: []dataset.Alternative{
			{Label: "Alpha", Values: []float64{3.5, 72, 5000, 190, 620}},
			{Label: "Beta", Values: []float64{7.2, 88, 4500, 205, 910}},
			{Label: "Gamma", Values: []float64{12.9, 95, 4800, 228, 1480}},
			{Label: "Delta", Values: []float64{2.1, 60, 6000, 200, 410}},
			{Label: "Epsilon", Values: []float64{5.4, 81, 5100, 185, 780}},
		},
	}
}

type testServer struct {
	handler     http.Handler
	store       *MockStore
	hermes      *recordingHermes
	invalidated int
}

func newTestServer(withStore bool) *testServer {
	var ms *MockStore
	if withStore {
		ms = new(MockStore)
	}
	return newTestServerWith(staticSource{ds: testDataset()}, ms)
}

// newTestServerWith serves source. A nil ms leaves the catalog routes unmounted.
func newTestServerWith(source dataset.Source, ms *MockStore) *testServer {
	ts := &testServer{hermes: &recordingHermes{}, store: ms}
	svc := ranking.New(source, testCriteria(), topsis.NewEngine(0), ts.hermes,
		ranking.Options{DefaultTopN: 10, PodiumSize: 3}, logging.Discard())

	var s store.Store
	if ms != nil {
		s = ms
	}
	cfg := config.ServerConfig{AdminToken: "secret"}
	ts.handler = NewRouter(svc, s, ts.hermes, func() { ts.invalidated++ }, cfg, logging.Discard())
	return ts
}

func (ts *testServer) do(method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// Tests

func TestListCriteria(t *testing.T) {
	ts := newTestServer(false)
	w := ts.do("GET", "/api/v1/criteria", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["criteria"], 5)
	assert.Equal(t, float64(1), body["min_weight"])
	assert.Equal(t, float64(5), body["max_weight"])
	first := body["criteria"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "cost", first["direction"])
}

func TestListAlternatives(t *testing.T) {
	ts := newTestServer(false)

	w := ts.do("GET", "/api/v1/alternatives", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(5), body["total"])
	assert.Equal(t, float64(5), body["shown"])
	assert.Len(t, body["ranges"], 5)

	w = ts.do("GET", "/api/v1/alternatives?criterion=Price&min=3&max=8", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, float64(3), body["shown"])
	assert.Equal(t, float64(5), body["total"])

	w = ts.do("GET", "/api/v1/alternatives?criterion=Price&max=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["shown"])

	w = ts.do("GET", "/api/v1/alternatives?criterion=Price&min=100", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["alternatives"])
}

func TestListAlternativesBadFilter(t *testing.T) {
	ts := newTestServer(false)

	assert.Equal(t, http.StatusBadRequest, ts.do("GET", "/api/v1/alternatives?criterion=Price&min=cheap", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do("GET", "/api/v1/alternatives?criterion=Price&min=9&max=1", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, ts.do("GET", "/api/v1/alternatives?criterion=RAM&min=1", nil).Code)
}

func TestAlternativeProfile(t *testing.T) {
	ts := newTestServer(false)

	w := ts.do("GET", "/api/v1/alternatives/Delta/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Delta", body["label"])
	assert.Len(t, body["axes"], 5)

	w = ts.do("GET", "/api/v1/alternatives/Omega/profile", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRanking(t *testing.T) {
	ts := newTestServer(false)

	w := ts.do("POST", "/api/v1/rankings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	podium := body["podium"].([]interface{})
	require.Len(t, podium, 3)
	assert.Equal(t, "Alpha", podium[0].(map[string]interface{})["label"])
	assert.Equal(t, "0.5702", podium[0].(map[string]interface{})["display_score"])
	assert.Len(t, ts.hermes.subjects, 1)

	w = ts.do("POST", "/api/v1/rankings", map[string]interface{}{
		"weights": map[string]float64{"Price": 1},
		"filter":  map[string]interface{}{"criterion": "Price", "min": 3, "max": 8},
		"top_n":   1,
	})
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Len(t, body["top"], 1)
	assert.Equal(t, float64(3), body["shown"])
}

func TestCreateRankingErrors(t *testing.T) {
	ts := newTestServer(false)

	tests := []struct {
		name string
		body interface{}
		want int
	}{
		{"malformed", "{not json", http.StatusBadRequest},
		{"inverted filter", map[string]interface{}{"filter": map[string]interface{}{"criterion": "Price", "min": 9, "max": 1}}, http.StatusBadRequest},
		{"weight out of range", map[string]interface{}{"weights": map[string]float64{"Price": 9}}, http.StatusUnprocessableEntity},
		{"unknown criterion", map[string]interface{}{"weights": map[string]float64{"RAM": 2}}, http.StatusUnprocessableEntity},
		{"empty selection", map[string]interface{}{"filter": map[string]interface{}{"criterion": "Price", "min": 100, "max": 200}}, http.StatusUnprocessableEntity},
		{"negative top n", map[string]interface{}{"top_n": -3}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do("POST", "/api/v1/rankings", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.NotEmpty(t, decode(t, w)["error"])
		})
	}
}

func TestEvaluate(t *testing.T) {
	ts := newTestServer(false)

	w := ts.do("POST", "/api/v1/topsis", map[string]interface{}{
		"matrix":     [][]float64{{10, 80, 4000, 150}, {20, 90, 5000, 180}},
		"weights":    []float64{5, 4, 4, 3},
		"directions": []string{"cost", "benefit", "benefit", "cost"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	scores := body["scores"].([]interface{})
	assert.InDelta(t, 0.7622844098231173, scores[0], 1e-12)
	assert.InDelta(t, 0.2377155901768828, scores[1], 1e-12)
	assert.Equal(t, []interface{}{float64(1), float64(2)}, body["ranks"])
}

func TestEvaluateConfigErrors(t *testing.T) {
	ts := newTestServer(false)

	w := ts.do("POST", "/api/v1/topsis", map[string]interface{}{
		"matrix":     [][]float64{{1, 2}},
		"weights":    []float64{1, 1},
		"directions": []string{"benefit", "sideways"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = ts.do("POST", "/api/v1/topsis", map[string]interface{}{
		"matrix":     [][]float64{{1, 2}},
		"weights":    []float64{1},
		"directions": []string{"benefit", "cost"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = ts.do("POST", "/api/v1/topsis", "[1,2")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogRoutesRequireStore(t *testing.T) {
	ts := newTestServer(false)
	w := ts.do("PUT", "/api/v1/alternatives/Zeta", map[string]interface{}{}, "Authorization", "Bearer secret")
	assert.Contains(t, []int{http.StatusNotFound, http.StatusMethodNotAllowed}, w.Code)
}

func TestUpsertAlternative(t *testing.T) {
	ts := newTestServer(true)
	ts.store.On("UpsertAlternative", mock.Anything, mock.MatchedBy(func(a *store.Alternative) bool {
		return a.Label == "Zeta" && a.Attributes["Price"] == 4
	})).Return(nil)

	body := map[string]interface{}{
		"attributes": map[string]float64{"Price": 4, "Camera": 80, "Battery": 5000, "Weight": 190, "Performance": 700},
	}

	w := ts.do("PUT", "/api/v1/alternatives/Zeta", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do("PUT", "/api/v1/alternatives/Zeta", body, "Authorization", "Bearer secret")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Zeta", decode(t, w)["label"])
	assert.Equal(t, 1, ts.invalidated)
	assert.Equal(t, []string{hermes.SubjectCatalogUpdated}, ts.hermes.subjects)
	ts.store.AssertExpectations(t)
}

func TestUpsertAlternativeIncomplete(t *testing.T) {
	ts := newTestServer(true)

	w := ts.do("PUT", "/api/v1/alternatives/Zeta", map[string]interface{}{
		"attributes": map[string]float64{"Price": 4},
	}, "Authorization", "Bearer secret")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 0, ts.invalidated)
	ts.store.AssertNotCalled(t, "UpsertAlternative", mock.Anything, mock.Anything)
}

func TestGetCatalogAlternative(t *testing.T) {
	ts := newTestServer(true)
	ts.store.On("GetAlternative", mock.Anything, "Alpha").Return(&store.Alternative{
		Label:      "Alpha",
		Attributes: map[string]float64{"Price": 3.5, "RAM": 8},
	}, nil)
	ts.store.On("GetAlternative", mock.Anything, "Omega").Return(nil, nil)

	w := ts.do("GET", "/api/v1/alternatives/Alpha", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do("GET", "/api/v1/alternatives/Alpha", nil, "Authorization", "Bearer secret")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	attrs := decode(t, w)["attributes"].(map[string]interface{})
	assert.Equal(t, 8.0, attrs["RAM"])

	w = ts.do("GET", "/api/v1/alternatives/Omega", nil, "Authorization", "Bearer secret")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAlternative(t *testing.T) {
	ts := newTestServer(true)
	ts.store.On("DeleteAlternative", mock.Anything, "Alpha").Return(true, nil)
	ts.store.On("DeleteAlternative", mock.Anything, "Omega").Return(false, nil)

	w := ts.do("DELETE", "/api/v1/alternatives/Alpha", nil, "Authorization", "Bearer secret")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, ts.invalidated)

	w = ts.do("DELETE", "/api/v1/alternatives/Omega", nil, "Authorization", "Bearer secret")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 1, ts.invalidated)
}

func TestEmptyCatalog(t *testing.T) {
	ms := new(MockStore)
	ms.On("ListAlternatives", mock.Anything).Return([]*store.Alternative{}, nil)
	ms.On("UpsertAlternative", mock.Anything, mock.Anything).Return(nil)
	source := &dataset.StoreSource{
		Store:    ms,
		IDColumn: "Alternative",
		Columns:  []string{"Price", "Camera", "Battery", "Weight", "Performance"},
	}
	ts := newTestServerWith(source, ms)

	w := ts.do("GET", "/api/v1/alternatives", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, []interface{}{}, body["alternatives"])
	assert.Equal(t, float64(0), body["total"])

	w = ts.do("POST", "/api/v1/rankings", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	w = ts.do("GET", "/api/v1/alternatives/Alpha/profile", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do("PUT", "/api/v1/alternatives/Zeta", map[string]interface{}{
		"attributes": map[string]float64{"Price": 4, "Camera": 80, "Battery": 5000, "Weight": 190, "Performance": 700},
	}, "Authorization", "Bearer secret")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestEmptyDatasetFile(t *testing.T) {
	ts := newTestServerWith(failingSource{err: dataset.ErrNoRows}, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, ts.do("GET", "/api/v1/alternatives", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, ts.do("POST", "/api/v1/rankings", nil).Code)
}

func TestMetricsRouter(t *testing.T) {
	r := NewMetricsRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
