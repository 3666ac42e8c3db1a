package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/outreach-crm/internal/domain"
)

func newTestEngine(url string) *Engine {
	return &Engine{
		url:         url,
		maxAttempts: 3,
		backoffBase: time.Millisecond,
		pacingDelay: time.Millisecond,
		httpClient:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestDeliverPayloadAndHeaders(t *testing.T) {
	var got payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "camp-1", r.Header.Get("X-Campaign-ID"))
		assert.Equal(t, "list-9", r.Header.Get("X-Lead-List-ID"))
		assert.Equal(t, "1", r.Header.Get("X-Lead-Index"))
		assert.Equal(t, "1", r.Header.Get("X-Total-Leads"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer server.Close()

	lead := domain.Lead{ID: "l1", Name: "Pat", Email: "pat@example.com"}
	summary := newTestEngine(server.URL).Deliver(context.Background(), "camp-1", "list-9", []domain.Lead{lead})

	assert.True(t, summary.Success)
	assert.Equal(t, 1, summary.SuccessCount)
	assert.Equal(t, "camp-1", got.CampaignID)
	assert.Equal(t, "list-9", got.LeadListID)
	assert.Equal(t, 1, got.LeadIndex)
	assert.Equal(t, 1, got.TotalLeads)
	assert.Equal(t, "l1", got.Lead.ID)
	assert.NotEmpty(t, got.Timestamp)
}

func TestDeliverRetriesThenSucceeds(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	summary := newTestEngine(server.URL).Deliver(context.Background(), "c", "l", []domain.Lead{{ID: "l1"}})

	assert.True(t, summary.Success)
	assert.Equal(t, 1, summary.SuccessCount)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, StateSucceeded, summary.Results[0].State)
	assert.Equal(t, 2, summary.Results[0].Attempts)
	assert.Empty(t, summary.Errors)
}

func TestDeliverExhaustsAttempts(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	summary := newTestEngine(server.URL).Deliver(context.Background(), "c", "l", []domain.Lead{{ID: "l1"}})

	assert.False(t, summary.Success)
	assert.Equal(t, 0, summary.SuccessCount)
	assert.Equal(t, 1, summary.FailureCount)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	require.Len(t, summary.Results, 1)
	assert.Equal(t, StateFailedFinal, summary.Results[0].State)
	assert.Equal(t, 3, summary.Results[0].Attempts)

	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "Lead 1:")
	assert.Contains(t, summary.Errors[0], "status 500")
}

func TestDeliverMixedOutcomes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Second lead always fails.
		if r.Header.Get("X-Lead-Index") == "2" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()

	leads := []domain.Lead{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	summary := newTestEngine(server.URL).Deliver(context.Background(), "c", "l", leads)

	// One lead failing does not abort the run, and one success is
	// enough for the run to count as successful.
	assert.True(t, summary.Success)
	assert.Equal(t, 2, summary.SuccessCount)
	assert.Equal(t, 1, summary.FailureCount)
	assert.Equal(t, 3, summary.TotalLeads)

	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "Lead 2:")

	require.Len(t, summary.Results, 3)
	assert.Equal(t, StateSucceeded, summary.Results[0].State)
	assert.Equal(t, StateFailedFinal, summary.Results[1].State)
	assert.Equal(t, StateSucceeded, summary.Results[2].State)
}

func TestDeliverEmptyLeadList(t *testing.T) {
	summary := newTestEngine("http://127.0.0.1:1").Deliver(context.Background(), "c", "l", nil)

	assert.False(t, summary.Success)
	assert.Equal(t, 0, summary.TotalLeads)
	assert.Empty(t, summary.Results)
	assert.Empty(t, summary.Errors)
	assert.NotEqual(t, "", summary.RunID.String())
}

func TestDeliverSequentialOrder(t *testing.T) {
	var indexes []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		indexes = append(indexes, r.Header.Get("X-Lead-Index"))
	}))
	defer server.Close()

	leads := []domain.Lead{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	newTestEngine(server.URL).Deliver(context.Background(), "c", "l", leads)

	// Strictly sequential: no interleaving, encounter order preserved.
	assert.Equal(t, []string{"1", "2", "3"}, indexes)
}

func TestDeliverContextCancelStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			cancel()
		}
	}))
	defer server.Close()

	leads := []domain.Lead{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	summary := newTestEngine(server.URL).Deliver(ctx, "c", "l", leads)

	// The first lead's result survives; the rest of the run is
	// abandoned.
	assert.Equal(t, 1, summary.SuccessCount)
	assert.Less(t, len(summary.Results), 3)
	assert.Contains(t, summary.Errors[len(summary.Errors)-1], "run aborted")
}

func TestBackoffDoublesPerAttempt(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	e := newTestEngine(server.URL)
	e.backoffBase = 20 * time.Millisecond

	start := time.Now()
	summary := e.Deliver(context.Background(), "c", "l", []domain.Lead{{ID: "a"}})
	elapsed := time.Since(start)

	assert.True(t, summary.Success)
	// Two failed attempts wait 2x then 4x the base delay.
	assert.GreaterOrEqual(t, elapsed, 120*time.Millisecond)
}
