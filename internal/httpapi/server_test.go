package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/BowmanStephen/Script-Ohio-2.0-sub009/pkg/types"
)

// fakeService serves canned data and records the limit it was asked for.
type fakeService struct {
	events    []types.EventRecord
	ready     bool
	lastLimit int
}

func (f *fakeService) LatestEvents(limit int) []types.EventRecord {
	f.lastLimit = limit
	if limit > 0 && limit < len(f.events) {
		return f.events[len(f.events)-limit:]
	}
	return f.events
}

func (f *fakeService) Status() types.FeedStatus {
	return types.FeedStatus{Subscribed: f.ready, BufferLen: len(f.events), Capacity: 100, Operation: "scoreboard"}
}

func (f *fakeService) Ready() bool { return f.ready }

func doGet(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestEventsEndpoint(t *testing.T) {
	svc := &fakeService{events: []types.EventRecord{
		{"id": "g1"}, {"id": "g2"}, {"id": "g3"},
	}}
	mux := NewMux(svc, prometheus.NewRegistry())

	rr := doGet(t, mux, "/events?limit=2")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp types.EventsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || len(resp.Events) != 2 || resp.Events[1]["id"] != "g3" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if svc.lastLimit != 2 {
		t.Fatalf("service saw limit %d, want 2", svc.lastLimit)
	}
}

func TestEventsDefaultAndInvalidLimit(t *testing.T) {
	svc := &fakeService{}
	mux := NewMux(svc, prometheus.NewRegistry())

	if rr := doGet(t, mux, "/events"); rr.Code != http.StatusOK {
		t.Fatalf("default limit: status = %d", rr.Code)
	}
	if svc.lastLimit != 0 {
		t.Fatalf("default limit forwarded as %d, want 0", svc.lastLimit)
	}

	for _, q := range []string{"limit=abc", "limit=-1"} {
		rr := doGet(t, mux, "/events?"+q)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", q, rr.Code)
		}
		var er types.ErrorResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &er); err != nil || er.Code != 400 {
			t.Fatalf("%s: bad error payload %q", q, rr.Body.String())
		}
	}
}

func TestStatusEndpoint(t *testing.T) {
	svc := &fakeService{ready: true, events: []types.EventRecord{{"id": "g1"}}}
	mux := NewMux(svc, prometheus.NewRegistry())

	rr := doGet(t, mux, "/status")
	var st types.FeedStatus
	if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !st.Subscribed || st.BufferLen != 1 || st.Operation != "scoreboard" {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestHealthAndReadiness(t *testing.T) {
	svc := &fakeService{}
	mux := NewMux(svc, prometheus.NewRegistry())

	if rr := doGet(t, mux, "/healthz"); rr.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rr.Code)
	}
	if rr := doGet(t, mux, "/readyz"); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz while unsubscribed = %d, want 503", rr.Code)
	}
	svc.ready = true
	if rr := doGet(t, mux, "/readyz"); rr.Code != http.StatusOK {
		t.Fatalf("readyz while subscribed = %d, want 200", rr.Code)
	}
}

func TestMetricsEndpointExposesHTTPCounters(t *testing.T) {
	svc := &fakeService{}
	reg := prometheus.NewRegistry()
	mux := NewMux(svc, reg)

	doGet(t, mux, "/events")
	rr := doGet(t, mux, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "cfbd_http_requests_total") {
		t.Fatalf("scrape output missing http counters:\n%s", rr.Body.String())
	}
}

func TestMetricsMux(t *testing.T) {
	reg := prometheus.NewRegistry()
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: "cfbd_subscription_last_heartbeat", Help: "h"})
	reg.MustRegister(g)
	g.Set(42)

	mux := NewMetricsMux(reg)
	if rr := doGet(t, mux, "/healthz"); rr.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rr.Code)
	}
	rr := doGet(t, mux, "/metrics")
	if !strings.Contains(rr.Body.String(), "cfbd_subscription_last_heartbeat 42") {
		t.Fatalf("scrape output missing gauge:\n%s", rr.Body.String())
	}
}
