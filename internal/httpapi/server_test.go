package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/hamed0406/capprobe/internal/domain"
	apimw "github.com/hamed0406/capprobe/internal/httpapi/middleware"
	"github.com/hamed0406/capprobe/internal/probe"
	"github.com/hamed0406/capprobe/internal/report"
	"github.com/hamed0406/capprobe/internal/runner"
)

// ---- test helpers ----

func testRegistry() *probe.Registry {
	return probe.NewRegistry().MustRegister(
		probe.New("serialize", func(context.Context) (domain.Outcome, error) {
			return domain.Success(map[string]string{"format": "json"}), nil
		}),
		probe.New("network", func(context.Context) (domain.Outcome, error) {
			return domain.Failure(domain.ErrorKindTimeout, "deadline exceeded"), nil
		}),
		probe.New("broken", func(context.Context) (domain.Outcome, error) {
			return domain.Outcome{}, errors.New("boom")
		}),
	)
}

func setupServer(t *testing.T, reg *probe.Registry) *httptest.Server {
	t.Helper()
	srv := NewServer(zap.NewNop(), runner.New(nil), report.New(nil), reg)
	keys := apimw.Keys{
		Public: []string{"pub_test"},
		Admin:  []string{"adm_test"},
	}
	// very high rate limits to avoid flakiness in tests
	ts := httptest.NewServer(srv.Router(keys, nil, 10_000, 10_000))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, key string) *http.Response {
	t.Helper()
	req, _ := http.NewRequest(method, url, nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) HealthBody {
	t.Helper()
	var b HealthBody
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return b
}

// overlapCounter records the highest number of concurrent executions.
type overlapCounter struct {
	now, max atomic.Int32
}

func (c *overlapCounter) track(name string, hold time.Duration) probe.Probe {
	return probe.New(name, func(context.Context) (domain.Outcome, error) {
		n := c.now.Add(1)
		defer c.now.Add(-1)
		for {
			m := c.max.Load()
			if n <= m || c.max.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(hold)
		return domain.Success(nil), nil
	})
}

// ---- tests ----

func TestHealth_PendingBeforeAnyRun(t *testing.T) {
	ts := setupServer(t, testRegistry())

	resp := do(t, http.MethodGet, ts.URL+"/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}
	if raw["status"] != "pending" {
		t.Fatalf("status=%v", raw["status"])
	}
	if res, _ := raw["results"].([]any); res == nil || len(res) != 0 {
		t.Fatalf("want empty results array, got %#v", raw["results"])
	}
	if raw["checkedAt"] != nil {
		t.Fatalf("checkedAt should be null, got %v", raw["checkedAt"])
	}
}

func TestRun_ThenHealthServesSameReport(t *testing.T) {
	ts := setupServer(t, testRegistry())

	runResp := do(t, http.MethodPost, ts.URL+"/run", "adm_test")
	if runResp.StatusCode != http.StatusOK {
		t.Fatalf("run: want 200, got %d", runResp.StatusCode)
	}
	ran := decodeBody(t, runResp)
	if ran.Status != StatusPartial || len(ran.Results) != 3 || ran.CheckedAt == nil {
		t.Fatalf("unexpected run body: %+v", ran)
	}
	if ran.Results[1].ErrorKind != "Timeout" || ran.Results[2].ErrorKind != "Unhandled" {
		t.Fatalf("error kinds: %+v", ran.Results)
	}
	if ran.Results[0].Details["format"] != "json" {
		t.Fatalf("details: %+v", ran.Results[0])
	}

	health := decodeBody(t, do(t, http.MethodGet, ts.URL+"/health", ""))
	if diff := cmp.Diff(ran, health); diff != "" {
		t.Fatalf("health differs from run (-run +health):\n%s", diff)
	}
}

func TestRun_RequiresAdminKey(t *testing.T) {
	ts := setupServer(t, testRegistry())

	if resp := do(t, http.MethodPost, ts.URL+"/run", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no key: want 401, got %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodPost, ts.URL+"/run", "pub_test"); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("public key: want 403, got %d", resp.StatusCode)
	}
	// a refused trigger never runs anything
	if b := decodeBody(t, do(t, http.MethodGet, ts.URL+"/health", "")); b.Status != StatusPending {
		t.Fatalf("status=%s", b.Status)
	}
}

func TestRun_EmptyRegistryIsOK(t *testing.T) {
	ts := setupServer(t, probe.NewRegistry())
	resp := do(t, http.MethodPost, ts.URL+"/run", "adm_test")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if b := decodeBody(t, resp); b.Status != StatusOK || len(b.Results) != 0 {
		t.Fatalf("body: %+v", b)
	}
}

func TestRun_HarnessFaultIs500(t *testing.T) {
	ts := setupServer(t, nil)
	if resp := do(t, http.MethodPost, ts.URL+"/run", "adm_test"); resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", resp.StatusCode)
	}
}

func TestProbes_ListsNamesInOrder(t *testing.T) {
	ts := setupServer(t, testRegistry())

	if resp := do(t, http.MethodGet, ts.URL+"/probes", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no key: want 401, got %d", resp.StatusCode)
	}
	resp := do(t, http.MethodGet, ts.URL+"/probes", "pub_test")
	var got struct {
		Probes    []string        `json:"probes"`
		Runtime   string          `json:"runtime"`
		Libraries []probe.Library `json:"libraries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"serialize", "network", "broken"}, got.Probes); diff != "" {
		t.Fatalf("probes (-want +got):\n%s", diff)
	}
	if got.Runtime != runtime.Version() || len(got.Libraries) != 3 || got.Libraries[0].Module != "gopkg.in/yaml.v3" {
		t.Fatalf("inventory: runtime=%q libraries=%+v", got.Runtime, got.Libraries)
	}
}

func TestRouter_SecurityHeadersAndLiveness(t *testing.T) {
	ts := setupServer(t, testRegistry())
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz: %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options=%q", got)
	}
	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options=%q", got)
	}
}

func TestRun_ConcurrentTriggersDoNotOverlap(t *testing.T) {
	var c overlapCounter
	ts := setupServer(t, probe.NewRegistry().MustRegister(c.track("shared", 50*time.Millisecond)))

	var wg sync.WaitGroup
	codes := make([]int, 3)
	for i := range codes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := http.NewRequest(http.MethodPost, ts.URL+"/run", nil)
			req.Header.Set("X-API-Key", "adm_test")
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Errorf("run %d: %v", i, err)
				return
			}
			resp.Body.Close()
			codes[i] = resp.StatusCode
		}()
	}
	wg.Wait()

	if diff := cmp.Diff([]int{200, 200, 200}, codes); diff != "" {
		t.Fatalf("status codes (-want +got):\n%s", diff)
	}
	if got := c.max.Load(); got != 1 {
		t.Fatalf("max concurrent executions = %d, want 1", got)
	}
}

func TestRun_ClientHangUpStillPublishesFullRun(t *testing.T) {
	reg := probe.NewRegistry().MustRegister(
		probe.New("slow", func(ctx context.Context) (domain.Outcome, error) {
			select {
			case <-ctx.Done():
				return domain.Outcome{}, ctx.Err()
			case <-time.After(200 * time.Millisecond):
				return domain.Success(nil), nil
			}
		}),
		probe.New("after", func(context.Context) (domain.Outcome, error) {
			return domain.Success(nil), nil
		}),
	)
	rep := report.New(nil)
	srv := NewServer(zap.NewNop(), runner.New(nil), rep, reg)
	ts := httptest.NewServer(srv.Router(apimw.Keys{}, nil, 10_000, 10_000))
	t.Cleanup(ts.Close)

	client := &http.Client{Timeout: 50 * time.Millisecond}
	if resp, err := client.Post(ts.URL+"/run", "application/json", nil); err == nil {
		resp.Body.Close()
		t.Fatal("expected the client to give up before the run finished")
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		if got, ok := rep.Latest(context.Background()); ok {
			if got.Status() != domain.AllPassed || got.Len() != 2 {
				t.Fatalf("published status=%s len=%d", got.Status(), got.Len())
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("run was never published")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if b := decodeBody(t, do(t, http.MethodGet, ts.URL+"/health", "")); b.Status != StatusOK {
		t.Fatalf("health status=%s", b.Status)
	}
}
