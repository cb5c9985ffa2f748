package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"battleship-advisor/internal/engine"
)

func newTestServer() *httptest.Server {
	s := New(func() *engine.Engine {
		return engine.New(engine.Config{Ceiling: 2000}, engine.NewSource(1), zerolog.Nop())
	}, zerolog.Nop())
	return httptest.NewServer(s.Handler())
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestMoveOutcomeFlow(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, body := post(t, ts, "/v1/move", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("move status = %d, body %v", resp.StatusCode, body)
	}
	move := body["move"].(map[string]any)
	analysis := body["analysis"].(map[string]any)
	if analysis["strategy"] != "sampled" {
		t.Errorf("strategy = %v, want sampled", analysis["strategy"])
	}

	req, _ := json.Marshal(map[string]any{"x": move["x"], "y": move["y"], "hit": true})
	resp, body = post(t, ts, "/v1/outcome", string(req))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("outcome status = %d, body %v", resp.StatusCode, body)
	}
	if body["guesses"].(float64) != 1 {
		t.Errorf("guesses = %v, want 1", body["guesses"])
	}

	resp, _ = post(t, ts, "/v1/outcome", string(req))
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("repeat outcome status = %d, want 409", resp.StatusCode)
	}

	resp, _ = post(t, ts, "/v1/new", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("new status = %d", resp.StatusCode)
	}
	status, err := http.Get(ts.URL + "/v1/status")
	if err != nil {
		t.Fatal(err)
	}
	defer status.Body.Close()
	var st map[string]any
	_ = json.NewDecoder(status.Body).Decode(&st)
	if st["guesses"].(float64) != 0 || st["remaining"].(float64) != 5 {
		t.Errorf("status after new = %v", st)
	}
}

func TestSunkAndGameOver(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	lengths := []int{2, 3, 3, 4, 5}
	resp, _ := post(t, ts, "/v1/sunk", `{"ship":4,"placement":{"x":0,"y":8,"orientation":"right"}}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("sinkage over unguessed squares status = %d, want 400", resp.StatusCode)
	}
	for ship := 0; ship < 5; ship++ {
		for x := 0; x < lengths[ship]; x++ {
			req, _ := json.Marshal(map[string]any{"x": x, "y": ship * 2, "hit": true})
			if resp, body := post(t, ts, "/v1/outcome", string(req)); resp.StatusCode != http.StatusOK {
				t.Fatalf("hit status = %d, body %v", resp.StatusCode, body)
			}
		}
		req, _ := json.Marshal(map[string]any{
			"ship":      ship,
			"placement": map[string]any{"x": 0, "y": ship * 2, "orientation": "right"},
		})
		resp, body := post(t, ts, "/v1/sunk", string(req))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("sunk %d status = %d, body %v", ship, resp.StatusCode, body)
		}
	}
	resp, _ = post(t, ts, "/v1/sunk", `{"ship":0,"placement":{"x":5,"y":5,"orientation":"up"}}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second sinkage status = %d, want 409", resp.StatusCode)
	}
	resp, body := post(t, ts, "/v1/move", "")
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("move after game over status = %d, body %v", resp.StatusCode, body)
	}
}

func TestAnalyze(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	rows := make([]string, 10)
	for i := range rows {
		rows[i] = strings.Repeat("X", 10)
	}
	rows[4] = "XXXX--XXXX"
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(map[string]any{"rows": rows})

	resp, body := post(t, ts, "/v1/analyze", buf.String())
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("no-room board status = %d, body %v, want 422", resp.StatusCode, body)
	}

	resp, _ = post(t, ts, "/v1/analyze", `{"rows":["--"]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("short board status = %d, want 400", resp.StatusCode)
	}
}

func TestMethodGating(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()
	resp, err := http.Get(ts.URL + "/v1/move")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/move = %d, want 405", resp.StatusCode)
	}
}
