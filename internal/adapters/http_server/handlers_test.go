package httpserver_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	httpserver "hotel_proxy/internal/adapters/http_server"
	"hotel_proxy/internal/adapters/supplier"
	"hotel_proxy/internal/app"
)

// fakeUpstream records what the proxy forwarded and answers with a canned reply.
type fakeUpstream struct {
	mu       sync.Mutex
	hits     int32
	path     string
	rawPath  string
	query    string
	body     map[string]any
	headers  http.Header
	status   int
	response string
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&f.hits, 1)
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.path = r.URL.Path
	f.rawPath = r.URL.EscapedPath()
	f.query = r.URL.RawQuery
	f.headers = r.Header.Clone()
	f.body = nil
	_ = json.Unmarshal(b, &f.body)
	status, resp := f.status, f.response
	f.mu.Unlock()
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp))
}

type seen struct {
	path, rawPath, query string
	body                 map[string]any
	headers              http.Header
}

func (f *fakeUpstream) seen() seen {
	f.mu.Lock()
	defer f.mu.Unlock()
	return seen{path: f.path, rawPath: f.rawPath, query: f.query, body: f.body, headers: f.headers}
}

func newProxy(t *testing.T, up *fakeUpstream) *httptest.Server {
	t.Helper()
	ups := httptest.NewServer(up)
	t.Cleanup(ups.Close)
	return newProxyAt(t, ups.URL)
}

func newProxyAt(t *testing.T, base string) *httptest.Server {
	t.Helper()
	cl, err := supplier.New(base, "test-key", supplier.Options{RPS: 100, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("supplier.New: %v", err)
	}
	srv := httpserver.New(5 * time.Second)
	srv.MountHandlers(&httpserver.Handlers{P: app.NewProxyService(cl, nil, nil, 0)})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) (int, map[string]any) {
	t.Helper()
	res, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer res.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(res.Body).Decode(&out)
	return res.StatusCode, out
}

const validSearch = `{"locationId":"123","type":"CITY","lat":48.85,"lng":2.35,
 "checkInDate":"2026-12-01","checkOutDate":"2026-12-03",
 "occupancies":[{"numOfRoom":1,"numOfAdults":2,"numOfChildren":1,"childAges":[7]}],
 "currency":"USD","nationality":"US"}`

func TestSearch_DefaultsPagination(t *testing.T) {
	up := &fakeUpstream{response: `{"status":true,"data":{"hotels":[],"totalCount":0}}`}
	ts := newProxy(t, up)

	code, out := post(t, ts.URL+"/api/ext/hotelSearch", validSearch)
	if code != http.StatusOK || out["status"] != true {
		t.Fatalf("code=%d out=%v", code, out)
	}
	if up.seen().path != "/hotel/search" {
		t.Fatalf("upstream path %q", up.seen().path)
	}
	if up.seen().body["page"] != float64(1) || up.seen().body["limit"] != float64(50) {
		t.Fatalf("expected page=1 limit=50 merged, got %v / %v", up.seen().body["page"], up.seen().body["limit"])
	}
	if up.seen().body["locationId"] != "123" || up.seen().body["currency"] != "USD" {
		t.Fatalf("original body fields must be forwarded: %v", up.seen().body)
	}
}

func TestSearch_MergesPaginationFromQuery(t *testing.T) {
	up := &fakeUpstream{response: `{"status":true}`}
	ts := newProxy(t, up)

	code, _ := post(t, ts.URL+"/api/ext/hotelSearch?page=3&limit=20", validSearch)
	if code != http.StatusOK {
		t.Fatalf("code=%d", code)
	}
	if up.seen().body["page"] != float64(3) || up.seen().body["limit"] != float64(20) {
		t.Fatalf("got page=%v limit=%v", up.seen().body["page"], up.seen().body["limit"])
	}
}

func TestSearch_BadPagination(t *testing.T) {
	up := &fakeUpstream{}
	ts := newProxy(t, up)
	code, _ := post(t, ts.URL+"/api/ext/hotelSearch?page=zero", validSearch)
	if code != http.StatusBadRequest || atomic.LoadInt32(&up.hits) != 0 {
		t.Fatalf("code=%d hits=%d", code, atomic.LoadInt32(&up.hits))
	}
}

func TestRoutes_RejectWithoutUpstreamCall(t *testing.T) {
	cases := []struct {
		name, path, body, wantErr string
	}{
		{"invalid json", "/api/ext/hotel/autosuggest", `{"text":`, "Invalid JSON body"},
		{"json array", "/api/ext/hotel/autosuggest", `["paris"]`, "Invalid JSON body"},
		{"missing text", "/api/ext/hotel/autosuggest", `{}`, "Missing required fields in request body."},
		{"empty text", "/api/ext/hotel/autosuggest", `{"text":""}`, "Missing required fields in request body."},
		{"rooms missing lat", "/api/ext/hotel/roomsandrates",
			`{"hotelId":"h1","checkInDate":"2026-12-01","checkOutDate":"2026-12-02","occupancies":[{"numOfAdults":1,"numOfChildren":0,"childAges":[]}],"lng":1,"currency":"USD"}`,
			"Missing required fields in request body."},
		{"rooms null hotel", "/api/ext/hotel/roomsandrates",
			`{"hotelId":null,"checkInDate":"2026-12-01","checkOutDate":"2026-12-02","occupancies":[{"numOfAdults":1}],"lat":0,"lng":0,"currency":"USD"}`,
			"Missing required fields in request body."},
		{"search no occupancies", "/api/ext/hotelSearch",
			`{"checkInDate":"2026-12-01","checkOutDate":"2026-12-02","occupancies":[]}`,
			"Missing required fields in request body."},
		{"search zero adults", "/api/ext/hotelSearch",
			`{"checkInDate":"2026-12-01","checkOutDate":"2026-12-02","occupancies":[{"numOfAdults":0}]}`,
			"Missing required fields in request body."},
		{"search child ages mismatch", "/api/ext/hotelSearch",
			`{"checkInDate":"2026-12-01","checkOutDate":"2026-12-02","occupancies":[{"numOfAdults":2,"numOfChildren":2,"childAges":[4]}]}`,
			"Missing required fields in request body."},
		{"search checkout before checkin", "/api/ext/hotelSearch",
			`{"checkInDate":"2026-12-05","checkOutDate":"2026-12-05","occupancies":[{"numOfAdults":2}]}`,
			"Missing required fields in request body."},
		{"book missing recommendation", "/api/ext/hotel/h1/tok/book",
			`{"rateId":"r1","guestDetails":{"firstName":"A","lastName":"B","email":"a@b.co"},"checkInDate":"2026-12-01","checkOutDate":"2026-12-02","occupancies":[{"numOfAdults":1}],"currency":"USD"}`,
			"Missing required fields in request body."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			up := &fakeUpstream{response: `{}`}
			ts := newProxy(t, up)
			code, out := post(t, ts.URL+tc.path, tc.body)
			if code != http.StatusBadRequest {
				t.Fatalf("code=%d out=%v", code, out)
			}
			if out["error"] != tc.wantErr {
				t.Fatalf("error=%v", out["error"])
			}
			if n := atomic.LoadInt32(&up.hits); n != 0 {
				t.Fatalf("upstream must not be called, hits=%d", n)
			}
		})
	}
}

func TestRoomsAndRates_ZeroCoordinatesAccepted(t *testing.T) {
	up := &fakeUpstream{response: `{"status":true,"data":{"rooms":[]}}`}
	ts := newProxy(t, up)
	body := `{"hotelId":"h1","checkInDate":"2026-12-01","checkOutDate":"2026-12-02",
	 "occupancies":[{"numOfAdults":1,"numOfChildren":0,"childAges":[]}],"lat":0,"lng":0,"currency":"USD","extra":"kept"}`
	code, _ := post(t, ts.URL+"/api/ext/hotel/roomsandrates", body)
	if code != http.StatusOK {
		t.Fatalf("code=%d", code)
	}
	if up.seen().path != "/hotel/roomsandrates" || up.seen().body["extra"] != "kept" || up.seen().body["hotelId"] != "h1" {
		t.Fatalf("path=%s body=%v", up.seen().path, up.seen().body)
	}
}

func TestUpstreamError_RelaysStatusAndRawBody(t *testing.T) {
	for _, status := range []int{400, 404, 422, 500, 503} {
		up := &fakeUpstream{status: status, response: `{"message":"bad things"} trailing`}
		ts := newProxy(t, up)
		code, out := post(t, ts.URL+"/api/ext/hotel/autosuggest", `{"text":"paris"}`)
		if code != status {
			t.Fatalf("want %d got %d", status, code)
		}
		if out["details"] != `{"message":"bad things"} trailing` {
			t.Fatalf("details=%v", out["details"])
		}
		if !strings.HasPrefix(out["error"].(string), "External API Error: ") {
			t.Fatalf("error=%v", out["error"])
		}
	}
}

func TestUpstreamSuccess_UnparseableBody(t *testing.T) {
	up := &fakeUpstream{response: `<html>oops</html>`}
	ts := newProxy(t, up)
	code, out := post(t, ts.URL+"/api/ext/hotel/autosuggest", `{"text":"paris"}`)
	if code != http.StatusInternalServerError || out["error"] != "Failed to parse response from external API." {
		t.Fatalf("code=%d out=%v", code, out)
	}
}

func TestUpstreamUnreachable(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	base := dead.URL
	dead.Close()

	ts := newProxyAt(t, base)
	code, out := post(t, ts.URL+"/api/ext/hotel/autosuggest", `{"text":"paris"}`)
	if code != http.StatusInternalServerError || out["error"] != "Failed to fetch data from external API." {
		t.Fatalf("code=%d out=%v", code, out)
	}
	if d, _ := out["details"].(string); d == "" {
		t.Fatalf("expected underlying error in details")
	}
}

func TestRelay_KeepsUpstreamStatusAndTagsEachCall(t *testing.T) {
	up := &fakeUpstream{status: http.StatusCreated, response: `{"status":true,"data":{"bookingId":"B1"}}`}
	ts := newProxy(t, up)
	body := `{"rateId":"r1","recommendationId":"rec1","guestDetails":{"firstName":"A","lastName":"B","email":"a@b.co"},
	 "checkInDate":"2026-12-01","checkOutDate":"2026-12-02","occupancies":[{"numOfAdults":1}],"currency":"USD"}`

	code, out := post(t, ts.URL+"/api/ext/hotel/h%201/tok/book", body)
	if code != http.StatusCreated || out["status"] != true {
		t.Fatalf("code=%d out=%v", code, out)
	}
	if up.seen().path != "/hotel/h 1/tok/book" {
		t.Fatalf("path=%q", up.seen().path)
	}
	first := up.seen().headers.Get("x-session-id") + "|" + up.seen().headers.Get("corelationId")
	if up.seen().headers.Get("x-xeni-token") != "test-key" || len(first) < 10 {
		t.Fatalf("missing supplier headers: %v", up.seen().headers)
	}
	if up.seen().headers.Get("x-session-id") == up.seen().headers.Get("corelationId") {
		t.Fatalf("session and correlation ids must differ")
	}

	_, _ = post(t, ts.URL+"/api/ext/hotel/h1/tok/book", body)
	second := up.seen().headers.Get("x-session-id") + "|" + up.seen().headers.Get("corelationId")
	if first == second {
		t.Fatalf("each proxied call must carry a fresh id pair")
	}
}

func TestBook_EncodedSlashIsEscapedOnce(t *testing.T) {
	up := &fakeUpstream{status: http.StatusCreated, response: `{"status":true,"data":{"bookingId":"B2"}}`}
	ts := newProxy(t, up)
	body := `{"rateId":"r1","recommendationId":"rec1","guestDetails":{"firstName":"A","lastName":"B","email":"a@b.co"},
	 "checkInDate":"2026-12-01","checkOutDate":"2026-12-02","occupancies":[{"numOfAdults":1}],"currency":"USD"}`

	code, out := post(t, ts.URL+"/api/ext/hotel/h%2F1/t%2Fk/book", body)
	if code != http.StatusCreated {
		t.Fatalf("code=%d out=%v", code, out)
	}
	if got := up.seen().rawPath; got != "/hotel/h%2F1/t%2Fk/book" {
		t.Fatalf("supplier path=%q", got)
	}
}

func TestRelay_StatusesWithoutBody(t *testing.T) {
	up := &fakeUpstream{status: http.StatusNoContent}
	ts := newProxy(t, up)

	res, err := http.Get(ts.URL + "/api/ext/hotel/details?hotelId=h1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	b, _ := io.ReadAll(res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusNoContent || len(b) != 0 {
		t.Fatalf("code=%d body=%q", res.StatusCode, b)
	}

	up.mu.Lock()
	up.status = http.StatusNotModified
	up.mu.Unlock()
	res, err = http.Get(ts.URL + "/api/ext/hotel/details?hotelId=h1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(res.Body).Decode(&out)
	if res.StatusCode != http.StatusBadGateway || out["error"] != "External API Error: Not Modified" {
		t.Fatalf("code=%d out=%v", res.StatusCode, out)
	}
}

func TestDetails(t *testing.T) {
	up := &fakeUpstream{response: `{"status":true,"data":{"hotel":{"overview":{"name":"X"}}}}`}
	ts := newProxy(t, up)

	res, err := http.Get(ts.URL + "/api/ext/hotel/details")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest || atomic.LoadInt32(&up.hits) != 0 {
		t.Fatalf("missing hotelId: code=%d hits=%d", res.StatusCode, atomic.LoadInt32(&up.hits))
	}

	res, err = http.Get(ts.URL + "/api/ext/hotel/details?hotelId=42")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK || up.seen().path != "/hotel/details" || up.seen().query != "hotelId=42" {
		t.Fatalf("code=%d path=%s query=%s", res.StatusCode, up.seen().path, up.seen().query)
	}
}

func TestHealthz(t *testing.T) {
	ts := newProxy(t, &fakeUpstream{})
	res, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("healthz %d", res.StatusCode)
	}
}
