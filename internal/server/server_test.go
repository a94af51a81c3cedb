package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/profile"
	"github.com/Zachkp/portfolio/internal/section"
	"github.com/Zachkp/portfolio/internal/view"
	"github.com/Zachkp/portfolio/internal/visitors"
)

type fakeRelay struct {
	mu   sync.Mutex
	err  error
	sent []contact.Form
}

func (f *fakeRelay) Send(_ context.Context, form contact.Form) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, form)
	return nil
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	cfg := config.New()
	cfg.GinMode = gin.TestMode
	s, err := New(cfg, profile.Default(), append([]Option{WithLogger(logger.Nop())}, opts...)...)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func postContact(t *testing.T, s *Server, form url.Values) *goquery.Document {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return doc
}

func validContact() url.Values {
	return url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"Bonjour"}}
}

func TestNewRequiresInputs(t *testing.T) {
	_, err := New(nil, profile.Default())
	assert.Error(t, err)
	_, err = New(config.New(), nil)
	assert.Error(t, err)
}

func TestIndex(t *testing.T) {
	s := newTestServer(t)
	w := get(t, s, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 12, doc.Find("#skills .skill").Length())
	assert.Equal(t, 4, doc.Find("#projects .project").Length())
	id, _ := doc.Find("nav .nav-dot.is-active").Attr("data-section")
	assert.Equal(t, "home", id)
	assert.True(t, doc.Find("#cursor").HasClass("is-hidden"))
}

func TestStaticAndOps(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/static/js/view.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "WebSocket")

	w = get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = get(t, s, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "portfolio_http_requests_total")

	w = get(t, s, "/contact-form")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="contact-form"`)
}

func TestProfileAPI(t *testing.T) {
	s := newTestServer(t)
	w := get(t, s, "/api/profile")
	require.Equal(t, http.StatusOK, w.Code)

	var p profile.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, profile.Default().Skills, p.Skills)
	assert.Equal(t, profile.Default().Projects, p.Projects)
}

func TestContactWithoutRelay(t *testing.T) {
	s := newTestServer(t)
	doc := postContact(t, s, validContact())
	assert.Equal(t, 1, doc.Find(".contact-error").Length())
	assert.Contains(t, doc.Text(), "pas disponible")
}

func TestContactFlows(t *testing.T) {
	relay := &fakeRelay{}
	s := newTestServer(t, WithRelay(relay))

	doc := postContact(t, s, validContact())
	assert.Equal(t, 1, doc.Find(".contact-success").Length())
	require.Len(t, relay.sent, 1)
	assert.Equal(t, "ada@example.com", relay.sent[0].Email)

	bad := validContact()
	bad.Set("email", "nope")
	doc = postContact(t, s, bad)
	assert.Equal(t, 1, doc.Find(".contact-error").Length())
	assert.Len(t, relay.sent, 1)

	relay.err = errors.New("smtp down")
	doc = postContact(t, s, validContact())
	assert.Contains(t, doc.Find(".contact-error").Text(), "erreur")
}

func openStore(t *testing.T) *visitors.Store {
	t.Helper()
	store, err := visitors.Open(context.Background(), ":memory:", visitors.WithSalt("s"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func publicVisitsServer(t *testing.T, store *visitors.Store) *Server {
	t.Helper()
	cfg := config.New()
	cfg.GinMode = gin.TestMode
	cfg.PublicVisits = true
	s, err := New(cfg, profile.Default(), WithLogger(logger.Nop()), WithVisitors(store))
	require.NoError(t, err)
	return s
}

func TestVisits(t *testing.T) {
	w := get(t, newTestServer(t), "/api/visits")
	assert.Equal(t, http.StatusNotFound, w.Code)

	s := publicVisitsServer(t, openStore(t))

	get(t, s, "/")
	get(t, s, "/static/css/site.css")

	assert.Eventually(t, func() bool {
		w := get(t, s, "/api/visits")
		var sum visitors.Summary
		return w.Code == http.StatusOK && json.Unmarshal(w.Body.Bytes(), &sum) == nil && sum.Total == 1
	}, 2*time.Second, 20*time.Millisecond)

	var body struct {
		Total  int64            `json:"total_visitors"`
		Recent []visitors.Visit `json:"recent"`
	}
	w = get(t, s, "/api/visits?recent=5")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body.Total)
	require.Len(t, body.Recent, 1)
	assert.Equal(t, "/", body.Recent[0].Path)
	assert.Len(t, body.Recent[0].HashedIP, 16)

	w = get(t, s, "/api/visits")
	assert.NotContains(t, w.Body.String(), `"recent"`)

	for _, bad := range []string{"abc", "-1"} {
		w = get(t, s, "/api/visits?recent="+bad)
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

func TestVisitsStayPrivateByDefault(t *testing.T) {
	store := openStore(t)
	s := newTestServer(t, WithVisitors(store))

	get(t, s, "/")
	assert.Eventually(t, func() bool {
		sum, err := store.Summary(context.Background())
		return err == nil && sum.Total == 1
	}, 2*time.Second, 20*time.Millisecond)

	w := get(t, s, "/api/visits")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "total_visitors")
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn
}

func readState(t *testing.T, conn *websocket.Conn) view.State {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var st view.State
	require.NoError(t, conn.ReadJSON(&st))
	return st
}

func TestLiveView(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dial(t, ts)
	st := readState(t, conn)
	assert.Equal(t, section.Home, st.Active)
	assert.True(t, st.Cursor.Hidden)
	assert.NotEmpty(t, st.ViewID)
	assert.Eventually(t, func() bool { return s.LiveViews() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "scroll", "offset": 300, "start": 0, "end": 1200}))
	st = readState(t, conn)
	assert.Equal(t, 0.25, st.Progress)
	assert.Equal(t, "25%", st.BackgroundOffset)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "pointer.move", "x": 40, "y": 80}))
	st = readState(t, conn)
	assert.Equal(t, view.Cursor{X: 40, Y: 80, Opacity: 1}, st.Cursor)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "section.select", "section": "contact"}))
	st = readState(t, conn)
	assert.Equal(t, section.Contact, st.Active)
	assert.Equal(t, 0.25, st.Progress, "selecting must not scroll")

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "section.select", "section": "blog"}))
	st = readState(t, conn)
	assert.Equal(t, section.Contact, st.Active)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "section.select", "section": "Skills"}))
	st = readState(t, conn)
	assert.Equal(t, section.Skills, st.Active)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "pointer.leave"}))
	st = readState(t, conn)
	assert.True(t, st.Cursor.Hidden)
	assert.Zero(t, st.Cursor.Opacity)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return s.LiveViews() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestLiveViewRejectsBadMessages(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dial(t, ts)
	defer conn.Close()
	readState(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "invalid message", msg["error"])

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "keydown"}))
	msg = nil
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Contains(t, msg["error"], "keydown")
}

func TestLiveViewsAreIsolated(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	a, b := dial(t, ts), dial(t, ts)
	defer a.Close()
	defer b.Close()
	stA, stB := readState(t, a), readState(t, b)
	assert.NotEqual(t, stA.ViewID, stB.ViewID)

	require.NoError(t, a.WriteJSON(map[string]any{"type": "section.select", "section": "skills"}))
	assert.Equal(t, section.Skills, readState(t, a).Active)

	require.NoError(t, b.WriteJSON(map[string]any{"type": "pointer.leave"}))
	assert.Equal(t, section.Home, readState(t, b).Active)
}

func TestRunShutsDown(t *testing.T) {
	cfg := config.New()
	cfg.GinMode = gin.TestMode
	cfg.Addr = "127.0.0.1:0"
	s, err := New(cfg, profile.Default(), WithLogger(logger.Nop()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
