package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-siggen/internal/session"
	"github.com/goliatone/go-siggen/pkg/export"
	"github.com/goliatone/go-siggen/pkg/model"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// browser replays the session cookie between requests.
type browser struct {
	t      *testing.T
	server *Server
	cookie *http.Cookie
}

func (b *browser) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	b.t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	rec := httptest.NewRecorder()
	b.server.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == b.server.opts.CookieName {
			b.cookie = c
		}
	}
	return rec
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, target, nil, "")
}

func (b *browser) patchField(field, value string) *httptest.ResponseRecorder {
	payload, err := json.Marshal(map[string]string{"value": value})
	require.NoError(b.t, err)
	return b.do(http.MethodPatch, "/api/fields/"+field, strings.NewReader(string(payload)), "application/json")
}

func (b *browser) patchFieldAt(field, value string, revision uint64) *httptest.ResponseRecorder {
	payload, err := json.Marshal(map[string]any{"value": value, "revision": revision})
	require.NoError(b.t, err)
	return b.do(http.MethodPatch, "/api/fields/"+field, strings.NewReader(string(payload)), "application/json")
}

func (b *browser) signature() model.SignatureData {
	b.t.Helper()
	rec := b.get("/api/signature")
	require.Equal(b.t, http.StatusOK, rec.Code)
	var data model.SignatureData
	require.NoError(b.t, json.Unmarshal(rec.Body.Bytes(), &data))
	return data
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.Store == nil {
		opts.Store = session.NewMemoryStore(time.Hour)
	}
	srv, err := New(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv
}

func TestServer_PageStartsSessionWithDefaults(t *testing.T) {
	srv := newTestServer(t, Options{})
	b := &browser{t: t, server: srv}

	rec := b.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "Email Signature Generator")
	assert.Contains(t, body, `id="signature-preview"`)
	assert.Contains(t, body, `data-copy-mode="browser"`)
	assert.Contains(t, body, "John Smith")

	require.NotNil(t, b.cookie)
	assert.True(t, session.ValidID(b.cookie.Value))
	assert.True(t, b.cookie.HttpOnly)

	assert.Equal(t, model.Default(), b.signature())
}

func TestServer_FieldUpdateRefreshesPreviewAndExport(t *testing.T) {
	srv := newTestServer(t, Options{})
	b := &browser{t: t, server: srv}
	b.get("/")

	rec := b.patchField("name", "Jane Doe")
	require.Equal(t, http.StatusOK, rec.Code)

	var result fieldUpdateResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Jane Doe", result.Data.Name)
	assert.Equal(t, model.Default().Title, result.Data.Title)
	assert.Contains(t, result.Preview, "Jane Doe")
	assert.NotContains(t, result.Preview, "John Smith")
	assert.Contains(t, result.HTML, "Jane Doe")
	assert.Contains(t, result.HTML, "mailto:john.smith@ggs-group.com")

	assert.Equal(t, "Jane Doe", b.signature().Name)

	rec = b.get("/api/signature.html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, result.HTML, rec.Body.String())
}

func TestServer_FieldUpdateAcceptsEmptyAndEscapesMarkup(t *testing.T) {
	srv := newTestServer(t, Options{})
	b := &browser{t: t, server: srv}

	rec := b.patchField("title", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", b.signature().Title)

	rec = b.patchField("address", "<b>HQ</b>")
	require.Equal(t, http.StatusOK, rec.Code)
	var result fieldUpdateResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Contains(t, result.HTML, "&lt;b&gt;HQ&lt;/b&gt;")
	assert.NotContains(t, result.HTML, "<b>HQ</b>")
}

func TestServer_FieldUpdateErrors(t *testing.T) {
	srv := newTestServer(t, Options{})
	b := &browser{t: t, server: srv}

	rec := b.patchField("fax", "x")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "unknown field")

	rec = b.do(http.MethodPatch, "/api/fields/name", strings.NewReader(`{}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = b.do(http.MethodPatch, "/api/fields/name", strings.NewReader(`not json`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, model.Default(), b.signature())
}

func TestServer_FieldUpdateRejectsOlderRevision(t *testing.T) {
	srv := newTestServer(t, Options{})
	b := &browser{t: t, server: srv}

	rec := b.patchFieldAt("name", "Ali", 2)
	require.Equal(t, http.StatusOK, rec.Code)
	var result fieldUpdateResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, uint64(2), result.Revision)

	rec = b.patchFieldAt("name", "Al", 1)
	assert.Equal(t, http.StatusConflict, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "stale revision")
	assert.Equal(t, "Ali", b.signature().Name)

	rec = b.patchFieldAt("name", "Alice", 3)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice", b.signature().Name)
}

func TestServer_FieldRevisionsAreIndependent(t *testing.T) {
	srv := newTestServer(t, Options{})
	b := &browser{t: t, server: srv}

	require.Equal(t, http.StatusOK, b.patchFieldAt("name", "Ali", 5).Code)
	require.Equal(t, http.StatusOK, b.patchFieldAt("title", "CTO", 1).Code)
	require.Equal(t, http.StatusOK, b.patchField("name", "Unordered").Code)

	data := b.signature()
	assert.Equal(t, "Unordered", data.Name)
	assert.Equal(t, "CTO", data.Title)
}

func TestServer_PageCarriesStoredRevision(t *testing.T) {
	srv := newTestServer(t, Options{})
	b := &browser{t: t, server: srv}

	rec := b.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-revision="0"`)

	require.Equal(t, http.StatusOK, b.patchFieldAt("name", "Ali", 2).Code)
	rec = b.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-revision="2"`)
}

func TestServer_SessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t, Options{})
	alice := &browser{t: t, server: srv}
	bob := &browser{t: t, server: srv}

	require.Equal(t, http.StatusOK, alice.patchField("name", "Alice").Code)
	require.Equal(t, http.StatusOK, bob.patchField("name", "Bob").Code)

	assert.NotEqual(t, alice.cookie.Value, bob.cookie.Value)
	assert.Equal(t, "Alice", alice.signature().Name)
	assert.Equal(t, "Bob", bob.signature().Name)
}

func TestServer_InvalidOrExpiredCookieStartsFreshSession(t *testing.T) {
	clock := &testClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := session.NewMemoryStore(time.Minute, session.WithClock(clock.Now))
	srv := newTestServer(t, Options{Store: store})

	b := &browser{t: t, server: srv}
	require.Equal(t, http.StatusOK, b.patchField("name", "Jane").Code)
	first := b.cookie.Value

	clock.Advance(2 * time.Minute)
	assert.Equal(t, model.Default(), b.signature())
	assert.NotEqual(t, first, b.cookie.Value)
	assert.Equal(t, 1, store.Len())

	b.cookie = &http.Cookie{Name: srv.opts.CookieName, Value: "not-a-uuid"}
	assert.Equal(t, model.Default(), b.signature())
	assert.True(t, session.ValidID(b.cookie.Value))
}

func TestServer_FormPostFallback(t *testing.T) {
	srv := newTestServer(t, Options{})
	b := &browser{t: t, server: srv}

	form := url.Values{}
	form.Set("name", "Form User")
	form.Set("website", "example.org")
	form.Set("ignored", "x")
	rec := b.do(http.MethodPost, "/", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	data := b.signature()
	assert.Equal(t, "Form User", data.Name)
	assert.Equal(t, "example.org", data.Website)
	assert.Equal(t, model.Default().Email, data.Email)
}

func TestServer_ResetRestoresDefaults(t *testing.T) {
	srv := newTestServer(t, Options{})
	b := &browser{t: t, server: srv}
	require.Equal(t, http.StatusOK, b.patchField("email", "").Code)

	rec := b.do(http.MethodPost, "/api/reset", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var result fieldUpdateResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, model.Default(), result.Data)
	assert.Equal(t, model.Default(), b.signature())
}

func TestServer_PreviewFragment(t *testing.T) {
	srv := newTestServer(t, Options{})
	b := &browser{t: t, server: srv}

	rec := b.get("/preview")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "<"))
	assert.Contains(t, body, `id="signature-preview"`)
	assert.NotContains(t, body, "<html")
}

func TestServer_CopyWritesClipboard(t *testing.T) {
	clipboard := &export.MemoryClipboard{}
	srv := newTestServer(t, Options{Clipboard: clipboard, ResetDelay: time.Hour})
	b := &browser{t: t, server: srv}

	page := b.get("/")
	assert.Contains(t, page.Body.String(), `data-copy-mode="server"`)

	rec := b.get("/api/copy")
	assert.JSONEq(t, `{"copied":false}`, rec.Body.String())

	rec = b.do(http.MethodPost, "/api/copy", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var result copyResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Copied)
	assert.Equal(t, export.CopiedNotification, result.Notification)

	assert.Contains(t, clipboard.Text(), "mailto:john.smith@ggs-group.com")
	assert.Equal(t, b.get("/api/signature.html").Body.String(), clipboard.Text())

	rec = b.get("/api/copy")
	assert.JSONEq(t, `{"copied":true}`, rec.Body.String())
	assert.Contains(t, b.get("/").Body.String(), "Copied!")

	other := &browser{t: t, server: srv}
	assert.JSONEq(t, `{"copied":false}`, other.get("/api/copy").Body.String())
}

func TestServer_CopyStateResets(t *testing.T) {
	clipboard := &export.MemoryClipboard{}
	srv := newTestServer(t, Options{Clipboard: clipboard, ResetDelay: 20 * time.Millisecond})
	b := &browser{t: t, server: srv}

	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/copy", nil, "").Code)
	assert.Eventually(t, func() bool {
		return !srv.copies.copied(b.cookie.Value)
	}, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		srv.copies.mu.Lock()
		defer srv.copies.mu.Unlock()
		return len(srv.copies.exporters) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestServer_CopyFailure(t *testing.T) {
	clipboard := &export.MemoryClipboard{}
	clipboard.Fail(errors.New("denied"))
	srv := newTestServer(t, Options{Clipboard: clipboard})
	b := &browser{t: t, server: srv}

	rec := b.do(http.MethodPost, "/api/copy", nil, "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var result copyResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Copied)
	assert.Equal(t, export.FailedNotification, result.Notification)
	assert.Equal(t, export.VariantDestructive, result.Variant)
	assert.JSONEq(t, `{"copied":false}`, b.get("/api/copy").Body.String())
}

func TestServer_CopyDisabledWithoutClipboard(t *testing.T) {
	srv := newTestServer(t, Options{})
	b := &browser{t: t, server: srv}

	rec := b.do(http.MethodPost, "/api/copy", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_StaticRoutes(t *testing.T) {
	srv := newTestServer(t, Options{})
	b := &browser{t: t, server: srv}

	rec := b.get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Nil(t, b.cookie)

	rec = b.get("/openapi.yaml")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "openapi: 3.0.3"))

	rec = b.get("/assets/siggen.css")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = b.get("/assets/ggs-logo.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = b.get("/assets/missing.js")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RequiresStore(t *testing.T) {
	_, err := New(context.Background(), Options{})
	assert.Error(t, err)
}

func TestRun_ShutsDownWhenContextEnds(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("up"))
		}), RunConfig{Listener: ln, ShutdownGrace: time.Second})
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "up", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
