package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasmlab/mozhi/pkg/gateway"
	"github.com/dasmlab/mozhi/pkg/session"
	"github.com/dasmlab/mozhi/pkg/translate"
)

type testEnv struct {
	server *httptest.Server
	client *http.Client
	static *translate.StaticTranslator
	mgr    *session.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	static := translate.NewStaticTranslator(map[string]string{
		"Good morning": "காலை வணக்கம்",
		"நன்றி":        "Thank you",
	})
	gw := gateway.New(static, gateway.WithLogger(logger))
	mgr := session.NewManager(gw, logger)
	srv := httptest.NewServer(NewHTTPServer(gw, mgr, logger, "").Router())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		server: srv,
		client: &http.Client{Jar: jar},
		static: static,
		mgr:    mgr,
	}
}

func (e *testEnv) page(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

func (e *testEnv) get(t *testing.T, path string) *goquery.Document {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	require.NoError(t, err)
	return e.page(t, resp)
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values) *goquery.Document {
	t.Helper()
	resp, err := e.client.PostForm(e.server.URL+path, form)
	require.NoError(t, err)
	return e.page(t, resp)
}

func (e *testEnv) api(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestIndex_NewSession(t *testing.T) {
	env := newTestEnv(t)

	doc := env.get(t, "/")
	assert.Equal(t, 1, doc.Find("#welcome").Length())
	assert.Equal(t, "0", doc.Find("#translation-count").Text())
	placeholder, _ := doc.Find("#chat-form input[name=text]").Attr("placeholder")
	assert.Equal(t, "Type in English...", placeholder)
	assert.Equal(t, 1, env.mgr.Len())

	u, _ := url.Parse(env.server.URL)
	cookies := env.client.Jar.Cookies(u)
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)

	// The cookie keeps the same session.
	env.get(t, "/")
	assert.Equal(t, 1, env.mgr.Len())
}

func TestIndex_TamilPlaceholder(t *testing.T) {
	env := newTestEnv(t)

	doc := env.get(t, "/?direction=TA_TO_EN")
	placeholder, _ := doc.Find("#chat-form input[name=text]").Attr("placeholder")
	assert.Equal(t, "தமிழில் தட்டச்சு செய்யுங்கள்...", placeholder)
	assert.Contains(t, doc.Find("#mode").Text(), "Tamil → English")
	selected, _ := doc.Find("#direction option[selected]").Attr("value")
	assert.Equal(t, "TA_TO_EN", selected)
}

func TestSubmitForm_AppendsTurns(t *testing.T) {
	env := newTestEnv(t)

	doc := env.postForm(t, "/translate", url.Values{"text": {"Good morning"}, "direction": {"EN_TO_TA"}})
	turns := doc.Find("#history .turn")
	require.Equal(t, 2, turns.Length())
	assert.Equal(t, "Good morning", strings.TrimSpace(turns.Eq(0).Text()))
	assert.Contains(t, turns.Eq(1).Text(), "காலை வணக்கம்")
	assert.Equal(t, "1", doc.Find("#translation-count").Text())
	assert.Equal(t, 0, doc.Find("#welcome").Length())

	doc = env.postForm(t, "/translate", url.Values{"text": {"நன்றி"}, "direction": {"TA_TO_EN"}})
	assert.Equal(t, "2", doc.Find("#translation-count").Text())
	assert.Contains(t, doc.Find("#history .turn").Last().Text(), "Thank you")
}

func TestSubmitForm_RejectsBlank(t *testing.T) {
	env := newTestEnv(t)

	doc := env.postForm(t, "/translate", url.Values{"text": {"   "}})
	assert.Equal(t, "Please enter some text to translate.", strings.TrimSpace(doc.Find("#notice").Text()))
	assert.True(t, doc.Find("#notice").HasClass("error"))
	assert.Equal(t, 0, doc.Find("#history .turn").Length())
	assert.Zero(t, env.static.Calls())
}

func TestSubmitForm_ProviderDown(t *testing.T) {
	env := newTestEnv(t)
	env.static.FailWith(errors.New("connection refused"))

	doc := env.postForm(t, "/translate", url.Values{"text": {"hello"}})
	last := doc.Find("#history .turn").Last()
	assert.Contains(t, last.Text(), "✨ வணக்கம் (offline)")
	assert.True(t, last.HasClass("offline"))
	assert.False(t, last.HasClass("error"))

	doc = env.postForm(t, "/translate", url.Values{"text": {"Hi there"}})
	last = doc.Find("#history .turn").Last()
	assert.Contains(t, last.Text(), "Hi there")
	assert.True(t, last.HasClass("error"))
}

func TestClearForm(t *testing.T) {
	env := newTestEnv(t)

	env.postForm(t, "/translate", url.Values{"text": {"Good morning"}})
	doc := env.postForm(t, "/clear", url.Values{"direction": {"EN_TO_TA"}})

	assert.Equal(t, "Chat cleared!", strings.TrimSpace(doc.Find("#notice").Text()))
	assert.Equal(t, 0, doc.Find("#history .turn").Length())
	assert.Equal(t, "0", doc.Find("#translation-count").Text())
}

func TestAPI_SessionFlow(t *testing.T) {
	env := newTestEnv(t)

	code, created := env.api(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusOK, code)
	id, _ := created["session_id"].(string)
	require.NotEmpty(t, id)

	code, msg := env.api(t, http.MethodPost, "/api/v1/sessions/"+id+"/messages", MessageRequest{Text: "Good morning", Direction: "en-ta"})
	require.Equal(t, http.StatusOK, code)
	result := msg["result"].(map[string]any)
	assert.Equal(t, "succeeded", result["state"])
	assert.Equal(t, "காலை வணக்கம்", result["message"])
	assert.EqualValues(t, 1, msg["translation_count"])

	code, msg = env.api(t, http.MethodPost, "/api/v1/sessions/"+id+"/messages", MessageRequest{Text: ""})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "rejected", msg["result"].(map[string]any)["state"])
	assert.Nil(t, msg["turns"])

	code, got := env.api(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, got["turns"], 2)

	code, _ = env.api(t, http.MethodDelete, "/api/v1/sessions/"+id+"/messages", nil)
	require.Equal(t, http.StatusOK, code)
	_, got = env.api(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
	assert.Empty(t, got["turns"])
	assert.EqualValues(t, 0, got["translation_count"])

	code, _ = env.api(t, http.MethodDelete, "/api/v1/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, code)
	code, errBody := env.api(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, errBody["error"], "not found")
}

func TestAPI_SubmitBadDirection(t *testing.T) {
	env := newTestEnv(t)
	_, created := env.api(t, http.MethodPost, "/api/v1/sessions", nil)
	id := created["session_id"].(string)

	code, _ := env.api(t, http.MethodPost, "/api/v1/sessions/"+id+"/messages", MessageRequest{Text: "hi", Direction: "fr-de"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAPI_Translate(t *testing.T) {
	env := newTestEnv(t)

	code, out := env.api(t, http.MethodPost, "/api/v1/translate", TranslateRequest{Text: "Good morning", SourceLang: "en", TargetLang: "ta"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, "translated", out["kind"])
	assert.Equal(t, "காலை வணக்கம்", out["message"])

	env.static.FailWith(errors.New("timeout"))
	_, out = env.api(t, http.MethodPost, "/api/v1/translate", TranslateRequest{Text: "thank you", SourceLang: "English", TargetLang: "Tamil"})
	assert.Equal(t, "✨ நன்றி (offline)", out["message"])
	assert.Equal(t, "degraded_fallback", out["state"])
	assert.Equal(t, true, out["offline"])

	_, out = env.api(t, http.MethodPost, "/api/v1/translate", TranslateRequest{Text: " "})
	assert.Equal(t, "Please enter some text to translate.", out["message"])

	code, _ = env.api(t, http.MethodPost, "/api/v1/translate", TranslateRequest{Text: "hi", SourceLang: "en", TargetLang: "fr"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.api(t, http.MethodPost, "/api/v1/translate", TranslateRequest{Text: "hi", SourceLang: "ta", TargetLang: "ta-IN"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAPI_Languages(t *testing.T) {
	env := newTestEnv(t)

	code, out := env.api(t, http.MethodGet, "/api/v1/languages", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["languages"], 2)
	assert.Len(t, out["directions"], 3)
	assert.Equal(t, "static", out["engine"])
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	code, out := env.api(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", out["status"])
	assert.Equal(t, true, out["provider_configured"])

	env.static.FailWith(errors.New("down"))
	_, out = env.api(t, http.MethodGet, "/health", nil)
	assert.Equal(t, false, out["provider_configured"])
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.api(t, http.MethodPost, "/api/v1/translate", TranslateRequest{Text: "Good morning"})

	resp, err := env.client.Get(env.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "mozhi_gateway_outcomes_total")
	assert.Contains(t, buf.String(), "mozhi_sessions_active")
}

func TestAPI_SessionsNotEnumerable(t *testing.T) {
	owner := newTestEnv(t)
	owner.postForm(t, "/translate", url.Values{"text": {"Good morning"}})
	require.Equal(t, 1, owner.mgr.Len())

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	other := &http.Client{Jar: jar}

	for _, path := range []string{"/api/v1/sessions", "/api/v1/sessions/"} {
		resp, err := other.Get(owner.server.URL + path)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)

		assert.NotEqual(t, http.StatusOK, resp.StatusCode, path)
		for _, s := range owner.mgr.List() {
			assert.NotContains(t, string(body), s.ID, path)
		}
	}

	// The owner's history is untouched.
	doc := owner.get(t, "/")
	assert.Equal(t, 2, doc.Find("#history .turn").Length())
}
