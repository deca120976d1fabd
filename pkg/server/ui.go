package server

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/dasmlab/mozhi/pkg/gateway"
	"github.com/dasmlab/mozhi/pkg/session"
	"github.com/dasmlab/mozhi/pkg/translate"
)

// SessionCookie holds the browser's session id.
const SessionCookie = "mozhi_session"

//go:embed templates/*.html
var templateFS embed.FS

var chatTemplate = template.Must(template.ParseFS(templateFS, "templates/chat.html"))

// Notices shown after a redirect, keyed by the notice query parameter.
var notices = map[string]notice{
	"empty":   {Text: gateway.MessageEmptyInput, Error: true},
	"cleared": {Text: "Chat cleared!"},
}

type notice struct {
	Text  string
	Error bool
}

type directionOption struct {
	ID       string
	Label    string
	Selected bool
}

type chatPage struct {
	Direction        translate.Direction
	DirectionLabel   string
	Placeholder      string
	Directions       []directionOption
	Turns            []session.ChatTurn
	TranslationCount int
	Engine           string
	Notice           *notice
}

// sessionFor returns the browser's session, creating one and setting the
// cookie when the cookie is missing or stale.
func (s *HTTPServer) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	sess, created := s.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

func (s *HTTPServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	direction := directionOrDefault(r.URL.Query().Get("direction"))

	page := chatPage{
		Direction:        direction,
		DirectionLabel:   direction.Label(),
		Placeholder:      direction.Placeholder(),
		Turns:            sess.Turns(),
		TranslationCount: sess.TranslationCount(),
		Engine:           s.gateway.Engine(),
	}
	for _, d := range translate.Directions() {
		page.Directions = append(page.Directions, directionOption{
			ID:       string(d),
			Label:    d.Label(),
			Selected: d == direction,
		})
	}
	if n, ok := notices[r.URL.Query().Get("notice")]; ok {
		page.Notice = &n
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chatTemplate.Execute(w, page); err != nil {
		s.logger.WithError(err).Error("Failed to render chat page")
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request, direction translate.Direction, noticeKey string) {
	q := url.Values{}
	q.Set("direction", string(direction))
	if noticeKey != "" {
		q.Set("notice", noticeKey)
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

func (s *HTTPServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess := s.sessionFor(w, r)
	direction := directionOrDefault(r.PostFormValue("direction"))

	outcome := sess.Submit(r.Context(), r.PostFormValue("text"), direction)
	if outcome.State == gateway.StateRejected {
		redirectHome(w, r, direction, "empty")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": sess.ID(),
		"state":      outcome.State,
	}).Debug("Chat form submitted")
	redirectHome(w, r, direction, "")
}

func (s *HTTPServer) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess := s.sessionFor(w, r)
	if err := sess.Clear(r.Context()); err != nil {
		s.logger.WithError(err).WithField("session_id", sess.ID()).Error("Failed to clear session")
		http.Error(w, "failed to clear chat history", http.StatusInternalServerError)
		return
	}
	redirectHome(w, r, directionOrDefault(r.PostFormValue("direction")), "cleared")
}
