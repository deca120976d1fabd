package server

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dasmlab/mozhi/pkg/gateway"
	"github.com/dasmlab/mozhi/pkg/session"
	"github.com/dasmlab/mozhi/pkg/translate"
)

// TranslateRequest is the body of POST /api/v1/translate.
type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// ResultResponse is the JSON form of a gateway result.
type ResultResponse struct {
	OK      bool   `json:"ok"`
	Kind    string `json:"kind"`
	State   string `json:"state"`
	Text    string `json:"text,omitempty"`
	Message string `json:"message"`
	Offline bool   `json:"offline"`
	Detail  string `json:"detail,omitempty"`
}

func resultResponse(r gateway.Result) ResultResponse {
	return ResultResponse{
		OK:      r.OK(),
		Kind:    string(r.Kind),
		State:   string(r.State()),
		Text:    r.Text,
		Message: r.Message(),
		Offline: r.Offline,
		Detail:  r.Detail(),
	}
}

// MessageRequest is the body of POST /api/v1/sessions/{id}/messages.
type MessageRequest struct {
	Text      string `json:"text"`
	Direction string `json:"direction"`
}

// MessageResponse reports one chat submission.
type MessageResponse struct {
	SessionID        string         `json:"session_id"`
	Direction        string         `json:"direction"`
	Result           ResultResponse `json:"result"`
	Turns            []TurnResponse `json:"turns,omitempty"`
	TranslationCount int            `json:"translation_count"`
}

// TurnResponse is the JSON form of a chat turn.
type TurnResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Kind      string    `json:"kind,omitempty"`
	Offline   bool      `json:"offline,omitempty"`
	Error     bool      `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func turnResponses(turns []session.ChatTurn) []TurnResponse {
	out := make([]TurnResponse, 0, len(turns))
	for _, t := range turns {
		out = append(out, TurnResponse{
			Role:      string(t.Role),
			Content:   t.Content,
			Kind:      string(t.Kind),
			Offline:   t.Offline,
			Error:     t.IsError(),
			CreatedAt: t.CreatedAt,
		})
	}
	return out
}

// SessionResponse describes a session and its log.
type SessionResponse struct {
	SessionID        string         `json:"session_id"`
	CreatedAt        time.Time      `json:"created_at"`
	LastActive       time.Time      `json:"last_active"`
	TranslationCount int            `json:"translation_count"`
	Turns            []TurnResponse `json:"turns"`
}

func sessionResponse(s *session.Session) SessionResponse {
	turns := s.Turns()
	return SessionResponse{
		SessionID:        s.ID(),
		CreatedAt:        s.CreatedAt(),
		LastActive:       s.LastActive(),
		TranslationCount: len(turns) / 2,
		Turns:            turnResponses(turns),
	}
}

// Translate runs the stateless gateway. Every gateway outcome is a 200; only
// malformed requests are errors.
func (s *HTTPServer) Translate(r *http.Request) (any, error) {
	req, err := ParseRequest[TranslateRequest](r)
	if err != nil {
		return nil, err
	}

	source, target, err := languagePair(req.SourceLang, req.TargetLang)
	if err != nil {
		return nil, err
	}

	return resultResponse(s.gateway.Translate(r.Context(), req.Text, source, target)), nil
}

func languagePair(source, target string) (string, string, error) {
	lm := translate.NewLanguageMapper()
	if source == "" {
		source = "en"
	}
	if target == "" {
		target = "ta"
	}
	if !lm.IsSupported(source) || !lm.IsSupported(target) {
		return "", "", CodedErrorf(http.StatusBadRequest, "unsupported language pair %s -> %s (supported: en, ta)", source, target)
	}
	source, target = lm.ToBackendCode(source), lm.ToBackendCode(target)
	if source == target {
		return "", "", CodedErrorf(http.StatusBadRequest, "source and target language must differ")
	}
	return source, target, nil
}

type languageInfo struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type directionInfo struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
}

// Languages lists offered languages and directions.
func (s *HTTPServer) Languages(r *http.Request) (any, error) {
	languages := make([]languageInfo, 0, len(translate.Languages))
	for name, code := range translate.Languages {
		languages = append(languages, languageInfo{Name: name, Code: code})
	}
	sort.Slice(languages, func(i, j int) bool { return languages[i].Code < languages[j].Code })

	directions := make([]directionInfo, 0, 3)
	for _, d := range translate.Directions() {
		directions = append(directions, directionInfo{
			ID:          string(d),
			Label:       d.Label(),
			Placeholder: d.Placeholder(),
		})
	}

	return map[string]any{
		"languages":  languages,
		"directions": directions,
		"engine":     s.gateway.Engine(),
	}, nil
}

// CreateSession starts an empty session.
func (s *HTTPServer) CreateSession(r *http.Request) (any, error) {
	return sessionResponse(s.sessions.Create()), nil
}

func (s *HTTPServer) lookupSession(r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "session_id")
	sess, err := s.sessions.Get(id)
	if errors.Is(err, session.ErrNotFound) {
		return nil, CodedErrorf(http.StatusNotFound, "session %q not found", id)
	}
	return sess, err
}

// GetSession returns a session and its log.
func (s *HTTPServer) GetSession(r *http.Request) (any, error) {
	sess, err := s.lookupSession(r)
	if err != nil {
		return nil, err
	}
	return sessionResponse(sess), nil
}

// DeleteSession ends a session.
func (s *HTTPServer) DeleteSession(r *http.Request) (any, error) {
	id := chi.URLParam(r, "session_id")
	if err := s.sessions.Delete(id); err != nil {
		return nil, CodedErrorf(http.StatusNotFound, "session %q not found", id)
	}
	return nil, nil
}

// SubmitMessage sends text through the session. Blank text is reported with
// state "rejected" and appends nothing.
func (s *HTTPServer) SubmitMessage(r *http.Request) (any, error) {
	sess, err := s.lookupSession(r)
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[MessageRequest](r)
	if err != nil {
		return nil, err
	}
	direction, err := translate.ParseDirection(req.Direction)
	if err != nil {
		return nil, CodedError(http.StatusBadRequest, err)
	}

	outcome := sess.Submit(r.Context(), req.Text, direction)

	resp := MessageResponse{
		SessionID:        sess.ID(),
		Direction:        string(outcome.Direction),
		Result:           resultResponse(outcome.Result),
		TranslationCount: sess.TranslationCount(),
	}
	if outcome.State != gateway.StateRejected {
		resp.Turns = turnResponses([]session.ChatTurn{outcome.User, outcome.Assistant})
	}
	return resp, nil
}

// ClearMessages empties the session log and memory.
func (s *HTTPServer) ClearMessages(r *http.Request) (any, error) {
	sess, err := s.lookupSession(r)
	if err != nil {
		return nil, err
	}
	if err := sess.Clear(r.Context()); err != nil {
		return nil, err
	}
	return map[string]any{"session_id": sess.ID(), "translation_count": 0, "cleared": true}, nil
}

// directionOrDefault parses a direction from a form, falling back to English → Tamil.
func directionOrDefault(raw string) translate.Direction {
	d, err := translate.ParseDirection(strings.TrimSpace(raw))
	if err != nil {
		return translate.EnglishToTamil
	}
	return d
}
