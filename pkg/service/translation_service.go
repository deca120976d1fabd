package service

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dasmlab/mozhi/pkg/gateway"
	"github.com/dasmlab/mozhi/pkg/session"
	"github.com/dasmlab/mozhi/pkg/translate"
	"github.com/sirupsen/logrus"
)

// TranslationService implements the TranslationService gRPC service on top of
// the gateway (stateless Translate) and the session registry (Chat, History, Clear).
type TranslationService struct {
	// Gateway performs the bounded provider call with offline fallback.
	Gateway *gateway.Gateway

	// Sessions holds the chat logs addressed by session_id.
	Sessions *session.Manager

	// LanguageMapper normalizes client language codes.
	LanguageMapper *translate.LanguageMapper

	// Logger for service operations.
	Logger *logrus.Logger
}

// NewTranslationService creates a new TranslationService instance.
func NewTranslationService(gw *gateway.Gateway, sessions *session.Manager, logger *logrus.Logger) *TranslationService {
	if logger == nil {
		logger = logrus.New()
	}

	return &TranslationService{
		Gateway:        gw,
		Sessions:       sessions,
		LanguageMapper: translate.NewLanguageMapper(),
		Logger:         logger,
	}
}

func stringField(in *structpb.Struct, key string) string {
	return in.GetFields()[key].GetStringValue()
}

func resultFields(r gateway.Result) map[string]interface{} {
	out := map[string]interface{}{
		"ok":      r.OK(),
		"kind":    string(r.Kind),
		"state":   string(r.State()),
		"message": r.Message(),
		"offline": r.Offline,
	}
	if r.Text != "" {
		out["text"] = r.Text
	}
	if d := r.Detail(); d != "" {
		out["detail"] = d
	}
	return out
}

func turnList(turns []session.ChatTurn) []interface{} {
	out := make([]interface{}, 0, len(turns))
	for _, t := range turns {
		turn := map[string]interface{}{
			"role":       string(t.Role),
			"content":    t.Content,
			"created_at": t.CreatedAt.Format(time.RFC3339),
		}
		if t.Role == session.RoleAssistant {
			turn["kind"] = string(t.Kind)
			turn["offline"] = t.Offline
			turn["error"] = t.IsError()
		}
		out = append(out, turn)
	}
	return out
}

func toStruct(fields map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// Translate runs the gateway once.
// Request: text, source_lang, target_lang. Reply: ok, kind, state, message, offline, text, detail.
func (s *TranslationService) Translate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	text := stringField(req, "text")
	source := s.LanguageMapper.ToBackendCode(stringField(req, "source_lang"))
	target := s.LanguageMapper.ToBackendCode(stringField(req, "target_lang"))
	if source == "" {
		source = translate.Languages["English"]
	}
	if target == "" {
		target = translate.Languages["Tamil"]
	}

	s.Logger.WithFields(logrus.Fields{
		"source_lang": source,
		"target_lang": target,
		"text_length": len(text),
	}).Debug("[gRPC] Translate request received")

	if !s.LanguageMapper.IsSupported(source) || !s.LanguageMapper.IsSupported(target) {
		return nil, status.Errorf(codes.InvalidArgument, "unsupported language pair %q -> %q (supported: en, ta)", source, target)
	}
	if source == target {
		return nil, status.Error(codes.InvalidArgument, "source_lang and target_lang must differ")
	}

	result := s.Gateway.Translate(ctx, text, source, target)
	return toStruct(resultFields(result))
}

// Chat submits text to a session, creating one when session_id is empty.
// Request: session_id, text, direction. Reply: session_id, direction, result, turns, translation_count.
func (s *TranslationService) Chat(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	direction, err := translate.ParseDirection(stringField(req, "direction"))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	sess, err := s.session(stringField(req, "session_id"), true)
	if err != nil {
		return nil, err
	}

	outcome := sess.Submit(ctx, stringField(req, "text"), direction)

	s.Logger.WithFields(logrus.Fields{
		"session_id": sess.ID(),
		"direction":  outcome.Direction,
		"state":      outcome.State,
	}).Debug("[gRPC] Chat request handled")

	fields := map[string]interface{}{
		"session_id":        sess.ID(),
		"direction":         string(outcome.Direction),
		"result":            resultFields(outcome.Result),
		"translation_count": sess.TranslationCount(),
	}
	if outcome.State != gateway.StateRejected {
		fields["turns"] = turnList([]session.ChatTurn{outcome.User, outcome.Assistant})
	}
	return toStruct(fields)
}

// History returns all turns of a session.
func (s *TranslationService) History(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(stringField(req, "session_id"), false)
	if err != nil {
		return nil, err
	}
	turns := sess.Turns()
	return toStruct(map[string]interface{}{
		"session_id":        sess.ID(),
		"translation_count": len(turns) / 2,
		"turns":             turnList(turns),
	})
}

// Clear empties a session's log and conversation memory.
func (s *TranslationService) Clear(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(stringField(req, "session_id"), false)
	if err != nil {
		return nil, err
	}
	if err := sess.Clear(ctx); err != nil {
		s.Logger.WithError(err).WithField("session_id", sess.ID()).Error("[gRPC] Clear failed")
		return nil, status.Errorf(codes.Internal, "clear session: %v", err)
	}
	return toStruct(map[string]interface{}{
		"session_id":        sess.ID(),
		"cleared":           true,
		"translation_count": 0,
	})
}

func (s *TranslationService) session(id string, create bool) (*session.Session, error) {
	if id == "" {
		if create {
			return s.Sessions.Create(), nil
		}
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}
	sess, err := s.Sessions.Get(id)
	if errors.Is(err, session.ErrNotFound) {
		return nil, status.Errorf(codes.NotFound, "session %q not found", id)
	}
	return sess, err
}

// LoggingInterceptor logs every unary call with its duration and status code.
func LoggingInterceptor(logger *logrus.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		entry := logger.WithFields(logrus.Fields{
			"method":      info.FullMethod,
			"code":        status.Code(err).String(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if err != nil {
			entry.WithError(err).Warn("[gRPC] Request failed")
		} else {
			entry.Debug("[gRPC] Request served")
		}
		return resp, err
	}
}
