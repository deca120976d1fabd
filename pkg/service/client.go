package service

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls TranslationService over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, fields map[string]interface{}, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Translate calls the stateless gateway.
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodTranslate, map[string]interface{}{
		"text":        text,
		"source_lang": sourceLang,
		"target_lang": targetLang,
	}, opts...)
}

// Chat submits text to a session. An empty sessionID starts a new session.
func (c *Client) Chat(ctx context.Context, sessionID, text, direction string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodChat, map[string]interface{}{
		"session_id": sessionID,
		"text":       text,
		"direction":  direction,
	}, opts...)
}

// History returns a session's turns.
func (c *Client) History(ctx context.Context, sessionID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodHistory, map[string]interface{}{"session_id": sessionID}, opts...)
}

// Clear empties a session's log.
func (c *Client) Clear(ctx context.Context, sessionID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodClear, map[string]interface{}{"session_id": sessionID}, opts...)
}
