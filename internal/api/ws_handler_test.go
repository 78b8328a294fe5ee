package api

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"jobportal/internal/auth"
	"jobportal/internal/errcode"
)

type stubTokenResolver struct {
	err error
}

func (r stubTokenResolver) ResolveToken(context.Context, string) (auth.Principal, error) {
	return auth.Principal{}, r.err
}

func dialWs(t *testing.T, h *WsHandler) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/v1/ws", h.HandleConnection)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func expectClose(t *testing.T, conn *websocket.Conn, code int, text string) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	var ce *websocket.CloseError
	if !errors.As(err, &ce) {
		t.Fatalf("expected close frame, got %v", err)
	}
	if ce.Code != code || ce.Text != text {
		t.Fatalf("expected close %d %q, got %d %q", code, text, ce.Code, ce.Text)
	}
}

func TestWsRejectsBadToken(t *testing.T) {
	conn := dialWs(t, NewWsHandler(nil, stubTokenResolver{err: errcode.ErrExpiredToken}, nil, nil))

	if err := conn.WriteJSON(map[string]string{"type": "auth", "token": "expired"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	expectClose(t, conn, websocket.ClosePolicyViolation, "ExpiredToken")
}

func TestWsRequiresAuthMessage(t *testing.T) {
	conn := dialWs(t, NewWsHandler(nil, stubTokenResolver{}, nil, nil))

	if err := conn.WriteJSON(map[string]string{"type": "hello"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	expectClose(t, conn, websocket.ClosePolicyViolation, "auth required")
}

func TestWsHidesDependencyFailure(t *testing.T) {
	conn := dialWs(t, NewWsHandler(nil, stubTokenResolver{err: errcode.Dependency("lookup principal", errors.New("pq: timeout"))}, nil, nil))

	if err := conn.WriteJSON(map[string]string{"type": "auth", "token": "t"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	expectClose(t, conn, websocket.ClosePolicyViolation, "internal error")
}
