package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Goden-Gun/vis-server/pkg/auth"
	"github.com/Goden-Gun/vis-server/pkg/config"
	"github.com/Goden-Gun/vis-server/pkg/signal"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T, cfg config.ServerConfig) (*websocket.Conn, *signal.Tree) {
	t.Helper()

	tree := signal.New(signal.DefaultSchema())
	authorizer := auth.New(auth.Config{Secret: testSecret}, nil)
	srv := New(cfg, tree, authorizer)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, tree
}

func roundTrip(t *testing.T, conn *websocket.Conn, req map[string]any) map[string]any {
	t.Helper()
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("write: %v", err)
	}
	return readMessage(t, conn)
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp map[string]any
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	return resp
}

func errObj(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	obj, ok := resp["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error object in %v", resp)
	}
	return obj
}

func TestGetRoundTrip(t *testing.T) {
	conn, tree := newTestServer(t, config.ServerConfig{})
	if err := tree.Ingest("Signal.Vehicle.Speed", json.RawMessage("42.5"), 1000); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	resp := roundTrip(t, conn, map[string]any{"action": "get", "requestId": 1, "path": "Signal.Vehicle.Speed"})
	if resp["action"] != "get" {
		t.Fatalf("action = %v", resp["action"])
	}
	if resp["requestId"] != float64(1) {
		t.Fatalf("requestId = %v", resp["requestId"])
	}
	if resp["value"] != 42.5 {
		t.Fatalf("value = %v", resp["value"])
	}
	if ts, ok := resp["timestamp"].(float64); !ok || ts <= 0 {
		t.Fatalf("timestamp = %v", resp["timestamp"])
	}
}

func TestGetUnknownPath(t *testing.T) {
	conn, _ := newTestServer(t, config.ServerConfig{})

	resp := roundTrip(t, conn, map[string]any{"action": "get", "requestId": 2, "path": "Signal.Does.Not.Exist"})
	if resp["action"] != "get" || resp["requestId"] != float64(2) {
		t.Fatalf("envelope = %v", resp)
	}
	obj := errObj(t, resp)
	if obj["number"] != float64(404) || obj["reason"] != "invalid_path" {
		t.Fatalf("error = %v", obj)
	}
}

func TestSetThenGet(t *testing.T) {
	conn, _ := newTestServer(t, config.ServerConfig{})

	resp := roundTrip(t, conn, map[string]any{"action": "set", "requestId": 3, "path": "Signal.Drivetrain.FuelSystem.Level", "value": 55})
	if resp["action"] != "set" || resp["error"] != nil {
		t.Fatalf("set failed: %v", resp)
	}

	resp = roundTrip(t, conn, map[string]any{"action": "get", "requestId": 4, "path": "Signal.Drivetrain.FuelSystem.Level"})
	if resp["value"] != float64(55) {
		t.Fatalf("value = %v", resp["value"])
	}
}

func TestSetReadOnly(t *testing.T) {
	conn, _ := newTestServer(t, config.ServerConfig{})

	resp := roundTrip(t, conn, map[string]any{"action": "set", "requestId": 5, "path": "Signal.Vehicle.VIN", "value": "WBA123"})
	obj := errObj(t, resp)
	if obj["number"] != float64(401) || obj["reason"] != "read_only" {
		t.Fatalf("error = %v", obj)
	}
}

func TestSubscribeNotifyUnsubscribe(t *testing.T) {
	conn, tree := newTestServer(t, config.ServerConfig{})

	resp := roundTrip(t, conn, map[string]any{"action": "subscribe", "requestId": 6, "path": "Signal.Vehicle.Speed"})
	if resp["action"] != "subscribe" {
		t.Fatalf("subscribe failed: %v", resp)
	}
	subID, ok := resp["subscriptionId"].(string)
	if !ok || subID == "" {
		t.Fatalf("subscriptionId = %v", resp["subscriptionId"])
	}

	if err := tree.Ingest("Signal.Vehicle.Speed", json.RawMessage("88.1"), 2000); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	note := readMessage(t, conn)
	if note["action"] != "subscription" {
		t.Fatalf("notification action = %v", note["action"])
	}
	if note["subscriptionId"] != subID {
		t.Fatalf("notification subscriptionId = %v, want %v", note["subscriptionId"], subID)
	}
	if note["value"] != 88.1 {
		t.Fatalf("notification value = %v", note["value"])
	}

	resp = roundTrip(t, conn, map[string]any{"action": "unsubscribe", "requestId": 7, "subscriptionId": subID})
	if resp["action"] != "unsubscribe" || resp["error"] != nil {
		t.Fatalf("unsubscribe failed: %v", resp)
	}

	// the id is gone now, dropping it again must fail and echo the id
	resp = roundTrip(t, conn, map[string]any{"action": "unsubscribe", "requestId": 8, "subscriptionId": subID})
	obj := errObj(t, resp)
	if obj["number"] != float64(404) || obj["reason"] != "invalid_subscriptionId" {
		t.Fatalf("error = %v", obj)
	}
	if resp["subscriptionId"] != subID {
		t.Fatalf("echoed subscriptionId = %v", resp["subscriptionId"])
	}
}

func TestAuthorizeUnlocksPrivatePath(t *testing.T) {
	conn, tree := newTestServer(t, config.ServerConfig{})
	if err := tree.Ingest("Private.Vehicle.BatterySerial", json.RawMessage(`"SN-1"`), 3000); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	resp := roundTrip(t, conn, map[string]any{"action": "get", "requestId": 9, "path": "Private.Vehicle.BatterySerial"})
	obj := errObj(t, resp)
	if obj["number"] != float64(404) || obj["reason"] != "private_path" {
		t.Fatalf("error = %v", obj)
	}

	token, err := auth.IssueToken(auth.UserToken, "test-user", time.Hour, auth.Config{Secret: testSecret})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	resp = roundTrip(t, conn, map[string]any{"action": "authorize", "requestId": 10, "tokens": map[string]any{"authorization": token}})
	if resp["action"] != "authorize" || resp["error"] != nil {
		t.Fatalf("authorize failed: %v", resp)
	}
	if ttl, ok := resp["TTL"].(float64); !ok || ttl <= 0 {
		t.Fatalf("TTL = %v", resp["TTL"])
	}

	resp = roundTrip(t, conn, map[string]any{"action": "get", "requestId": 11, "path": "Private.Vehicle.BatterySerial"})
	if resp["value"] != "SN-1" {
		t.Fatalf("value = %v", resp["value"])
	}
}

func TestAuthorizeInvalidToken(t *testing.T) {
	conn, _ := newTestServer(t, config.ServerConfig{})

	resp := roundTrip(t, conn, map[string]any{"action": "authorize", "requestId": 12, "tokens": map[string]any{"authorization": "not-a-jwt"}})
	obj := errObj(t, resp)
	if obj["number"] != float64(401) || obj["reason"] != "user_token_invalid" {
		t.Fatalf("error = %v", obj)
	}
}

func TestMalformedRequest(t *testing.T) {
	conn, _ := newTestServer(t, config.ServerConfig{})

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	resp := readMessage(t, conn)
	if _, ok := resp["action"]; ok {
		t.Fatalf("bare error must not carry an action: %v", resp)
	}
	obj := errObj(t, resp)
	if obj["number"] != float64(400) {
		t.Fatalf("error = %v", obj)
	}
}

func TestUnknownActionRejected(t *testing.T) {
	conn, _ := newTestServer(t, config.ServerConfig{})

	// subscriptionNotification is server-to-client only
	resp := roundTrip(t, conn, map[string]any{"action": "subscriptionNotification", "requestId": 13})
	obj := errObj(t, resp)
	if obj["number"] != float64(400) {
		t.Fatalf("error = %v", obj)
	}
}

func TestRateLimit(t *testing.T) {
	conn, tree := newTestServer(t, config.ServerConfig{RequestsPerSecond: 1, RequestBurst: 1})
	if err := tree.Ingest("Signal.Vehicle.Speed", json.RawMessage("10"), 4000); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	resp := roundTrip(t, conn, map[string]any{"action": "get", "requestId": 14, "path": "Signal.Vehicle.Speed"})
	if resp["error"] != nil {
		t.Fatalf("first request throttled: %v", resp)
	}

	resp = roundTrip(t, conn, map[string]any{"action": "get", "requestId": 15, "path": "Signal.Vehicle.Speed"})
	obj := errObj(t, resp)
	if obj["number"] != float64(429) || obj["reason"] != "too_many_requests" {
		t.Fatalf("error = %v", obj)
	}
	if resp["requestId"] != float64(15) {
		t.Fatalf("requestId = %v", resp["requestId"])
	}
}
