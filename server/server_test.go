package server_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/momentics/wsbridge/api"
	"github.com/momentics/wsbridge/control"
	"github.com/momentics/wsbridge/fake"
	"github.com/momentics/wsbridge/server"
)

func echoApp(ctx context.Context, scope *api.Scope, receive api.ReceiveFunc, send api.SendFunc) error {
	for {
		ev, err := receive(ctx)
		if err != nil {
			return err
		}
		switch ev := ev.(type) {
		case api.Connected:
			if scope.Path != "/chat" {
				if err := send(ctx, api.ResponseStart{
					Status:  http.StatusNotFound,
					Headers: []api.Header{{Name: "content-type", Value: "text/plain"}},
				}); err != nil {
					return err
				}
				return send(ctx, api.ResponseBody{Body: []byte("not found\n")})
			}
			if err := send(ctx, api.Accept{}); err != nil {
				return err
			}
		case api.Received:
			if err := send(ctx, api.Send{Bytes: ev.Bytes, Text: ev.Text}); err != nil {
				return err
			}
		case api.Disconnected:
			return nil
		}
	}
}

func newTestServer(t *testing.T, app api.App) (*httptest.Server, *control.MetricsRegistry, *fake.AccessRecorder) {
	t.Helper()
	metrics := control.NewMetricsRegistry()
	recorder := fake.NewAccessRecorder()
	srv := server.New(app, control.NewConfigStore(control.DefaultConfig()), recorder, zerolog.Nop(), metrics)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, metrics, recorder
}

func wsURL(ts *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + path
}

func waitCount(t *testing.T, metrics *control.MetricsRegistry, key string, want int64) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if metrics.Snapshot()[key] >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("counter %s never reached %d: %v", key, want, metrics.Snapshot())
}

func TestEchoRoundTrip(t *testing.T) {
	ts, metrics, recorder := newTestServer(t, echoApp)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/chat?x=1"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	mt, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if mt != websocket.TextMessage || string(data) != "hello" {
		t.Errorf("echo = (%d, %q), want text hello", mt, data)
	}

	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{0x01, 0x02}); err != nil {
		t.Fatal(err)
	}
	mt, data, err = conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if mt != websocket.BinaryMessage || !bytes.Equal(data, []byte{0x01, 0x02}) {
		t.Errorf("echo = (%d, %v), want binary 0102", mt, data)
	}

	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	conn.Close()

	waitCount(t, metrics, control.MetricAccepted, 1)
	waitCount(t, metrics, control.MetricDelivered, 2)

	records := recorder.Records()
	if len(records) != 1 || records[0].Response.Status != http.StatusSwitchingProtocols {
		t.Errorf("access records = %+v, want one 101", records)
	}
}

func TestHTTPRejection(t *testing.T) {
	ts, metrics, _ := newTestServer(t, echoApp)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, "/missing"), nil)
	if !errors.Is(err, websocket.ErrBadHandshake) {
		t.Fatalf("dial err = %v, want ErrBadHandshake", err)
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %v, want 404", resp)
	}
	resp.Body.Close()

	waitCount(t, metrics, control.MetricRejected, 1)
}

func TestPlainHTTPRequestRejected(t *testing.T) {
	ts, _, _ := newTestServer(t, echoApp)

	resp, err := http.Get(ts.URL + "/chat")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for a non-upgrade request", resp.StatusCode)
	}
}

func TestFaultingAppYields500(t *testing.T) {
	faulty := func(ctx context.Context, _ *api.Scope, receive api.ReceiveFunc, _ api.SendFunc) error {
		if _, err := receive(ctx); err != nil {
			return err
		}
		return errors.New("broken app")
	}
	ts, metrics, recorder := newTestServer(t, faulty)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, "/chat"), nil)
	if !errors.Is(err, websocket.ErrBadHandshake) {
		t.Fatalf("dial err = %v, want ErrBadHandshake", err)
	}
	if resp == nil || resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %v, want 500", resp)
	}
	resp.Body.Close()

	waitCount(t, metrics, control.MetricFaulted, 1)
	waitCount(t, metrics, control.MetricRejected, 1)

	records := recorder.Records()
	if len(records) != 1 || records[0].Response.Status != http.StatusInternalServerError {
		t.Errorf("access records = %+v, want one 500", records)
	}
}
