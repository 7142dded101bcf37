package tcp_test

import (
	"context"
	"testing"

	"github.com/momentics/wsbridge/transport/tcp"
)

func TestListen(t *testing.T) {
	ln, err := tcp.Listen(context.Background(), "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	if ln.Addr().Network() != "tcp" {
		t.Errorf("network = %q, want tcp", ln.Addr().Network())
	}
}

func TestListenBadAddr(t *testing.T) {
	if _, err := tcp.Listen(context.Background(), "not-an-addr:xyz"); err == nil {
		t.Fatal("bogus address must fail")
	}
}
