package adapter_test

import (
	"testing"

	"github.com/momentics/wsbridge/core/adapter"
)

func TestStateString(t *testing.T) {
	cases := []struct {
		state adapter.State
		want  string
	}{
		{adapter.StateHandshake, "handshake"},
		{adapter.StateConnected, "connected"},
		{adapter.StateResponse, "response"},
		{adapter.StateClosed, "closed"},
		{adapter.StateHTTPClosed, "httpclosed"},
		{adapter.State(99), "unknown"},
	}
	for _, c := range cases {
		if got := c.state.String(); got != c.want {
			t.Errorf("State(%d).String() = %q, want %q", c.state, got, c.want)
		}
	}
}

func TestStateTerminal(t *testing.T) {
	for _, s := range []adapter.State{adapter.StateHandshake, adapter.StateConnected, adapter.StateResponse} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	for _, s := range []adapter.State{adapter.StateClosed, adapter.StateHTTPClosed} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}
