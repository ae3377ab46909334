package httptransport

import (
	"net/http"
	"testing"
	"time"
)

func TestNewServerAppliesDefaults(t *testing.T) {
	srv := NewServer(ServerConfig{Address: ":8080"}, http.NewServeMux())

	if srv.Addr != ":8080" {
		t.Fatalf("unexpected address %q", srv.Addr)
	}
	if srv.ReadTimeout != defaultReadTimeout {
		t.Fatalf("expected default read timeout, got %s", srv.ReadTimeout)
	}
	if srv.WriteTimeout != defaultWriteTimeout {
		t.Fatalf("expected default write timeout, got %s", srv.WriteTimeout)
	}
	if srv.IdleTimeout != defaultIdleTimeout {
		t.Fatalf("expected default idle timeout, got %s", srv.IdleTimeout)
	}
}

func TestNewServerKeepsExplicitTimeouts(t *testing.T) {
	srv := NewServer(ServerConfig{
		Address:      ":8080",
		ReadTimeout:  time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  time.Minute,
	}, http.NewServeMux())

	if srv.ReadTimeout != time.Second || srv.WriteTimeout != 5*time.Minute || srv.IdleTimeout != time.Minute {
		t.Fatalf("explicit timeouts overridden: %s %s %s", srv.ReadTimeout, srv.WriteTimeout, srv.IdleTimeout)
	}
}
