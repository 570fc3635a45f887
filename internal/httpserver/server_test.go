package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"
)

func TestServerServesAndShutsDown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	srv := New(0, handler)
	if err := srv.Listen(); err != nil {
		t.Fatalf("listen: %v", err)
	}

	shutdownHooks := make(chan struct{}, 1)
	srv.OnShutdown(func() { shutdownHooks <- struct{}{} })

	served := make(chan error, 1)
	go func() { served <- srv.Start() }()

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Fatalf("unexpected body %q", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	select {
	case err := <-served:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Fatalf("expected ErrServerClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}

	select {
	case <-shutdownHooks:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown hook not invoked")
	}
}

func TestServerAddrBeforeListen(t *testing.T) {
	if got := New(8080, http.NotFoundHandler()).Addr(); got != ":8080" {
		t.Fatalf("unexpected addr %q", got)
	}
}
