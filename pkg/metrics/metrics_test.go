package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/jokes", "200"))

	ObserveHTTPRequest("GET", "/jokes", "200", 15*time.Millisecond)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/jokes", "200"))
	if after-before != 1 {
		t.Errorf("requests counter moved by %v, want 1", after-before)
	}
}

func TestObserveAuthAttempt(t *testing.T) {
	before := testutil.ToFloat64(authAttempts.WithLabelValues("login", "rejected"))

	ObserveAuthAttempt("login", "rejected")
	ObserveAuthAttempt("login", "rejected")

	after := testutil.ToFloat64(authAttempts.WithLabelValues("login", "rejected"))
	if after-before != 2 {
		t.Errorf("auth counter moved by %v, want 2", after-before)
	}
}

func TestObserveSessionRevoked(t *testing.T) {
	before := testutil.ToFloat64(sessionsRevoked)

	ObserveSessionRevoked()

	if got := testutil.ToFloat64(sessionsRevoked) - before; got != 1 {
		t.Errorf("revoked counter moved by %v, want 1", got)
	}
}
