package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestConversationMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConversationMetrics(reg)

	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	m.ObserveSubmission("intake", "needs_more")
	m.ObserveSubmission("intake", "needs_more")
	m.ObserveSubmission("scheduling", "rejected")
	m.ObserveFinalization("success")

	if got := testutil.ToFloat64(m.activeSessions); got != 1 {
		t.Errorf("expected 1 active session, got %v", got)
	}
	if got := testutil.ToFloat64(m.submissionsTotal.WithLabelValues("intake", "needs_more")); got != 2 {
		t.Errorf("expected 2 intake needs_more submissions, got %v", got)
	}
	if got := testutil.ToFloat64(m.finalizationsTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("expected 1 success finalization, got %v", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *ConversationMetrics
	m.ObserveSubmission("intake", "rejected")
	m.ObserveFinalization("success")
	m.SessionOpened()
	m.SessionClosed()
}
