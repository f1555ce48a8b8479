package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"direct client", "203.0.113.7:5000", "", "", "203.0.113.7"},
		{"untrusted peer cannot spoof", "203.0.113.7:5000", "198.51.100.1", "", "203.0.113.7"},
		{"trusted proxy forwards", "10.0.0.2:80", "198.51.100.1, 10.0.0.2", "", "198.51.100.1"},
		{"trusted proxy real ip", "127.0.0.1:80", "", "198.51.100.9", "198.51.100.9"},
		{"garbage forwarded header", "10.0.0.2:80", "not-an-ip", "", "10.0.0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := extractClientIP(r); got != tt.want {
				t.Errorf("extractClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectSuspiciousRequest(t *testing.T) {
	metrics := &securityMetrics{}

	clean := httptest.NewRequest(http.MethodGet, "/api/cash-holding?year=2025&month=2", nil)
	if detectSuspiciousRequest(clean, metrics) {
		t.Error("normal report request flagged")
	}

	probes := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/wp-admin/setup.php", nil),
		httptest.NewRequest(http.MethodGet, "/api/export?file=../../etc/passwd", nil),
		httptest.NewRequest("TRACE", "/", nil),
	}
	scanner := httptest.NewRequest(http.MethodGet, "/", nil)
	scanner.Header.Set("User-Agent", "sqlmap/1.7")
	probes = append(probes, scanner)

	for _, r := range probes {
		if !detectSuspiciousRequest(r, metrics) {
			t.Errorf("%s %s not flagged", r.Method, r.URL)
		}
	}
	if got := metrics.snapshot().SuspiciousRequests; got != int64(len(probes)) {
		t.Errorf("suspicious = %d, want %d", got, len(probes))
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(3)
	defer rl.stop()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	metrics := &securityMetrics{}

	for i := 0; i < 3; i++ {
		if !rl.allow("1.2.3.4", metrics) {
			t.Fatalf("request %d rejected", i)
		}
	}
	if rl.allow("1.2.3.4", metrics) {
		t.Fatal("fourth request within the window should be rejected")
	}
	if !rl.allow("5.6.7.8", metrics) {
		t.Error("other clients have their own budget")
	}

	now = now.Add(time.Minute)
	if !rl.allow("1.2.3.4", metrics) {
		t.Error("a new window should reset the budget")
	}
	if metrics.snapshot().RateLimitHits != 1 {
		t.Errorf("hits = %d", metrics.snapshot().RateLimitHits)
	}

	now = now.Add(time.Hour)
	if removed := rl.cleanupStaleEntries(); removed != 2 || rl.ActiveClients() != 0 {
		t.Errorf("removed %d, %d clients left", removed, rl.ActiveClients())
	}
}
