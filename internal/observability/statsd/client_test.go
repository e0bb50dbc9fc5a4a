package statsd

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestMetricName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix, name, want string
	}{
		{prefix: "imgshare", name: "api.request", want: "imgshare.api.request"},
		{prefix: " ..imgshare.. ", name: "gallery/load", want: "imgshare.gallery_load"},
		{prefix: "", name: "foo..bar", want: "foo.bar"},
		{prefix: "", name: "multi  space", want: "multi__space"},
		{prefix: "imgshare", name: "  ", want: ""},
		{prefix: "imgshare", name: ".", want: ""},
	}

	for _, tt := range tests {
		prefix := strings.Trim(strings.TrimSpace(tt.prefix), ".")
		if got := metricName(prefix, tt.name); got != tt.want {
			t.Fatalf("metricName(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}

func TestFormatTags(t *testing.T) {
	t.Parallel()

	global := map[string]string{
		"env": "prod",
		//nolint:gocritic // whitespace is part of the test case
		" backend ": " redis ",
	}
	local := map[string]string{
		"result": " success ",
		"":       "ignored",
		"env":    "stage",
	}

	got := formatTags(global, local)
	want := "|#backend:redis,env:stage,result:success"
	if got != want {
		t.Fatalf("formatTags() = %q, want %q", got, want)
	}

	if got := formatTags(nil, nil); got != "" {
		t.Fatalf("formatTags(nil, nil) = %q, want empty", got)
	}
}

func TestDisabledClientDropsMetrics(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{Enabled: false, Address: "127.0.0.1:8125"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("expected disabled client")
	}
	client.Count("api.request", 1, nil)
	if err := client.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var nilClient *Client
	nilClient.Timing("api.request", time.Second, nil)
	if nilClient.Enabled() {
		t.Fatalf("nil client must report disabled")
	}
}

func TestClientWritesLines(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()

	client, err := NewClient(Config{
		Enabled:    true,
		Address:    pc.LocalAddr().String(),
		Prefix:     "imgshare",
		GlobalTags: map[string]string{"backend": "profile"},
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	client.Count("gallery.load", 1, map[string]string{"result": "success"})
	client.Timing("api.request", 1500*time.Microsecond, nil)
	client.Gauge("gallery.items", 7, nil)

	want := []string{
		"imgshare.gallery.load:1|c|#backend:profile,result:success",
		"imgshare.api.request:1.5|ms|#backend:profile",
		"imgshare.gallery.items:7|g|#backend:profile",
	}
	buf := make([]byte, 512)
	for _, w := range want {
		if err := pc.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
			t.Fatalf("deadline: %v", err)
		}
		n, _, err := pc.ReadFrom(buf)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if got := string(buf[:n]); got != w {
			t.Fatalf("got %q, want %q", got, w)
		}
	}

	if err := client.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("expected client disabled after close")
	}
}
