package httpclient

import (
	"net"
	"testing"
	"time"
)

func TestValidateURL(t *testing.T) {
	c := New(10 * time.Second)

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"public https", "https://openrouter.ai/api/v1", false},
		{"public http", "http://example.com/path", false},
		{"file scheme blocked", "file:///etc/passwd", true},
		{"gopher scheme blocked", "gopher://example.com", true},
		{"localhost blocked", "http://localhost:8080/", true},
		{"loopback IP blocked", "http://127.0.0.1/", true},
		{"private IP blocked", "http://10.1.2.3/", true},
		{"rfc1918 172 blocked", "http://172.16.0.1/", true},
		{"metadata endpoint blocked", "http://169.254.169.254/latest/meta-data", true},
		{"credential confusion blocked", "http://evil.com@localhost/", true},
		{"missing hostname", "https:///path", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURLWithBlockingDisabled(t *testing.T) {
	block := false
	c := NewWithOptions(10*time.Second, Options{BlockPrivateIP: &block})

	if _, err := c.ValidateURL("http://localhost:11434/v1/chat/completions"); err != nil {
		t.Errorf("localhost should be allowed when private-IP blocking is off: %v", err)
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"10.0.0.1", true},
		{"172.16.5.4", true},
		{"192.168.1.1", true},
		{"127.0.0.1", true},
		{"169.254.169.254", true},
		{"100.64.0.1", true},
		{"8.8.8.8", false},
		{"140.82.112.3", false},
		{"::1", true},
		{"fe80::1", true},
		{"2606:4700::6810:84e5", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			if ip == nil {
				t.Fatalf("bad test IP %q", tt.ip)
			}
			if got := isPrivateIP(ip); got != tt.want {
				t.Errorf("isPrivateIP(%s) = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}
}
