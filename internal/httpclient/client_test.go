package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oukeidos/legalese/internal/version"
)

func TestGetDefaultClient(t *testing.T) {
	client := GetDefaultClient()
	if client == nil {
		t.Fatal("Expected client to not be nil")
	}
	if client.Timeout != DefaultTimeout {
		t.Errorf("Expected timeout to be %v, got %v", DefaultTimeout, client.Timeout)
	}
	if GetDefaultClient() != client {
		t.Errorf("Expected singleton client instance")
	}
}

func TestNewClient(t *testing.T) {
	customTimeout := 5 * time.Second
	client := NewClient(customTimeout)
	if client.Timeout != customTimeout {
		t.Errorf("Expected timeout to be %v, got %v", customTimeout, client.Timeout)
	}
	ua, ok := client.Transport.(*userAgentTransport)
	if !ok {
		t.Fatalf("Expected *userAgentTransport, got %T", client.Transport)
	}
	transport, ok := ua.base.(*http.Transport)
	if !ok || transport == nil {
		t.Fatalf("Expected base transport to be *http.Transport")
	}
	if transport.MaxIdleConnsPerHost != MaxIdleConnsPerHost {
		t.Errorf("Expected MaxIdleConnsPerHost to be %d, got %d", MaxIdleConnsPerHost, transport.MaxIdleConnsPerHost)
	}
	if transport.TLSHandshakeTimeout != TLSHandshakeTimeout {
		t.Errorf("Expected TLSHandshakeTimeout to be %v, got %v", TLSHandshakeTimeout, transport.TLSHandshakeTimeout)
	}
}

func TestUserAgentTransport(t *testing.T) {
	var got []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("User-Agent"))
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	req.Header.Set("User-Agent", "custom/1.0")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if len(got) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(got))
	}
	if got[0] != version.UserAgent() {
		t.Errorf("default User-Agent = %q, want %q", got[0], version.UserAgent())
	}
	if got[1] != "custom/1.0" {
		t.Errorf("explicit User-Agent = %q, want %q", got[1], "custom/1.0")
	}
}

func TestSetDefaultClientForTesting(t *testing.T) {
	custom := &http.Client{Timeout: time.Second}
	restore := SetDefaultClientForTesting(custom)
	if GetDefaultClient() != custom {
		t.Fatalf("expected override client")
	}
	restore()
	if GetDefaultClient() == custom {
		t.Fatalf("expected override to be restored")
	}
}

func TestClientWithTimeout(t *testing.T) {
	base := GetDefaultClient()

	long := ClientWithTimeout(90 * time.Second)
	if long.Timeout != 90*time.Second {
		t.Errorf("Expected timeout to be %v, got %v", 90*time.Second, long.Timeout)
	}
	if long == base {
		t.Errorf("Expected a separate client for a longer timeout")
	}
	if long.Transport != base.Transport {
		t.Errorf("Expected the default transport to be shared")
	}
	if base.Timeout != DefaultTimeout {
		t.Errorf("Default client timeout changed to %v", base.Timeout)
	}

	if short := ClientWithTimeout(5 * time.Second); short != base {
		t.Errorf("Expected the default client for a shorter timeout")
	}
	if zero := ClientWithTimeout(0); zero != base {
		t.Errorf("Expected the default client for a zero timeout")
	}
}
