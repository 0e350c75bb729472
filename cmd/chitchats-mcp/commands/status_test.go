package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// newStatusCmd builds the status command with a context set, the way
// cobra's Execute path would.
func newStatusCmd() *cobra.Command {
	cmd := NewStatusCmd()
	cmd.SetContext(context.Background())
	return cmd
}

func TestStatusCommand_NoCredentialsSkipsProbe(t *testing.T) {
	isolateEnv(t)

	output := captureOutput(t, func() {
		if err := runStatus(newStatusCmd(), nil); err != nil {
			t.Fatalf("runStatus error: %v", err)
		}
	})

	cleanOutput := stripANSI(output)

	if !strings.Contains(cleanOutput, "=== chitchats-mcp Status ===") {
		t.Fatalf("expected status header, got: %s", cleanOutput)
	}
	if !strings.Contains(cleanOutput, "Client ID: not set") {
		t.Errorf("expected missing client id line, got: %s", cleanOutput)
	}
	if !strings.Contains(cleanOutput, "Access token: not set") {
		t.Errorf("expected missing token line, got: %s", cleanOutput)
	}
	if !strings.Contains(cleanOutput, "Disabled (stdio only)") {
		t.Errorf("expected disabled HTTP transport line, got: %s", cleanOutput)
	}
	if !strings.Contains(cleanOutput, "Skipped (no credentials)") {
		t.Errorf("expected skipped connectivity probe, got: %s", cleanOutput)
	}
}

func TestStatusCommand_ProbesAPIWithCredentials(t *testing.T) {
	isolateEnv(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/clients/777/shipments/count" {
			t.Errorf("unexpected probe path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "probe-token" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count": 3}`))
	}))
	defer server.Close()

	t.Setenv("CHITCHATS_API_HOST", server.URL)
	t.Setenv("CHITCHATS_CLIENT_ID", "777")
	t.Setenv("CHITCHATS_ACCESS_TOKEN", "probe-token")

	output := captureOutput(t, func() {
		if err := runStatus(newStatusCmd(), nil); err != nil {
			t.Fatalf("runStatus error: %v", err)
		}
	})

	cleanOutput := stripANSI(output)

	if !strings.Contains(cleanOutput, "Client ID: 777") {
		t.Errorf("expected client id line, got: %s", cleanOutput)
	}
	if !strings.Contains(cleanOutput, "Access token: configured") {
		t.Errorf("expected configured token line, got: %s", cleanOutput)
	}
	if !strings.Contains(cleanOutput, "OK (3 shipment(s) on account)") {
		t.Errorf("expected successful probe line, got: %s", cleanOutput)
	}
}

func TestStatusCommand_ReportsProbeFailure(t *testing.T) {
	isolateEnv(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "Invalid access token"}`))
	}))
	defer server.Close()

	t.Setenv("CHITCHATS_API_HOST", server.URL)
	t.Setenv("CHITCHATS_CLIENT_ID", "777")
	t.Setenv("CHITCHATS_ACCESS_TOKEN", "expired")

	output := captureOutput(t, func() {
		if err := runStatus(newStatusCmd(), nil); err != nil {
			t.Fatalf("runStatus error: %v", err)
		}
	})

	if !strings.Contains(stripANSI(output), "Failed: Invalid access token") {
		t.Errorf("expected failed probe line, got: %s", output)
	}
}
