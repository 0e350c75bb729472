package commands

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	os.Stdout = w
	fn()
	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	_ = r.Close()

	return buf.String()
}

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

// isolateEnv points HOME at a temp dir and blanks every CHITCHATS_*
// variable so a developer's real credentials cannot leak into a test.
func isolateEnv(t *testing.T) {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("USERPROFILE", tmpDir)

	for _, env := range []string{
		"CHITCHATS_API_HOST",
		"CHITCHATS_CLIENT_ID",
		"CHITCHATS_ACCESS_TOKEN",
		"CHITCHATS_HTTP_ADDR",
		"CHITCHATS_HTTP_TOKEN",
		"CHITCHATS_LOG_LEVEL",
		"CHITCHATS_LOG_FILE",
	} {
		t.Setenv(env, "")
	}
}
