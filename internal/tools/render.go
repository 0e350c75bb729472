package tools

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hishamalhadi/chitchats-mcp/internal/chitchats"
)

// remoteFailureText turns every non-success Result into the fixed
// operator-facing text for that failure class. All handlers report remote
// failures through here so the texts stay identical across tools.
func remoteFailureText(res chitchats.Result) string {
	switch res.Kind {
	case chitchats.KindRateLimited:
		if res.RetryAfter != nil {
			return fmt.Sprintf("Rate limited by the Chit Chats API. Retry after %ds.", *res.RetryAfter)
		}
		return "Rate limited by the Chit Chats API. Try again later."
	case chitchats.KindAPIError:
		return fmt.Sprintf("Chit Chats API error (HTTP %d): %s", res.Status, res.Message)
	case chitchats.KindTransportFailure:
		return fmt.Sprintf("Request failed: %s", res.Message)
	default:
		return fmt.Sprintf("Unexpected API response (HTTP %d).", res.Status)
	}
}

// kv writes one "**label:** value" markdown line, skipping empty values.
func kv(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "**%s:** %s\n", label, value)
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// setString and setInt forward a query parameter only when the caller sent
// it. Absent stays absent; an explicitly sent empty string is forwarded.
func setString(q url.Values, key string, v *string) {
	if v != nil {
		q.Set(key, *v)
	}
}

func setInt(q url.Values, key string, v *int) {
	if v != nil {
		q.Set(key, strconv.Itoa(*v))
	}
}

func pageOrDefault(page *int) int {
	if page != nil {
		return *page
	}
	return 1
}
