package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hishamalhadi/chitchats-mcp/internal/chitchats"
)

func returnTools(c *chitchats.Client) []*Tool {
	return []*Tool{
		{
			Name:        "list_returns",
			Description: "List inbound returns",
			Access:      ReadOnly,
			Schema: Schema{
				{Name: "limit", Type: TypeInteger, Description: "Page size (default 100)", Min: bound(1), Max: bound(1000)},
				{Name: "page", Type: TypeInteger, Description: "Page number, starting at 1", Min: bound(1)},
			},
			Run: func(ctx context.Context, params map[string]any) (string, error) {
				return listReturns(ctx, c, params)
			},
		},
		{
			Name:        "get_return",
			Description: "Get details for one return",
			Access:      ReadOnly,
			Schema: Schema{
				{Name: "return_id", Type: TypeInteger, Required: true, Description: "The return id", Min: bound(1)},
			},
			Run: func(ctx context.Context, params map[string]any) (string, error) {
				return getReturn(ctx, c, params)
			},
		},
	}
}

type listReturnsParams struct {
	Limit *int `mapstructure:"limit"`
	Page  *int `mapstructure:"page"`
}

func listReturns(ctx context.Context, c *chitchats.Client, params map[string]any) (string, error) {
	var p listReturnsParams
	if err := decodeParams(params, &p); err != nil {
		return "", err
	}

	q := url.Values{}
	setInt(q, "limit", p.Limit)
	setInt(q, "page", p.Page)

	var returns []chitchats.Return
	res := c.Do(ctx, http.MethodGet, withQuery("/returns", q), nil, &returns)
	if !res.OK() {
		return remoteFailureText(res), nil
	}
	if len(returns) == 0 {
		return "No returns found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d return(s) (page %d):\n", len(returns), pageOrDefault(p.Page))
	for i := range returns {
		b.WriteString("\n")
		b.WriteString(formatReturn(&returns[i]))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

type returnIDParams struct {
	ReturnID int `mapstructure:"return_id"`
}

func getReturn(ctx context.Context, c *chitchats.Client, params map[string]any) (string, error) {
	var p returnIDParams
	if err := decodeParams(params, &p); err != nil {
		return "", err
	}

	var out struct {
		Return *chitchats.Return `json:"return"`
	}
	res := c.Do(ctx, http.MethodGet, "/returns/"+strconv.Itoa(p.ReturnID), nil, &out)
	if !res.OK() {
		return remoteFailureText(res), nil
	}
	if out.Return == nil {
		return "No return data returned.", nil
	}
	return strings.TrimRight(formatReturn(out.Return), "\n"), nil
}

func formatReturn(r *chitchats.Return) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Return %d\n", r.ID)
	kv(&b, "Status", r.Status)
	kv(&b, "From", r.Name)
	kv(&b, "Tracking", r.CarrierTrackingCode)
	kv(&b, "Shipment", r.ShipmentID)
	kv(&b, "Created", r.CreatedAt)
	return b.String()
}
