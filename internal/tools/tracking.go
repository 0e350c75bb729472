package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/hishamalhadi/chitchats-mcp/internal/chitchats"
)

func trackingTools(c *chitchats.Client) []*Tool {
	return []*Tool{
		{
			Name:        "get_tracking",
			Description: "Get public tracking events for a shipment; works without credentials",
			Access:      ReadOnly,
			Schema: Schema{
				{Name: "shipment_id", Type: TypeString, Required: true, Description: "The shipment id"},
			},
			Run: func(ctx context.Context, params map[string]any) (string, error) {
				return getTracking(ctx, c, params)
			},
		},
	}
}

func getTracking(ctx context.Context, c *chitchats.Client, params map[string]any) (string, error) {
	var p shipmentIDParams
	if err := decodeParams(params, &p); err != nil {
		return "", err
	}

	var out struct {
		Tracking *chitchats.Tracking `json:"tracking"`
	}
	res := c.Track(ctx, p.ShipmentID, &out)
	if !res.OK() {
		return remoteFailureText(res), nil
	}
	if out.Tracking == nil {
		return "No tracking data returned.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Tracking for shipment %s\n", p.ShipmentID)
	kv(&b, "Status", out.Tracking.Status)
	kv(&b, "Carrier", out.Tracking.Carrier)
	kv(&b, "Tracking", out.Tracking.CarrierTrackingCode)
	if len(out.Tracking.Events) == 0 {
		b.WriteString("\nNo tracking events yet.")
		return b.String(), nil
	}
	b.WriteString("\nEvents:\n")
	for _, ev := range out.Tracking.Events {
		line := "- " + ev.HappenedAt
		if ev.Description != "" {
			line += ": " + ev.Description
		}
		if ev.Location != "" {
			line += " (" + ev.Location + ")"
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
