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

func batchTools(c *chitchats.Client) []*Tool {
	return []*Tool{
		{
			Name:        "list_batches",
			Description: "List batches, newest first",
			Access:      ReadOnly,
			Schema: Schema{
				{Name: "limit", Type: TypeInteger, Description: "Page size (default 100)", Min: bound(1), Max: bound(1000)},
				{Name: "page", Type: TypeInteger, Description: "Page number, starting at 1", Min: bound(1)},
			},
			Run: func(ctx context.Context, params map[string]any) (string, error) {
				return listBatches(ctx, c, params)
			},
		},
		{
			Name:        "get_batch",
			Description: "Get details for one batch",
			Access:      ReadOnly,
			Schema: Schema{
				{Name: "batch_id", Type: TypeInteger, Required: true, Description: "The batch id", Min: bound(1)},
			},
			Run: func(ctx context.Context, params map[string]any) (string, error) {
				return getBatch(ctx, c, params)
			},
		},
		{
			Name:        "create_batch",
			Description: "Create a new empty batch",
			Access:      Mutating,
			Schema:      Schema{},
			Run: func(ctx context.Context, params map[string]any) (string, error) {
				return createBatch(ctx, c)
			},
		},
		{
			Name:        "delete_batch",
			Description: "Delete a batch permanently",
			Access:      Destructive,
			Schema: Schema{
				{Name: "batch_id", Type: TypeInteger, Required: true, Description: "The batch id", Min: bound(1)},
			},
			Run: func(ctx context.Context, params map[string]any) (string, error) {
				return deleteBatch(ctx, c, params)
			},
		},
	}
}

type listBatchesParams struct {
	Limit *int `mapstructure:"limit"`
	Page  *int `mapstructure:"page"`
}

func listBatches(ctx context.Context, c *chitchats.Client, params map[string]any) (string, error) {
	var p listBatchesParams
	if err := decodeParams(params, &p); err != nil {
		return "", err
	}

	q := url.Values{}
	setInt(q, "limit", p.Limit)
	setInt(q, "page", p.Page)

	var batches []chitchats.Batch
	res := c.Do(ctx, http.MethodGet, withQuery("/batches", q), nil, &batches)
	if !res.OK() {
		return remoteFailureText(res), nil
	}
	if len(batches) == 0 {
		return "No batches found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d batch(es) (page %d):\n", len(batches), pageOrDefault(p.Page))
	for i := range batches {
		b.WriteString("\n")
		b.WriteString(formatBatch(&batches[i]))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

type batchIDParams struct {
	BatchID int `mapstructure:"batch_id"`
}

func getBatch(ctx context.Context, c *chitchats.Client, params map[string]any) (string, error) {
	var p batchIDParams
	if err := decodeParams(params, &p); err != nil {
		return "", err
	}

	var out struct {
		Batch *chitchats.Batch `json:"batch"`
	}
	res := c.Do(ctx, http.MethodGet, "/batches/"+strconv.Itoa(p.BatchID), nil, &out)
	if !res.OK() {
		return remoteFailureText(res), nil
	}
	if out.Batch == nil {
		return "No batch data returned.", nil
	}
	return strings.TrimRight(formatBatch(out.Batch), "\n"), nil
}

func createBatch(ctx context.Context, c *chitchats.Client) (string, error) {
	var out struct {
		Batch *chitchats.Batch `json:"batch"`
	}
	res := c.Do(ctx, http.MethodPost, "/batches", nil, &out)
	if !res.OK() {
		return remoteFailureText(res), nil
	}
	if out.Batch == nil {
		return "Batch created but no data returned.", nil
	}
	return "Batch created.\n\n" + strings.TrimRight(formatBatch(out.Batch), "\n"), nil
}

func deleteBatch(ctx context.Context, c *chitchats.Client, params map[string]any) (string, error) {
	var p batchIDParams
	if err := decodeParams(params, &p); err != nil {
		return "", err
	}

	res := c.Do(ctx, http.MethodDelete, "/batches/"+strconv.Itoa(p.BatchID), nil, nil)
	if !res.OK() {
		return remoteFailureText(res), nil
	}
	return fmt.Sprintf("Batch %d deleted.", p.BatchID), nil
}

func formatBatch(batch *chitchats.Batch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Batch %d\n", batch.ID)
	kv(&b, "Status", batch.Status)
	kv(&b, "Shipments", strconv.Itoa(batch.ShipmentCount))
	kv(&b, "Created", batch.CreatedAt)
	return b.String()
}
