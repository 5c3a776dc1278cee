// Package pathstore persists extracted documents in a pathstore key/value
// service, one node per page plus a metadata node.
package pathstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/model"
)

// Client communicates with the pathstore HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	attempts   uint
	delay      time.Duration
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		attempts: 3,
		delay:    500 * time.Millisecond,
	}
}

// NodeRequest is the body for PUT /kv/{key}.
type NodeRequest struct {
	Value      any    `json:"value"`
	MemoryType string `json:"memory_type,omitempty"`
	Source     string `json:"source,omitempty"`
}

// NodeResponse is the response from GET /kv/{key}.
type NodeResponse struct {
	Key   string          `json:"key_path"`
	Value json.RawMessage `json:"value"`
}

// StatusError is a non-success response from pathstore.
type StatusError struct {
	Op         string
	Key        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Op, e.Key, e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed if repeated.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func documentKey(docID string) string {
	return "documents/" + url.PathEscape(docID)
}

// StoreDocument writes one node per page and then the metadata node, so a
// readable meta node implies all pages are present.
func (c *Client) StoreDocument(ctx context.Context, docID, filename string, doc *model.Document) error {
	prefix := documentKey(docID)
	source := "pdfextract:" + docID

	for _, page := range doc.Pages {
		key := fmt.Sprintf("%s/pages/%d", prefix, page.PageNumber)
		if err := c.PutNode(ctx, key, NodeRequest{Value: page, MemoryType: "document_page", Source: source}); err != nil {
			return fmt.Errorf("store page %d: %w", page.PageNumber, err)
		}
	}

	summary := doc.Summary()
	meta := map[string]any{
		"filename":   filename,
		"pages":      summary.Pages,
		"items":      summary.Items,
		"by_type":    summary.ByType,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := c.PutNode(ctx, prefix+"/meta", NodeRequest{Value: meta, MemoryType: "document_meta", Source: source}); err != nil {
		return fmt.Errorf("store meta: %w", err)
	}
	return nil
}

// LoadDocument reads a stored document back. It returns nil, nil when the
// document does not exist.
func (c *Client) LoadDocument(ctx context.Context, docID string) (*model.Document, error) {
	prefix := documentKey(docID)
	meta, err := c.GetNode(ctx, prefix+"/meta")
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, nil
	}

	children, err := c.ListChildren(ctx, prefix+"/pages", 0)
	if err != nil {
		return nil, err
	}
	doc := &model.Document{Pages: make([]model.Page, 0, len(children))}
	for _, child := range children {
		var page model.Page
		if err := json.Unmarshal(child.Value, &page); err != nil {
			return nil, fmt.Errorf("decode page %s: %w", child.Key, err)
		}
		doc.Pages = append(doc.Pages, page)
	}
	sort.Slice(doc.Pages, func(i, j int) bool {
		return doc.Pages[i].PageNumber < doc.Pages[j].PageNumber
	})
	return doc, nil
}

// DeleteDocument removes a stored document and all of its pages.
func (c *Client) DeleteDocument(ctx context.Context, docID string) error {
	return c.DeleteNode(ctx, documentKey(docID), true)
}

// PutNode stores or updates a node at the given path, retrying transient failures.
func (c *Client) PutNode(ctx context.Context, key string, req NodeRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal node: %w", err)
	}
	return c.do(ctx, func() error {
		resp, err := c.send(ctx, http.MethodPut, c.baseURL+"/kv/"+key, body)
		if err != nil {
			return fmt.Errorf("put node: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			return statusError("put node", key, resp)
		}
		return nil
	})
}

// GetNode retrieves a node by key. A missing node returns nil, nil.
func (c *Client) GetNode(ctx context.Context, key string) (*NodeResponse, error) {
	var node *NodeResponse
	err := c.do(ctx, func() error {
		resp, err := c.send(ctx, http.MethodGet, c.baseURL+"/kv/"+key, nil)
		if err != nil {
			return fmt.Errorf("get node: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil
		}
		if resp.StatusCode != http.StatusOK {
			return statusError("get node", key, resp)
		}
		var n NodeResponse
		if err := json.NewDecoder(resp.Body).Decode(&n); err != nil {
			return retry.Unrecoverable(fmt.Errorf("decode node: %w", err))
		}
		node = &n
		return nil
	})
	return node, err
}

// DeleteNode deletes a node and optionally its children.
func (c *Client) DeleteNode(ctx context.Context, key string, recursive bool) error {
	u := c.baseURL + "/kv/" + key
	if recursive {
		u += "?children=true"
	}
	return c.do(ctx, func() error {
		resp, err := c.send(ctx, http.MethodDelete, u, nil)
		if err != nil {
			return fmt.Errorf("delete node: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
			return statusError("delete node", key, resp)
		}
		return nil
	})
}

// ListChildrenResponse is a single node from a prefix scan.
type ListChildrenResponse struct {
	Key   string          `json:"key_path"`
	Value json.RawMessage `json:"value"`
}

// ListChildren does a prefix scan under the given key.
func (c *Client) ListChildren(ctx context.Context, key string, limit int) ([]ListChildrenResponse, error) {
	u := c.baseURL + "/kv/" + key + "/*"
	if limit > 0 {
		u += "?limit=" + url.QueryEscape(strconv.Itoa(limit))
	}
	var nodes []ListChildrenResponse
	err := c.do(ctx, func() error {
		resp, err := c.send(ctx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("list children: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return statusError("list children", key, resp)
		}
		var result struct {
			Nodes []ListChildrenResponse `json:"nodes"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return retry.Unrecoverable(fmt.Errorf("decode children: %w", err))
		}
		nodes = result.Nodes
		return nil
	})
	return nodes, err
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) send(ctx context.Context, method, u string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("create request: %w", err))
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	return c.httpClient.Do(httpReq)
}

func (c *Client) do(ctx context.Context, fn func() error) error {
	return retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return se.Retryable()
			}
			return true
		}),
	)
}

func statusError(op, key string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return &StatusError{Op: op, Key: key, StatusCode: resp.StatusCode, Body: string(body)}
}
