package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/courtevo/vero/pkg/logger"
)

type outcome int

const (
	outcomeFailed outcome = iota
	outcomeCreated
	outcomeReplayed
)

// Client talks JSON to the vero API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for baseURL with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

// GetJSON fetches path and decodes a 200 response into v.
func (c *Client) GetJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, bytes.TrimSpace(body))
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}

// PostJSON sends body under an Idempotency-Key and returns the status code.
func (c *Client) PostJSON(ctx context.Context, path, key string, body any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", "vero-seed")
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// submit posts items to path with a worker pool.
func submit[T any](ctx context.Context, config *Config, client *Client, path string, items []Item[T], stats *Stats) {
	workers := max(1, min(config.Workers, len(items)))
	itemChan := make(chan Item[T], workers*WorkerChannelMultiplier)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range itemChan {
				o := submitOne(ctx, config, client, path, item)
				mu.Lock()
				stats.add(o)
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(itemChan)
		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			case itemChan <- item:
			}
		}
	}()

	wg.Wait()
}

func submitOne[T any](ctx context.Context, config *Config, client *Client, path string, item Item[T]) outcome {
	status, err := client.PostJSON(ctx, path, item.Key, item.Record)
	switch {
	case err != nil:
		if config.Verbose {
			logger.Get().Warn(ctx, "submission failed", logger.String("path", path), logger.Error(err))
		}
		return outcomeFailed
	case status == http.StatusCreated:
		return outcomeCreated
	case status == http.StatusOK:
		return outcomeReplayed
	default:
		if config.Verbose {
			logger.Get().Warn(ctx, "submission rejected", logger.String("path", path), logger.Int("status", status))
		}
		return outcomeFailed
	}
}
