// Package avatar wraps the external image-generation API used for
// companion portraits. Images are fetched once and stored on local disk
// keyed by AEI id.
package avatar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Client calls the image-generation collaborator.
type Client struct {
	baseURL string
	apiKey  string
	dir     string
	client  *http.Client
}

// New creates a Client that stores generated images under dir.
func New(baseURL, apiKey, dir string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		dir:     dir,
		client:  &http.Client{Timeout: 90 * time.Second},
	}
}

// Generate requests an image for the prompt, writes it to
// <dir>/<aeiID>.png, and returns the stored path.
func (c *Client) Generate(ctx context.Context, aeiID, prompt string) (string, error) {
	reqBody := map[string]any{
		"prompt": prompt,
		"size":   "512x512",
		"format": "png",
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/images", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("image api status %d: %s", resp.StatusCode, msg)
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(image) == 0 {
		return "", fmt.Errorf("image api returned empty body")
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return "", fmt.Errorf("create avatar dir: %w", err)
	}

	path := filepath.Join(c.dir, aeiID+".png")
	if err := os.WriteFile(path, image, 0644); err != nil {
		return "", fmt.Errorf("write avatar: %w", err)
	}
	return path, nil
}
