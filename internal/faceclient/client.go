// Package faceclient calls the external face-detection service. The
// marking flow only depends on the narrow contract image-in, face-count
// out; model internals stay on the other side of the wire.
package faceclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DetectResult holds the detection response for one image.
type DetectResult struct {
	FacesDetected int     `json:"faces_detected"`
	Score         float64 `json:"score"`
}

// Client calls the face detection microservice.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Skip    bool
}

// New creates a client. With skip set, detection is mocked as one face,
// for dev environments without the service running.
func New(baseURL string, skip bool) *Client {
	return &Client{
		BaseURL: baseURL,
		Skip:    skip,
		HTTP: &http.Client{
			Timeout: 30 * time.Second, // Face processing can take time
		},
	}
}

// Detect submits image bytes and returns the detection result.
func (c *Client) Detect(ctx context.Context, image []byte) (*DetectResult, error) {
	if c.Skip {
		return &DetectResult{FacesDetected: 1, Score: 0.95}, nil
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("image required")
	}

	body, _ := json.Marshal(map[string]string{
		"image_b64": base64.StdEncoding.EncodeToString(image),
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/detect", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("face service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("face service error %s: %s", resp.Status, string(bodyBytes))
	}

	var out DetectResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// CountFaces is the narrow contract the marking flow consumes.
func (c *Client) CountFaces(ctx context.Context, image []byte) (int, error) {
	res, err := c.Detect(ctx, image)
	if err != nil {
		return 0, err
	}
	return res.FacesDetected, nil
}

// Health checks if the face service is available.
func (c *Client) Health(ctx context.Context) error {
	if c.Skip {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("face service unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("face service unhealthy: %s", resp.Status)
	}

	return nil
}
