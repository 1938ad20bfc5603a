package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DefaultInkURL is the public mermaid.ink image endpoint.
const DefaultInkURL = "https://mermaid.ink/img/"

const defaultInkTimeout = 30 * time.Second

// InkClient renders Mermaid markup to an image via the mermaid.ink service.
// Image rendering is an isolated side effect: a failure here is reported and
// otherwise ignored, and never affects the text or markup outputs.
type InkClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewInkClient returns a client for the public mermaid.ink endpoint.
func NewInkClient() *InkClient {
	return &InkClient{
		BaseURL:    DefaultInkURL,
		HTTPClient: &http.Client{Timeout: defaultInkTimeout},
	}
}

// RenderImage fetches a rendered image of the given Mermaid markup and writes
// it to outPath. The request is cancellable through ctx.
func (c *InkClient) RenderImage(ctx context.Context, markup, outPath string) error {
	encoded := base64.URLEncoding.EncodeToString([]byte(markup))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+encoded, nil)
	if err != nil {
		return fmt.Errorf("building mermaid.ink request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching diagram image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching diagram image: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading diagram image: %w", err)
	}

	if err := os.WriteFile(outPath, data, 0o600); err != nil {
		return fmt.Errorf("writing diagram image to %s: %w", outPath, err)
	}

	return nil
}
