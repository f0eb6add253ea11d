package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	pkgError "github.com/ngophulan456hn/alice-assignment/pkg/error"
)

// Config configures the inference client. GenerateTimeout bounds the model
// call (cold model loads can take long); HealthTimeout bounds the tags probe.
type Config struct {
	BaseURL         string
	Model           string
	GenerateTimeout time.Duration
	HealthTimeout   time.Duration
}

// Client talks to a locally hosted Ollama server. It is safe for concurrent
// use; create one per process and inject it.
type Client struct {
	baseURL        string
	model          string
	generateClient *http.Client
	healthClient   *http.Client
}

func NewClient(cfg Config) *Client {
	generateTimeout := cfg.GenerateTimeout
	if generateTimeout == 0 {
		generateTimeout = 120 * time.Second
	}
	healthTimeout := cfg.HealthTimeout
	if healthTimeout == 0 {
		healthTimeout = 5 * time.Second
	}

	return &Client{
		baseURL:        cfg.BaseURL,
		model:          cfg.Model,
		generateClient: &http.Client{Timeout: generateTimeout},
		healthClient:   &http.Client{Timeout: healthTimeout},
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends one fully assembled prompt and returns the completion.
// Failures map onto the gateway taxonomy: connection failures become
// BackendUnreachableError, an exceeded wait becomes BackendTimeoutError, and
// a non-2xx reply becomes BackendError carrying the upstream status and body.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", pkgError.InternalServerError(fmt.Sprintf("failed to encode generate request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", pkgError.InternalServerError(fmt.Sprintf("failed to build generate request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.generateClient.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logrus.Warnf("[OLLAMA] generate returned status %d", resp.StatusCode)
		return "", pkgError.BackendError{Status: resp.StatusCode, Body: string(body)}
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", pkgError.InternalServerError(fmt.Sprintf("failed to decode generate response: %v", err))
	}
	if result.Response == "" {
		return "No response from model", nil
	}
	return result.Response, nil
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Models lists the model names the server currently has available.
// Used by the health probe only; uses the short timeout.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.healthClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tags endpoint returned status %d", resp.StatusCode)
	}

	var result tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(result.Models))
	for _, m := range result.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// classifyTransportError separates "server not running" from "server too
// slow". Timeouts cover both the client deadline and the request context.
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return pkgError.BackendTimeoutError("inference request timed out; the model may still be loading, try again")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgError.BackendTimeoutError("inference request timed out; the model may still be loading, try again")
	}
	return pkgError.BackendUnreachableError("cannot connect to the inference server; make sure Ollama is running")
}
