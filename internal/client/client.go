// Package client talks to the workflow frontend's TUI-facing REST API:
// listing workflows, pulling full documents, and downloading compiled
// bundles, all bearer-token authenticated.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/alfredjeanlab/weft/internal/model"
)

// Sentinel errors distinguishing "server said no" from "server said yes but
// lied". Unauthorized is never retried here; re-authentication is the
// caller's move.
var (
	// ErrUnauthorized indicates the frontend rejected the bearer token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidResponse indicates a success response whose body does not
	// have the expected shape. Surfaced distinctly from RequestError so
	// callers can treat it as a defect rather than a denial.
	ErrInvalidResponse = errors.New("invalid API response")
)

// RequestError is a non-success HTTP outcome other than 401.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Client is an HTTP client for the frontend API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client targeting the given base URL (e.g.
// "https://api.example.com"). A trailing slash on the base URL is
// normalized away before path concatenation.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// workflowsResponse is the wire shape of the listing endpoint. Error carries
// a server-supplied message on failure responses.
type workflowsResponse struct {
	Workflows []model.WorkflowSummary `json:"workflows"`
	Error     string                  `json:"error"`
}

// FetchWorkflows lists the workflows visible to the authenticated user.
func (c *Client) FetchWorkflows(ctx context.Context) ([]model.WorkflowSummary, error) {
	resp, err := c.get(ctx, "/api/tui/workflows")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload workflowsResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&payload)

	if err := c.checkStatus(resp, payload.Error); err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w from /api/tui/workflows: %v", ErrInvalidResponse, decodeErr)
	}
	// A success body without a workflows field is malformed even though the
	// status said OK.
	if payload.Workflows == nil {
		return nil, fmt.Errorf("%w from /api/tui/workflows: missing workflows field", ErrInvalidResponse)
	}
	return payload.Workflows, nil
}

// workflowResponse is the wire shape of the single-document endpoint.
type workflowResponse struct {
	Workflow *model.Workflow `json:"workflow"`
	Error    string          `json:"error"`
}

// FetchWorkflow pulls the full document for one workflow.
func (c *Client) FetchWorkflow(ctx context.Context, id string) (*model.Workflow, error) {
	endpoint := "/api/tui/workflows/" + url.PathEscape(id)
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload workflowResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&payload)

	if err := c.checkStatus(resp, payload.Error); err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w from %s: %v", ErrInvalidResponse, endpoint, decodeErr)
	}
	if payload.Workflow == nil {
		return nil, fmt.Errorf("%w from %s: missing workflow field", ErrInvalidResponse, endpoint)
	}
	return payload.Workflow, nil
}

// Bundle is a compiled workflow artifact.
type Bundle struct {
	FileName string
	Content  []byte
}

// bundleResponse is the metadata returned by the bundle endpoint; the
// artifact itself is fetched from DownloadURL.
type bundleResponse struct {
	DownloadURL string `json:"downloadUrl"`
	FileName    string `json:"fileName"`
	Error       string `json:"error"`
}

// DownloadBundle fetches the compiled artifact for a workflow.
func (c *Client) DownloadBundle(ctx context.Context, id string) (*Bundle, error) {
	endpoint := "/api/tui/workflows/" + url.PathEscape(id) + "/bundle"
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var meta bundleResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&meta)

	if err := c.checkStatus(resp, meta.Error); err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w from %s: %v", ErrInvalidResponse, endpoint, decodeErr)
	}
	if strings.TrimSpace(meta.DownloadURL) == "" {
		return nil, fmt.Errorf("%w from %s: missing downloadUrl", ErrInvalidResponse, endpoint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, meta.DownloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating artifact request: %w", err)
	}
	req.Header.Set("Accept", "application/zip")

	artifact, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching artifact: %w", err)
	}
	defer artifact.Body.Close()
	if artifact.StatusCode < 200 || artifact.StatusCode >= 300 {
		return nil, &RequestError{StatusCode: artifact.StatusCode}
	}

	body := new(bytes.Buffer)
	if _, err := io.Copy(body, artifact.Body); err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}

	fileName := strings.TrimSpace(meta.FileName)
	if fileName == "" {
		fileName = fileNameFromDisposition(artifact.Header.Get("Content-Disposition"))
	}
	return &Bundle{FileName: fileName, Content: body.Bytes()}, nil
}

// healthResponse is the wire shape of the health endpoint.
type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Health checks the service health endpoint and returns its status string.
func (c *Client) Health(ctx context.Context) (string, error) {
	resp, err := c.get(ctx, "/v1/health")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload healthResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&payload)

	if err := c.checkStatus(resp, payload.Error); err != nil {
		return "", err
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%w from /v1/health: %v", ErrInvalidResponse, decodeErr)
	}
	if payload.Status == "" {
		return "", fmt.Errorf("%w from /v1/health: missing status field", ErrInvalidResponse)
	}
	return payload.Status, nil
}

// get performs an authenticated GET against the frontend API.
func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	return resp, nil
}

// checkStatus maps a non-success status to the error taxonomy, attaching the
// server-supplied message when there is one.
func (c *Client) checkStatus(resp *http.Response, serverMessage string) error {
	serverMessage = strings.TrimSpace(serverMessage)

	if resp.StatusCode == http.StatusUnauthorized {
		if serverMessage != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, serverMessage)
		}
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{StatusCode: resp.StatusCode, Message: serverMessage}
	}
	return nil
}

var dispositionRe = regexp.MustCompile(`(?i)filename="?([^";]+)"?`)

// fileNameFromDisposition extracts the filename from a Content-Disposition
// header, falling back to a fixed name.
func fileNameFromDisposition(header string) string {
	matches := dispositionRe.FindStringSubmatch(header)
	if len(matches) < 2 {
		return "workflow-bundle.zip"
	}
	return path.Base(strings.TrimSpace(matches[1]))
}
