package sponsorclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/fr0stylo/sponsorboard/internal/app/domain"
	"github.com/fr0stylo/sponsorboard/internal/app/ports"
	"github.com/fr0stylo/sponsorboard/internal/observability"
)

// BasePath is the plugin prefix every REST resource lives under.
const BasePath = "/sponsors-promotion-plugin"

var (
	_ ports.SponsorAPI    = (*Client)(nil)
	_ ports.MediaResolver = (*Client)(nil)
	_ ports.MediaUploader = (*Client)(nil)
)

// APIError is a non-2xx response from the plugin API.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("sponsors api: status %d", e.Status)
	}
	return fmt.Sprintf("sponsors api: status %d: %s", e.Status, e.Detail)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to the plugin REST API and the host media endpoint.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// New builds a client for the host at baseURL. apiToken is sent as a bearer
// token and may be empty for read-only use.
func New(baseURL, apiToken string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiToken:   strings.TrimSpace(apiToken),
		httpClient: &http.Client{Timeout: 15 * time.Second, Transport: observability.HTTPTransport(nil)},
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c
}

func (c *Client) ListLevels(ctx context.Context) ([]domain.SponsorLevel, error) {
	var levels []domain.SponsorLevel
	err := c.do(ctx, http.MethodGet, "/sponsors/levels/", nil, &levels)
	return levels, err
}

func (c *Client) GetLevel(ctx context.Context, id int64) (domain.SponsorLevel, error) {
	var level domain.SponsorLevel
	err := c.do(ctx, http.MethodGet, "/sponsors/levels/"+strconv.FormatInt(id, 10), nil, &level)
	return level, err
}

func (c *Client) CreateLevel(ctx context.Context, name string) (domain.SponsorLevel, error) {
	var level domain.SponsorLevel
	err := c.do(ctx, http.MethodPost, "/sponsors/levels/", map[string]string{"name": name}, &level)
	return level, err
}

func (c *Client) UpdateLevel(ctx context.Context, id int64, name string) (domain.SponsorLevel, error) {
	var level domain.SponsorLevel
	err := c.do(ctx, http.MethodPut, "/sponsors/levels/"+strconv.FormatInt(id, 10), map[string]string{"name": name}, &level)
	return level, err
}

func (c *Client) DeleteLevel(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/sponsors/levels/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) ListSponsors(ctx context.Context) ([]domain.Sponsor, error) {
	var sponsors []domain.Sponsor
	err := c.do(ctx, http.MethodGet, "/sponsors/", nil, &sponsors)
	return sponsors, err
}

func (c *Client) CreateSponsor(ctx context.Context, input domain.SponsorInput) (domain.Sponsor, error) {
	var sponsor domain.Sponsor
	err := c.do(ctx, http.MethodPost, "/sponsors/", input, &sponsor)
	return sponsor, err
}

func (c *Client) UpdateSponsor(ctx context.Context, id int64, patch domain.SponsorPatch) (domain.Sponsor, error) {
	var sponsor domain.Sponsor
	err := c.do(ctx, http.MethodPut, "/sponsors/"+strconv.FormatInt(id, 10), patch, &sponsor)
	return sponsor, err
}

func (c *Client) DeleteSponsor(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/sponsors/"+strconv.FormatInt(id, 10), nil, nil)
}

// Component fetches the aggregate widget payload.
func (c *Client) Component(ctx context.Context) (domain.ComponentData, error) {
	var data domain.ComponentData
	err := c.do(ctx, http.MethodGet, "/sponsors/component/", nil, &data)
	return data, err
}

// MediaURL returns the host URL serving a media identifier.
func (c *Client) MediaURL(id string) string {
	return c.baseURL + "/media/" + id
}

// UploadMedia sends a logo binary as multipart field "file" to the host.
func (c *Client) UploadMedia(ctx context.Context, id string, file ports.LogoFile) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	filename := file.Name
	if filename == "" {
		filename = "logo"
	}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("write multipart part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.MediaURL(id), &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.send(req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+BasePath+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return &APIError{Status: resp.StatusCode, Detail: errorDetail(payload)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorDetail extracts {"detail": ...} (or echo's {"message": ...}) from an
// error body, falling back to the raw text.
func errorDetail(payload []byte) string {
	var parsed struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &parsed); err == nil {
		if parsed.Detail != "" {
			return parsed.Detail
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return strings.TrimSpace(string(payload))
}
