package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gadgetshub/storefront-backend/pkg/config"
	pkgerrors "github.com/gadgetshub/storefront-backend/pkg/errors"
	"github.com/gadgetshub/storefront-backend/pkg/logger"
)

var (
	errAPIKeyRequired = errors.New("image host api key is required")
	errLoggerRequired = errors.New("image host logger is required")
)

// Client relays prescription uploads to the external image host and
// returns the hosted URL.
type Client struct {
	httpClient  *http.Client
	uploadURL   string
	apiKey      string
	maxUploadMB int
	logger      *logger.Logger
}

// NewClient initializes the image host wrapper and validates credentials.
func NewClient(ctx context.Context, cfg config.ImageHostConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	c := &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		uploadURL:   strings.TrimSpace(cfg.UploadURL),
		apiKey:      apiKey,
		maxUploadMB: cfg.MaxUploadMB,
		logger:      logg,
	}

	logg.Info(ctx, "image host client initialized")
	return c, nil
}

// MaxUploadBytes reports the configured upload size ceiling.
func (c *Client) MaxUploadBytes() int64 {
	if c == nil || c.maxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(c.maxUploadMB) << 20
}

type uploadEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload pushes the file contents to the image host and returns the
// public URL of the stored image.
func (c *Client) Upload(ctx context.Context, filename string, contents io.Reader) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "image host client not configured")
	}
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("key", c.apiKey); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upload form")
	}
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upload form")
	}
	written, err := io.Copy(part, io.LimitReader(contents, c.MaxUploadBytes()+1))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read upload contents")
	}
	if written > c.MaxUploadBytes() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("upload exceeds %d MB limit", c.maxUploadMB))
	}
	if err := writer.Close(); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalize upload form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upload request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.log(ctx, "request", map[string]any{"filename": filename, "bytes": written})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log(ctx, "error", map[string]any{"error": err.Error()})
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "image upload failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.log(ctx, "error", map[string]any{"error": err.Error()})
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read upload response")
	}

	var envelope uploadEnvelope
	if decodeErr := json.Unmarshal(raw, &envelope); decodeErr != nil && resp.StatusCode < 400 {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, decodeErr, "decode upload response")
	}

	if resp.StatusCode >= 400 || !envelope.Success {
		message := envelope.Error.Message
		if message == "" {
			message = "image upload rejected"
		}
		code := pkgerrors.CodeDependency
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			code = pkgerrors.CodeValidation
		}
		c.log(ctx, "error", map[string]any{"status": resp.StatusCode, "error": message})
		return "", pkgerrors.New(code, message).WithDetails(map[string]any{"upstream_status": resp.StatusCode})
	}

	if envelope.Data.URL == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "image host returned no url")
	}

	c.log(ctx, "response", map[string]any{"status": resp.StatusCode})
	return envelope.Data.URL, nil
}

func (c *Client) log(ctx context.Context, phase string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": "upload_image",
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, "image host upload_image", errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("image host %s", phase))
	}
}
