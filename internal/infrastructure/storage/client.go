package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/openhire/jobboard/internal/domain"
)

// Client uploads blobs to the external object storage service and returns
// durable URLs. Uploads stream straight from the request body; nothing is
// staged on local disk. Failures surface immediately, never retried.
type Client struct {
	uploadURL string
	apiKey    string
	http      *http.Client
	logger    *slog.Logger
}

// NewClient creates a new object storage client
func NewClient(uploadURL, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		uploadURL: uploadURL,
		apiKey:    apiKey,
		http:      &http.Client{Timeout: 30 * time.Second},
		logger:    logger,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload streams a blob as a multipart POST and returns its durable URL
func (c *Client) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, pr)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if contentType != "" {
		req.Header.Set("X-Blob-Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("blob upload failed", slog.String("filename", filename), slog.String("error", err.Error()))
		return "", domain.BadGateway("object storage unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Error("blob upload rejected",
			slog.String("filename", filename),
			slog.Int("status", resp.StatusCode),
		)
		return "", domain.BadGateway("object storage error")
	}

	var ur uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil || ur.SecureURL == "" {
		return "", domain.BadGateway("object storage returned malformed response")
	}

	return ur.SecureURL, nil
}
