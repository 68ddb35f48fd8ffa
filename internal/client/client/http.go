package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/babelx/internal/netx"
)

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

type transcribeResponse struct {
	Transcript string `json:"transcript"`
}

// HTTPClient talks to the translate and transcribe endpoints over HTTP.
type HTTPClient struct {
	translateURL  string
	transcribeURL string
	hc            *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client with the given per-request timeout.
func NewHTTPClient(translateURL, transcribeURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		translateURL:  translateURL,
		transcribeURL: transcribeURL,
		hc:            &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	var resp translateResponse
	err := netx.PostJSON(ctx, c.hc, c.translateURL, translateRequest{
		Q:      req.Text,
		Source: req.Source,
		Target: req.Target,
	}, &resp)
	if err != nil {
		return "", mapError("translate", err)
	}
	return resp.TranslatedText, nil
}

func (c *HTTPClient) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	var resp transcribeResponse
	if err := netx.PostMultipartFile(ctx, c.hc, c.transcribeURL, "file", filename, audio, &resp); err != nil {
		return "", mapError("transcribe", err)
	}
	return resp.Transcript, nil
}

func mapError(op string, err error) error {
	var se *netx.StatusError
	var ue *url.Error
	switch {
	case errors.As(err, &se):
		return fmt.Errorf("%s: %w: %v", op, ErrRemote, se)
	case errors.Is(err, netx.ErrDecode):
		return fmt.Errorf("%s: %w: %v", op, ErrRemote, err)
	case errors.As(err, &ue):
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, ue.Err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
