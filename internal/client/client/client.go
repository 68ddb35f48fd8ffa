package client

import (
	"context"
	"io"
)

// TranslateRequest carries canonical language codes.
type TranslateRequest struct {
	Text   string
	Source string
	Target string
}

// Client is the contract for the two remote collaborators.
type Client interface {
	Translate(ctx context.Context, req TranslateRequest) (string, error)
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}
