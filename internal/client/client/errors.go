package client

import "errors"

var (
	ErrUnavailable = errors.New("service unavailable")
	ErrRemote      = errors.New("remote error")
)
