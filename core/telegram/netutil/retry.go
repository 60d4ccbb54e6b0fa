// Package netutil classifies network errors seen by the Telegram client.
package netutil

import (
	"context"
	"errors"
	"net"
)

// Kind names the transient condition found in an error chain.
type Kind string

const (
	// KindNone means the error is not worth repeating.
	KindNone      Kind = ""
	KindDial      Kind = "dial"
	KindTimeout   Kind = "timeout"
	KindTemporary Kind = "temporary"
)

// Classify reports the first transient condition in err's chain. A
// cancelled context is never transient.
func Classify(err error) Kind {
	if err == nil || errors.Is(err, context.Canceled) {
		return KindNone
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return KindDial
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		if netErr.Temporary() { //nolint:staticcheck // still set by some resolvers
			return KindTemporary
		}
	}
	return KindNone
}

// ShouldRetry reports whether repeating the request may succeed.
func ShouldRetry(err error) bool {
	return Classify(err) != KindNone
}
