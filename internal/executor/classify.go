package executor

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"fabric-archiver/internal/httpx"
)

// Class is the retry classification of a failed remote call.
type Class int

const (
	// ClassRateLimited: the service asked us to slow down (429). Retried
	// with exponential backoff.
	ClassRateLimited Class = iota
	// ClassTransient: the call can reasonably succeed if repeated soon
	// (5xx gateway errors, timeouts, connection failures). Retried with a
	// flat base delay.
	ClassTransient
	// ClassFatal: repeating the call cannot help (auth failures, bad
	// requests, cancellation). Never retried.
	ClassFatal
)

func (c Class) String() string {
	switch c {
	case ClassRateLimited:
		return "rate-limited"
	case ClassTransient:
		return "transient"
	default:
		return "fatal"
	}
}

// Classify inspects a remote-call failure and decides whether it is worth
// retrying. Typed errors (*httpx.HTTPError, net.Error) are preferred;
// message scanning is kept only as a fallback for collaborators that cannot
// supply structured errors.
func Classify(err error) Class {
	if err == nil {
		return ClassFatal
	}
	if errors.Is(err, context.Canceled) {
		return ClassFatal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTransient
	}

	var herr *httpx.HTTPError
	if errors.As(err, &herr) {
		return classifyStatus(herr.StatusCode)
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return ClassTransient
	}

	return classifyMessage(err.Error())
}

func classifyStatus(code int) Class {
	switch code {
	case http.StatusTooManyRequests:
		return ClassRateLimited
	case http.StatusRequestTimeout,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return ClassTransient
	}
	return ClassFatal
}

func classifyMessage(msg string) Class {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "429"), strings.Contains(m, "too many requests"):
		return ClassRateLimited
	case strings.Contains(m, "502"),
		strings.Contains(m, "503"),
		strings.Contains(m, "504"),
		strings.Contains(m, "timeout"),
		strings.Contains(m, "timed out"),
		strings.Contains(m, "connection reset"),
		strings.Contains(m, "connection refused"),
		strings.Contains(m, "broken pipe"),
		strings.Contains(m, "unexpected eof"):
		return ClassTransient
	}
	return ClassFatal
}
