package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/Belphemur/MediaFinder/internal/config"
)

// StatusError is a non-2xx response. Body holds the start of the response body.
type StatusError struct {
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.StatusCode)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// NewRetryPolicy retries transport errors, 429 and 5xx responses with
// exponential backoff starting at backoff. The last failure is returned once
// retries are exhausted.
func NewRetryPolicy(retries int, backoff time.Duration) retrypolicy.RetryPolicy[*http.Response] {
	if retries < 0 {
		retries = 0
	}
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	return retrypolicy.NewBuilder[*http.Response]().
		HandleIf(func(_ *http.Response, err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return false
			}
			var se *StatusError
			if errors.As(err, &se) {
				return se.Retryable()
			}
			return true
		}).
		WithMaxRetries(retries).
		WithBackoff(backoff, 8*backoff).
		ReturnLastFailure().
		OnRetry(func(e failsafe.ExecutionEvent[*http.Response]) {
			logger := config.GetLogger()
			logger.Debug().Err(e.LastError()).Int("attempt", e.Attempts()).Msg("Retrying request")
		}).
		Build()
}

// Do sends the request built by newRequest under policy. A non-2xx response is
// drained, closed and returned as *StatusError.
func Do(ctx context.Context, httpClient *http.Client, policy retrypolicy.RetryPolicy[*http.Response], newRequest func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	return failsafe.With(policy).WithContext(ctx).Get(func() (*http.Response, error) {
		req, err := newRequest(ctx)
		if err != nil {
			return nil, err
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			_ = resp.Body.Close()
			return nil, &StatusError{URL: req.URL.Redacted(), StatusCode: resp.StatusCode, Body: body}
		}
		return resp, nil
	})
}
