package core

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/smarty/assetmirror/contracts"
)

// DefaultMaxRetry is the retry budget R used when NewRetryClient is given a
// negative maxRetry. A maxRetry of zero means a single attempt, no retries.
const DefaultMaxRetry = 3

// initialBackoff is the sleep before the first retry; each subsequent
// retry doubles it.
const initialBackoff = 500 * time.Millisecond

// RetryClient wraps an HTTPClient with the bounded-retry, exponential
// back-off policy of §4.1. A transport-level failure or 5xx status is
// retried up to maxRetry times; a 4xx status is returned immediately,
// since retrying it cannot succeed.
type RetryClient struct {
	inner    contracts.HTTPClient
	maxRetry int
	sleep    func(time.Duration)
}

func NewRetryClient(inner contracts.HTTPClient, maxRetry int, sleep func(time.Duration)) *RetryClient {
	if maxRetry < 0 {
		maxRetry = DefaultMaxRetry
	}
	if sleep == nil {
		sleep = time.Sleep
	}
	return &RetryClient{inner: inner, maxRetry: maxRetry, sleep: sleep}
}

func (this *RetryClient) Head(ctx context.Context, url string) (response contracts.Response, err error) {
	backoff := initialBackoff
	for attempt := 0; attempt <= this.maxRetry; attempt++ {
		response, err = this.inner.Head(ctx, url)
		if err == nil {
			return response, nil
		}
		if !retryable(err) {
			return contracts.Response{}, err
		}
		if attempt < this.maxRetry {
			log.Printf("[WARN] HEAD %s failed, retry imminent: %v", url, err)
			this.sleep(backoff)
			backoff *= 2
		}
	}
	return contracts.Response{}, &contracts.NetworkError{URL: url, Cause: err}
}

func (this *RetryClient) Get(ctx context.Context, url string) (response contracts.Response, body []byte, err error) {
	backoff := initialBackoff
	for attempt := 0; attempt <= this.maxRetry; attempt++ {
		response, body, err = this.inner.Get(ctx, url)
		if err == nil {
			return response, body, nil
		}
		if !retryable(err) {
			return contracts.Response{}, nil, err
		}
		if attempt < this.maxRetry {
			log.Printf("[WARN] GET %s failed, retry imminent: %v", url, err)
			this.sleep(backoff)
			backoff *= 2
		}
	}
	return contracts.Response{}, nil, &contracts.NetworkError{URL: url, Cause: err}
}

// retryable reports whether err looks like a transient transport failure
// rather than a non-retryable 4xx response. Callers that construct their
// own HTTPClient are expected to surface 4xx as a distinguishable error
// (contracts.StatusError) so it is never retried.
func retryable(err error) bool {
	var status *contracts.StatusError
	if errors.As(err, &status) {
		return status.Code >= 500
	}
	return true
}
