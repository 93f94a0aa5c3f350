package remote

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/smarty/assetmirror/contracts"
)

// HTTPClient is the concrete contracts.HTTPClient, wrapping a plain
// *http.Client: build a request, execute it, inspect the status, hand
// back a typed response. It talks to the CDN's HEAD/GET endpoints
// directly and surfaces the x-goog-hash header the CDN emits.
type HTTPClient struct {
	inner *http.Client
}

// NewHTTPClient builds an HTTPClient with a bounded per-request timeout.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{inner: &http.Client{Timeout: timeout}}
}

func (this *HTTPClient) Head(ctx context.Context, url string) (contracts.Response, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return contracts.Response{}, &contracts.NetworkError{URL: url, Cause: err}
	}

	response, err := this.inner.Do(request)
	if err != nil {
		return contracts.Response{}, &contracts.NetworkError{URL: url, Cause: err}
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return contracts.Response{}, &contracts.StatusError{URL: url, Code: response.StatusCode}
	}

	return toContractResponse(response), nil
}

func (this *HTTPClient) Get(ctx context.Context, url string) (contracts.Response, []byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return contracts.Response{}, nil, &contracts.NetworkError{URL: url, Cause: err}
	}

	response, err := this.inner.Do(request)
	if err != nil {
		return contracts.Response{}, nil, &contracts.NetworkError{URL: url, Cause: err}
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return contracts.Response{}, nil, &contracts.StatusError{URL: url, Code: response.StatusCode}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return contracts.Response{}, nil, &contracts.NetworkError{URL: url, Cause: err}
	}

	return toContractResponse(response), body, nil
}

func toContractResponse(response *http.Response) contracts.Response {
	return contracts.Response{
		StatusCode:    response.StatusCode,
		ContentLength: response.ContentLength,
		GoogHash:      response.Header.Get("x-goog-hash"),
	}
}
