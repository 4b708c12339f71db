package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// httpStatusError is returned for non-2xx answers
type httpStatusError struct {
	URL    string
	Status int
	Body   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("HTTP error %d from %s: %s", e.Status, e.URL, e.Body)
}

// get performs a GET request with the browser user agent the provider expects
// The caller owns the response body.
func get(ctx context.Context, client *http.Client, log zerolog.Logger, userAgent, addr string) (*http.Response, error) {
	start := time.Now()
	log.Debug().Msgf("Starting request to %s", addr)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		log.Debug().Msgf("Request to %s failed after %v: %v", addr, time.Since(start), err)
		return nil, fmt.Errorf("request failed: %w", err)
	}

	log.Debug().Msgf("Request to %s completed in %v with status %d", addr, time.Since(start), resp.StatusCode)
	return resp, nil
}

// readError drains the body into an httpStatusError
func readError(resp *http.Response) error {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &httpStatusError{URL: resp.Request.URL.Path, Status: resp.StatusCode, Body: string(body)}
}
