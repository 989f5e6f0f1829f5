package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/hamed0406/capprobe/internal/domain"
)

// HTTPChecker is the outbound "network" probe: one bounded GET.
type HTTPChecker struct {
	URL    string
	Client *http.Client
}

func NewHTTPChecker(url string, timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

func (h *HTTPChecker) Name() string { return "network" }

func (h *HTTPChecker) Execute(ctx context.Context) (domain.Outcome, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return fail("Config", err)
	}

	resp, err := h.Client.Do(req)
	latency := time.Since(start).Seconds() * 1000 // ms
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return domain.Failure(domain.ErrorKindCanceled, err.Error()), nil
		}
		if isTimeout(err) {
			return domain.Failure(domain.ErrorKindTimeout, err.Error()), nil
		}
		return fail("Transport", err)
	}
	defer resp.Body.Close()
	n, _ := io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return domain.Failure("HTTPStatus", resp.Status), nil
	}
	return ok(map[string]string{
		"status_code":   strconv.Itoa(resp.StatusCode),
		"response_size": strconv.FormatInt(n, 10),
		"latency_ms":    fmt.Sprintf("%.1f", latency),
	})
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
