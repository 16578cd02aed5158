package resource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// maxErrorBody bounds how much of a failed response ends up in an error
const maxErrorBody = 512

// Source fetches raw response bodies from a remote data provider
type Source interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// HTTPSource is a read-only JSON HTTP data provider
type HTTPSource struct {
	baseURL string
	client  *http.Client
	log     *logrus.Entry
}

func NewHTTPSource(baseURL string, timeout time.Duration, logger *logrus.Logger) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger.WithField("component", "http-source"),
	}
}

func (s *HTTPSource) BaseURL() string {
	return s.baseURL
}

func (s *HTTPSource) Get(ctx context.Context, path string) ([]byte, error) {
	url := s.baseURL + path
	s.log.Debugf("Requesting %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{
			Kind:   KindNetwork,
			Detail: err.Error(),
			Err:    errors.Wrapf(err, "build request for %s", url),
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warnf("Request to %s failed: %v", url, err)
		return nil, &FetchError{
			Kind:   KindNetwork,
			Detail: err.Error(),
			Err:    errors.Wrapf(err, "GET %s", url),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		s.log.Warnf("GET %s returned status %d", url, resp.StatusCode)
		return nil, &FetchError{
			Kind:       KindHTTPStatus,
			StatusCode: resp.StatusCode,
			Detail:     strings.TrimSpace(fmt.Sprintf("GET %s: %s", url, excerpt)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{
			Kind:   KindNetwork,
			Detail: err.Error(),
			Err:    errors.Wrapf(err, "read body of %s", url),
		}
	}
	return body, nil
}
