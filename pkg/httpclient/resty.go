package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const userAgent = "portfolio-dashboard/1.0"

// Response is the transport-level result of a request. The decoded body has
// already been written into the caller's result value.
type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) IsSuccess() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// JSONGetter issues GET requests whose body is decoded as JSON.
type JSONGetter interface {
	GetJSON(ctx context.Context, path string, query map[string]string, result interface{}) (*Response, error)
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

type restyClient struct {
	client *resty.Client
}

// New returns a resty backed JSONGetter. Transport errors and 5xx answers are
// retried RetryCount times.
func New(opts Options) JSONGetter {
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= http.StatusInternalServerError
		})

	return &restyClient{client: client}
}

// GetJSON forces JSON decoding since some upstreams label JSON as text/plain.
func (rc *restyClient) GetJSON(ctx context.Context, path string, query map[string]string, result interface{}) (*Response, error) {
	resp, err := rc.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(result).
		ForceContentType("application/json").
		Get(path)
	if resp == nil {
		return &Response{}, err
	}
	return &Response{StatusCode: resp.StatusCode(), Body: resp.Body()}, err
}
