package resthttp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	// HeaderKeyRequestID request id header key
	headerKeyRequestID = "X-Request-Id"

	defaultTimeout = 10 * time.Second
)

// Error non 2xx response
type Error struct {
	StatusCode int    `json:"-"`
	Code       int    `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("http %d: code %d: %s", e.StatusCode, e.Code, e.Message)
}

// New resty client against endpoint
func New(endpoint string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return resty.New().
		SetHostURL(strings.TrimSuffix(endpoint, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Charset", "utf-8").
		SetTimeout(timeout)
}

// Request new resty request
func Request(ctx context.Context, client *resty.Client) *resty.Request {
	return client.R().SetContext(ctx)
}

// WithRequestID resty request with request id
func WithRequestID(ctx context.Context, client *resty.Client, requestID string) *resty.Request {
	return Request(ctx, client).SetHeader(headerKeyRequestID, requestID)
}

// Execute do network request
func Execute(request *resty.Request, method, url string, body interface{}, resp interface{}) (int, error) {
	if body != nil {
		request = request.SetBody(body)
	}

	r, err := request.Execute(strings.ToUpper(method), url)
	if err != nil {
		return 0, err
	}

	logrus.Debugf("%s %s: %s", method, url, r.Status())

	return r.StatusCode(), ParseResponse(r, resp)
}

// ParseResponse parse response
func ParseResponse(r *resty.Response, obj interface{}) error {
	// fail
	if !r.IsSuccess() {
		e := &Error{StatusCode: r.StatusCode()}
		if err := json.Unmarshal(r.Body(), e); err != nil || e.Message == "" {
			e.Message = strings.TrimSpace(string(r.Body()))
		}
		return e
	}

	// success
	if obj != nil {
		return json.Unmarshal(r.Body(), obj)
	}

	return nil
}
