// Package clubready talks to the ClubReady API using the API-key,
// form-encoded generation of its contract.
package clubready

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/harryfittheorem/CKOWebsite/internal/domain/entity"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/provider"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/redact"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every outbound call when no timeout is configured
const DefaultTimeout = 20 * time.Second

const (
	formContentType = "application/x-www-form-urlencoded"
	requestIDHeader = "X-Request-Id"
)

// Client implements provider.CRMClient. It holds no credentials; they are
// passed per call because they are loaded per request.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

var _ provider.CRMClient = (*Client)(nil)

// NewClient creates a ClubReady client
func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// outboundCall describes one request before it is sent
type outboundCall struct {
	step      string
	method    string
	endpoint  string
	query     url.Values
	form      url.Values
	sanitized map[string]interface{}
	secrets   []string
}

// do sends the call and fills a CallResult. The returned error is only set
// for transport failures; HTTP status handling is left to the caller.
func (c *Client) do(ctx context.Context, creds entity.ClubReadyCredentials, call outboundCall) (*provider.CallResult, error) {
	target := strings.TrimRight(creds.BaseURL, "/") + call.endpoint
	if len(call.query) > 0 {
		target += "?" + call.query.Encode()
	}

	headers := map[string]string{"Accept": "application/json"}
	var body io.Reader
	if call.form != nil {
		headers["Content-Type"] = formContentType
		body = strings.NewReader(call.form.Encode())
	}

	result := &provider.CallResult{
		Endpoint:       call.endpoint,
		Step:           call.step,
		Method:         call.method,
		URL:            target,
		RequestHeaders: headers,
		RequestBody:    call.sanitized,
		Secrets:        append([]string{creds.APIKey}, call.secrets...),
	}

	httpReq, err := http.NewRequestWithContext(ctx, call.method, target, body)
	if err != nil {
		return result, redactTransportError(err)
	}
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		err = redactTransportError(err)
		result.Duration = time.Since(start)
		c.logger.Error("ClubReadyClient: Request failed",
			zap.String("step", call.step),
			zap.String("endpoint", call.endpoint),
			zap.Duration("duration", result.Duration),
			zap.Error(err))
		return result, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	result.Duration = time.Since(start)
	result.HTTPStatus = resp.StatusCode
	if err != nil {
		c.logger.Error("ClubReadyClient: Failed to read response",
			zap.String("step", call.step),
			zap.Int("status_code", resp.StatusCode),
			zap.Error(err))
		return result, err
	}

	result.ResponseBody = parseBody(respBody)
	result.RequestID = resp.Header.Get(requestIDHeader)
	if result.RequestID == "" {
		result.RequestID = extract(asObject(result.ResponseBody), requestIDExtractors)
	}

	c.logger.Info("ClubReadyClient: Received response",
		zap.String("step", call.step),
		zap.String("endpoint", call.endpoint),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", result.Duration),
		zap.String("request_id", result.RequestID))

	return result, nil
}

// redactTransportError masks credentials in the request URL that net/http
// embeds in its errors. The error is logged and kept in the audit trail.
func redactTransportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = redact.URL(urlErr.URL)
	}
	return err
}

func credentialFields(creds entity.ClubReadyCredentials) url.Values {
	return url.Values{
		"ApiKey":  {creds.APIKey},
		"StoreId": {creds.StoreID},
		"ChainId": {creds.ChainID},
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
