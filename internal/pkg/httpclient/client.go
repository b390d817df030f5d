// internal/pkg/httpclient/client.go
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	// 连接超时必须短于整体超时：连接都建立不了时应尽快把机会留给重试
	defaultConnectTimeout = 2 * time.Second
	defaultRequestTimeout = 5 * time.Second
)

// StatusError 表示对端返回了非 2xx 状态码。
// 调用方可以据此区分 "网络不可达" 与 "对端明确拒绝"。
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("service %s returned status %d", e.URL, e.Code)
}

// Client 是一个可追踪的、可注入的 HTTP JSON 客户端。
type Client struct {
	Tracer         trace.Tracer
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

// NewClient 创建一个新的客户端实例。
// 不在 http.Client 上设置 Timeout，整体超时由每次请求的 context 控制。
func NewClient(tracer trace.Tracer) *Client {
	httpClient := &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: defaultConnectTimeout,
			}).DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
	}
	return &Client{
		Tracer:         tracer,
		HTTPClient:     httpClient,
		RequestTimeout: defaultRequestTimeout,
	}
}

// PostJSON 向 serviceURL 发送 JSON 请求体，并把响应解码到 out（out 可为 nil）。
// 追踪上下文注入请求头，跨服务链路在 Jaeger 中连成一条。
func (c *Client) PostJSON(ctx context.Context, serviceURL string, body interface{}, out interface{}) error {
	parsedURL, err := url.Parse(serviceURL)
	if err != nil {
		return err
	}
	spanName := fmt.Sprintf("call-%s", strings.Split(parsedURL.Host, ":")[0])

	ctx, span := c.Tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.RequestTimeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		span.RecordError(err)
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serviceURL, bytes.NewReader(payload))
	if err != nil {
		span.RecordError(err)
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	span.SetAttributes(
		attribute.String("http.url", serviceURL),
		attribute.String("http.method", http.MethodPost),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Code: resp.StatusCode, URL: serviceURL}
		span.RecordError(statusErr)
		span.SetStatus(codes.Error, statusErr.Error())
		return statusErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			span.RecordError(err)
			return err
		}
	}
	return nil
}
