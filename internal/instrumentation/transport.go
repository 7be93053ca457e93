package instrumentation

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// SpanAttrHTTPStatus is the response status code on Google API spans.
const SpanAttrHTTPStatus = "http.response.status_code"

// APIRecorder records Google API calls. *Metrics implements it.
type APIRecorder interface {
	RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration)
}

// GoogleAPITransport opens a google.<service>.<operation> span and records
// google_api_operations_total for every request sent to a Google API.
type GoogleAPITransport struct {
	Base    http.RoundTripper
	Metrics APIRecorder
}

// NewGoogleAPITransport wraps base. A nil base uses http.DefaultTransport.
func NewGoogleAPITransport(base http.RoundTripper, metrics APIRecorder) *GoogleAPITransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &GoogleAPITransport{Base: base, Metrics: metrics}
}

// RoundTrip implements http.RoundTripper.
func (t *GoogleAPITransport) RoundTrip(req *http.Request) (*http.Response, error) {
	service := GoogleService(req)
	operation := GoogleOperation(req)

	ctx, span := StartGoogleAPISpan(req.Context(), service, operation)
	start := time.Now()
	resp, err := t.Base.RoundTrip(req.WithContext(ctx))
	duration := time.Since(start)

	spanErr := err
	if err == nil {
		span.SetAttributes(attribute.Int(SpanAttrHTTPStatus, resp.StatusCode))
		if resp.StatusCode >= http.StatusBadRequest {
			spanErr = fmt.Errorf("google %s %s: %s", service, operation, resp.Status)
		}
	}
	EndSpan(span, spanErr)

	if t.Metrics != nil {
		status := StatusSuccess
		if spanErr != nil {
			status = StatusError
		}
		t.Metrics.RecordGoogleAPIOperation(ctx, service, operation, status, duration)
	}
	return resp, err
}

// GoogleService derives the API name from the request host, or from the
// path when the host is not a googleapis.com service host.
func GoogleService(req *http.Request) string {
	host := req.URL.Hostname()
	if name, ok := strings.CutSuffix(host, ".googleapis.com"); ok && name != "www" && !strings.Contains(name, ".") {
		return name
	}
	path := req.URL.Path
	switch {
	case strings.Contains(path, "/drive/"):
		return ServiceDrive
	case strings.Contains(path, "/gmail/"):
		return ServiceGmail
	case strings.Contains(path, "/documents"):
		return ServiceDocs
	case strings.Contains(path, "/presentations"):
		return ServiceSlides
	case strings.Contains(path, "/people"), strings.Contains(path, "/otherContacts"):
		return ServicePeople
	default:
		return "other"
	}
}

// GoogleOperation classifies the request into one of the Operation constants.
func GoogleOperation(req *http.Request) string {
	path := req.URL.Path
	last := path[strings.LastIndex(path, "/")+1:]

	if req.Method == http.MethodGet || req.Method == http.MethodHead {
		switch {
		case strings.Contains(last, "search") || strings.Contains(last, "Search"):
			return OperationSearch
		case req.URL.Query().Get("alt") == "media",
			strings.HasSuffix(path, "/export"),
			strings.Contains(path, "/attachments/"):
			return OperationDownload
		case last == "messages", last == "files", last == "connections", last == "otherContacts", last == "sendAs":
			return OperationList
		default:
			return OperationGet
		}
	}

	switch {
	case strings.HasSuffix(last, ":batchUpdate"):
		return OperationUpdate
	case last == "send":
		return OperationSend
	case req.Method == http.MethodPost && (last == "documents" || last == "presentations"):
		return OperationCreate
	default:
		return OperationUpdate
	}
}
