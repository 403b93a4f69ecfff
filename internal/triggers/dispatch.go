package triggers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/dhima/event-trigger-service/internal/models"
)

// requestBuilder constructs the outbound request for one HTTP method.
type requestBuilder func(ctx context.Context, url string, payload *string) (*http.Request, error)

// requestBuilders is the full set of methods an event may be triggered with.
var requestBuilders = map[models.HTTPMethod]requestBuilder{
	models.MethodGet:    withoutBody(http.MethodGet),
	models.MethodDelete: withoutBody(http.MethodDelete),
	models.MethodPost:   withJSONBody(http.MethodPost),
	models.MethodPut:    withJSONBody(http.MethodPut),
}

func withoutBody(method string) requestBuilder {
	return func(ctx context.Context, url string, _ *string) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, method, url, nil)
	}
}

// withJSONBody sends the stored payload verbatim. A nil payload sends an empty body.
func withJSONBody(method string) requestBuilder {
	return func(ctx context.Context, url string, payload *string) (*http.Request, error) {
		var body io.Reader = http.NoBody
		if payload != nil {
			body = strings.NewReader(*payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}
}
