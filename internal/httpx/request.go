package httpx

import (
	"context"
	"encoding/json"
	"strings"

	"resty.dev/v3"
)

// Get performs a GET against the client's base URL and returns the raw body
// of a 2xx response. Any other outcome is an *UpstreamError.
func Get(ctx context.Context, c *resty.Client, provider, path string, query map[string]string) ([]byte, error) {
	req := c.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		return nil, TransportError(provider, err)
	}
	body := resp.Bytes()
	if !resp.IsSuccess() {
		return nil, Classify(provider, resp.StatusCode(), ExtractMessage(body))
	}
	return body, nil
}

// GetJSON is Get followed by decoding into out.
func GetJSON(ctx context.Context, c *resty.Client, provider, path string, query map[string]string, out any) error {
	body, err := Get(ctx, c, provider, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return DecodeError(provider, err)
	}
	return nil
}

// errorBody covers the error shapes returned by the supported providers.
type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
	Status  *struct {
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
	Finance *struct {
		Error *describedError `json:"error"`
	} `json:"finance"`
	QuoteResponse *struct {
		Error *describedError `json:"error"`
	} `json:"quoteResponse"`
}

type describedError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Message     string `json:"message"`
}

func (d *describedError) text() string {
	if d == nil {
		return ""
	}
	if d.Description != "" {
		return d.Description
	}
	if d.Message != "" {
		return d.Message
	}
	return d.Code
}

// ExtractMessage pulls the provider's error text out of a response body.
// It returns "" when nothing recognizable is present.
func ExtractMessage(body []byte) string {
	var eb errorBody
	if len(body) == 0 || json.Unmarshal(body, &eb) != nil {
		return ""
	}
	if len(eb.Error) > 0 {
		var s string
		if json.Unmarshal(eb.Error, &s) == nil && strings.TrimSpace(s) != "" {
			return s
		}
		var d describedError
		if json.Unmarshal(eb.Error, &d) == nil && d.text() != "" {
			return d.text()
		}
	}
	if eb.Status != nil && eb.Status.ErrorMessage != "" {
		return eb.Status.ErrorMessage
	}
	if eb.Finance != nil && eb.Finance.Error.text() != "" {
		return eb.Finance.Error.text()
	}
	if eb.QuoteResponse != nil && eb.QuoteResponse.Error.text() != "" {
		return eb.QuoteResponse.Error.text()
	}
	return eb.Message
}
