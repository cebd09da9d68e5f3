package identity

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/cccteam/httpio"
	"github.com/cccteam/logger"
	"github.com/go-playground/errors/v5"
	"go.opentelemetry.io/otel"
)

// Request describes one JSON call to the backend.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   any

	// Token is the bearer credential; empty for anonymous calls.
	Token string
}

// Response is one backend reply with its raw body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the response body into out.
func (r *Response) Decode(out any) error {
	if err := json.Unmarshal(r.Body, out); err != nil {
		return errors.Wrap(err, "json.Unmarshal()")
	}

	return nil
}

// DecodeData unmarshals the datos field of the response envelope into out.
func (r *Response) DecodeData(out any) error {
	env := envelope{}
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return errors.Wrap(err, "json.Unmarshal()")
	}
	if err := json.Unmarshal(env.Datos, out); err != nil {
		return errors.Wrap(err, "json.Unmarshal()")
	}

	return nil
}

// Do issues req and maps the outcome onto the error taxonomy: transport
// failures become a ConnectivityError, a 401 becomes an unauthorized message
// error, any other non-2xx carries the server's parsed payload as a
// ServerError, and a 2xx returns the full response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Client.Do()")
	defer span.End()

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		var nerr net.Error
		timeout := stderrors.As(err, &nerr) && nerr.Timeout() ||
			stderrors.Is(err, context.DeadlineExceeded)

		return nil, &ConnectivityError{err: err, timeout: timeout}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &ConnectivityError{err: err}
	}

	logger.Ctx(ctx).Infof("%s %s -> %d", req.Method, req.Path, httpResp.StatusCode)

	switch {
	case httpResp.StatusCode == http.StatusUnauthorized:
		return nil, httpio.NewUnauthorizedMessage("credential rejected by the backend")
	case successStatus(httpResp.StatusCode):
		return &Response{
			StatusCode: httpResp.StatusCode,
			Header:     httpResp.Header,
			Body:       body,
		}, nil
	default:
		return nil, serverError(httpResp.StatusCode, body)
	}
}

func (c *Client) newHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	u := c.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, errors.Wrap(err, "json.Marshal()")
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "http.NewRequestWithContext()")
	}

	for k, vals := range req.Header {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	return httpReq, nil
}

// successStatus matches the statuses the backend uses for successful calls.
func successStatus(code int) bool {
	switch code {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return true
	default:
		return false
	}
}

func serverError(code int, body []byte) *ServerError {
	env := envelope{}
	if err := json.Unmarshal(body, &env); err != nil {
		return &ServerError{StatusCode: code}
	}

	return &ServerError{
		StatusCode: code,
		Message:    env.Mensaje,
		Data:       env.Datos,
	}
}
