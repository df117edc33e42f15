package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/casedraft/internal/llm"
)

// Client - заглушка провайдера: отдает заготовленный ответ и запоминает вызовы.
type Client struct {
	mu sync.Mutex

	Response     string
	FinishReason string
	Error        error
	Delay        time.Duration
	// Echo - отвечать промптом пользователя вместо Response
	Echo bool

	CallCount   int
	LastRequest llm.Request
	AllCalls    []llm.Request
}

func New() *Client {
	return &Client{
		Response:     "IN THE COURT OF THE CIVIL JUDGE\n\nMock draft.",
		FinishReason: "stop",
	}
}

func (c *Client) WithResponse(response string) *Client {
	c.Response = response
	return c
}

func (c *Client) WithFinishReason(reason string) *Client {
	c.FinishReason = reason
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastRequest = req
	c.AllCalls = append(c.AllCalls, req)
	resp, finish, err, delay, echo := c.Response, c.FinishReason, c.Error, c.Delay, c.Echo
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return nil, err
	}
	if echo {
		resp = req.Prompt
	}

	return &llm.Response{Content: resp, FinishReason: finish}, nil
}

func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CallCount
}

var _ llm.Client = (*Client)(nil)
