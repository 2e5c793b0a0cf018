package realtime

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"umate/app/config"

	"github.com/coder/websocket"
	"github.com/samber/do"
)

const maxEventSize = 16 << 20

// Client dials the hosted realtime generator API. One Handle per session.
type Client struct {
	cfg *config.Config
}

func NewClient(di *do.Injector) (*Client, error) {
	return &Client{
		cfg: do.MustInvoke[*config.Config](di),
	}, nil
}

func (c *Client) Dial(ctx context.Context) (*Handle, error) {
	endpoint := fmt.Sprintf("%s?model=%s", c.cfg.Realtime.URL, url.QueryEscape(c.cfg.Realtime.Model))

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.cfg.Realtime.Token)
	header.Set("OpenAI-Beta", "realtime=v1")

	ctx, cancel := context.WithCancel(ctx)

	conn, _, err := websocket.Dial(ctx, endpoint, &websocket.DialOptions{
		HTTPHeader: header,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to dial realtime api: %w", err)
	}

	// audio deltas are large
	conn.SetReadLimit(maxEventSize)

	return &Handle{
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}
