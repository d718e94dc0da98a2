package onebot

import (
	"context"

	"github.com/wsu2059q/ghpreview/internal/dispatch"
	"github.com/wsu2059q/ghpreview/internal/render"
)

// Sender returns the delivery sender for one conversation. OneBot message
// segments carry plain text only, so that is the sole declared capability.
func (c *Client) Sender(detail dispatch.Detail) dispatch.Sender {
	return &sender{client: c, detail: detail}
}

type sender struct {
	client *Client
	detail dispatch.Detail
}

func (s *sender) Formats() []render.Format {
	return []render.Format{render.FormatText}
}

func (s *sender) Send(ctx context.Context, format render.Format, content string) error {
	return s.client.send(ctx, buildSendAction(s.detail, content))
}
