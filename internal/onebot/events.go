package onebot

import (
	"github.com/wsu2059q/ghpreview/internal/bot"
	"github.com/wsu2059q/ghpreview/internal/dispatch"
)

// wireEvent is the OneBot v12 event subset the bot consumes. Action
// responses arrive on the same stream without a type field and are skipped.
type wireEvent struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	DetailType string `json:"detail_type"`
	AltMessage string `json:"alt_message"`
	UserID     string `json:"user_id"`
	GroupID    string `json:"group_id"`
	Self       struct {
		Platform string `json:"platform"`
	} `json:"self"`
}

// mapEvent converts a wire event into the handler's event shape. The
// platform is the adapter registry key the reply routes through, so the
// configured name wins over the per-event platform when both are set.
func mapEvent(we wireEvent, configured string) bot.Event {
	platform := configured
	if platform == "" {
		platform = we.Self.Platform
	}

	detail := dispatch.Detail{Kind: dispatch.DetailGroup, ID: we.GroupID}
	if we.DetailType == "private" {
		detail = dispatch.Detail{Kind: dispatch.DetailDirect, ID: we.UserID}
	}

	return bot.Event{
		Type:     we.Type,
		Platform: platform,
		Detail:   detail,
		Text:     we.AltMessage,
	}
}

// messageSegment is a OneBot v12 message segment. Only text segments are
// produced.
type messageSegment struct {
	Type string      `json:"type"`
	Data segmentData `json:"data"`
}

type segmentData struct {
	Text string `json:"text"`
}

// actionRequest is a OneBot v12 action frame.
type actionRequest struct {
	Action string       `json:"action"`
	Params actionParams `json:"params"`
	Echo   string       `json:"echo,omitempty"`
}

type actionParams struct {
	DetailType string           `json:"detail_type"`
	UserID     string           `json:"user_id,omitempty"`
	GroupID    string           `json:"group_id,omitempty"`
	Message    []messageSegment `json:"message"`
}

// buildSendAction assembles the send_message action for one conversation.
func buildSendAction(detail dispatch.Detail, content string) actionRequest {
	params := actionParams{
		Message: []messageSegment{{Type: "text", Data: segmentData{Text: content}}},
	}
	if detail.Kind == dispatch.DetailDirect {
		params.DetailType = "private"
		params.UserID = detail.ID
	} else {
		params.DetailType = "group"
		params.GroupID = detail.ID
	}

	return actionRequest{
		Action: "send_message",
		Params: params,
	}
}
