package notify

import "strings"

// SlackMessage is a chat.postMessage payload using Block Kit.
type SlackMessage struct {
	Channel string  `json:"channel,omitempty"`
	Text    string  `json:"text"`
	Blocks  []Block `json:"blocks"`
}

// Block is a Block Kit layout block. Only the fields used by the builders
// in this package are modelled.
type Block struct {
	Type     string        `json:"type"`
	Text     *TextObject   `json:"text,omitempty"`
	Fields   []*TextObject `json:"fields,omitempty"`
	Elements []*TextObject `json:"elements,omitempty"`
}

// TextObject is a plain_text or mrkdwn text element.
type TextObject struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// Block Kit caps section fields at ten and text at 3000 characters.
const (
	maxSectionFields = 10
	maxTextLength    = 3000
)

func plain(s string) *TextObject {
	return &TextObject{Type: "plain_text", Text: truncate(s, 150), Emoji: true}
}

func markdown(s string) *TextObject {
	return &TextObject{Type: "mrkdwn", Text: truncate(s, maxTextLength)}
}

func headerBlock(s string) Block {
	return Block{Type: "header", Text: plain(s)}
}

func sectionBlock(md string) Block {
	return Block{Type: "section", Text: markdown(md)}
}

func fieldsBlock(fields ...string) Block {
	if len(fields) > maxSectionFields {
		fields = fields[:maxSectionFields]
	}
	b := Block{Type: "section"}
	for _, f := range fields {
		b.Fields = append(b.Fields, markdown(f))
	}
	return b
}

func contextBlock(md ...string) Block {
	b := Block{Type: "context"}
	for _, m := range md {
		b.Elements = append(b.Elements, markdown(m))
	}
	return b
}

func dividerBlock() Block {
	return Block{Type: "divider"}
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}

// mrkdwnEscaper escapes the three characters Slack treats as control sequences.
var mrkdwnEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeMrkdwn(s string) string {
	return mrkdwnEscaper.Replace(s)
}
