package channel

import (
	"strings"
	"unicode/utf8"
)

// TextEvent is an inbound text message from a caller. Identity is the
// channel-assigned numeric identifier and is stable for the caller's
// lifetime.
type TextEvent struct {
	Identity    int64
	DisplayName string
	Text        string
}

// DecisionEvent is a press of one of the approval controls attached to an
// admin prompt. PromptID identifies the prompt message so the adapter can
// replace it with the decision summary.
type DecisionEvent struct {
	Actor    int64
	Target   int64
	Accept   bool
	PromptID int
}

// Outbound is a reply to be delivered through the channel. ReplacePromptID,
// when non-zero, asks the adapter to edit that message in place instead of
// sending a new one.
type Outbound struct {
	To              int64
	Text            string
	Keyboard        Keyboard
	ReplacePromptID int
}

// Keyboard is an optional control block attached to an outbound message.
type Keyboard interface {
	keyboard()
}

// ApprovalKeyboard is the inline accept/reject pair attached to an admin
// approval prompt.
type ApprovalKeyboard struct {
	Target int64
}

func (ApprovalKeyboard) keyboard() {}

// MenuKeyboard is the persistent reply menu shown to admitted callers. One
// label per row.
type MenuKeyboard struct {
	Labels []string
}

func (MenuKeyboard) keyboard() {}

// SummarizeText trims and truncates message text for log output.
func SummarizeText(text string) string {
	value := strings.TrimSpace(text)
	if value == "" {
		return ""
	}
	const limit = 120
	if len(value) <= limit {
		return value
	}
	// Back up to a rune boundary so multi-byte text is never split.
	cut := limit
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut] + "..."
}
