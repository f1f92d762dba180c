// Package dispatch routes every inbound channel event: admin decisions go
// to the approval gate, everything else is gated and then fed to the
// per-identity session state machine.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/24kim/Luzbot/internal/cards"
	"github.com/24kim/Luzbot/internal/channel"
	"github.com/24kim/Luzbot/internal/gate"
	"github.com/24kim/Luzbot/internal/providers"
	"github.com/24kim/Luzbot/internal/session"
)

// BinLookup resolves bank identification numbers.
type BinLookup interface {
	Lookup(ctx context.Context, bin string) (providers.BinInfo, error)
}

// IdentitySource produces synthetic person records.
type IdentitySource interface {
	Random(ctx context.Context, gender, nationality string) (providers.Identity, error)
}

// MailProvider provisions disposable mailboxes and reads their messages.
type MailProvider interface {
	Provision(ctx context.Context) (string, error)
	Messages(ctx context.Context, address string) ([]providers.MailMessage, error)
}

const (
	menuBin      = "🔍 BIN lookup"
	menuCards    = "💳 Generate cards"
	menuIdentity = "👤 Generate identity"
	menuMailbox  = "📧 Generate mailbox"

	cancelCommand = "/cancel"
	inboxCommand  = "/inbox"
	startCommand  = "/start"
)

// Dispatcher implements channel.Processor over the gate, the session store
// and the provider adapters.
type Dispatcher struct {
	admin      int64
	gate       *gate.Gate
	sessions   *session.Store
	bins       BinLookup
	identities IdentitySource
	mail       MailProvider
	logger     *slog.Logger
}

func New(log *slog.Logger, admin int64, approvals *gate.Gate, sessions *session.Store, bins BinLookup, identities IdentitySource, mail MailProvider) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		admin:      admin,
		gate:       approvals,
		sessions:   sessions,
		bins:       bins,
		identities: identities,
		mail:       mail,
		logger:     log.With(slog.String("component", "dispatch")),
	}
}

// HandleDecision resolves an approval-control press. Presses by anyone but
// the admin are dropped; a press for an identity that is no longer pending
// is acknowledged without any state change.
func (d *Dispatcher) HandleDecision(ctx context.Context, ev channel.DecisionEvent) ([]channel.Outbound, error) {
	if d.gate == nil {
		return nil, fmt.Errorf("dispatcher not configured")
	}
	eventID := uuid.NewString()
	if ev.Actor != d.admin {
		if d.logger != nil {
			d.logger.Warn("decision from non-admin dropped",
				slog.String("event_id", eventID), slog.Int64("actor", ev.Actor))
		}
		return nil, nil
	}
	res, err := d.gate.Decide(ev.Target, ev.Accept)
	if errors.Is(err, gate.ErrUnknownPending) {
		if d.logger != nil {
			d.logger.Info("stale decision",
				slog.String("event_id", eventID), slog.Int64("target", ev.Target))
		}
		return []channel.Outbound{
			{To: d.admin, Text: "⚠️ That request was already handled."},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	if d.logger != nil {
		d.logger.Info("decision applied",
			slog.String("event_id", eventID),
			slog.Int64("target", res.Target),
			slog.Bool("accepted", res.Accepted))
	}
	if res.Accepted {
		return []channel.Outbound{
			{To: d.admin, Text: fmt.Sprintf("✅ Accepted %s.", res.Name), ReplacePromptID: ev.PromptID},
			{To: res.Target, Text: "🎉 Approved! Pick an action:", Keyboard: menuKeyboard()},
		}, nil
	}
	return []channel.Outbound{
		{To: d.admin, Text: fmt.Sprintf("❌ Rejected %s.", res.Name), ReplacePromptID: ev.PromptID},
		{To: res.Target, Text: "❌ You do not have access to this bot."},
	}, nil
}

// HandleText gates the sender and, if admitted, advances their session.
func (d *Dispatcher) HandleText(ctx context.Context, ev channel.TextEvent) ([]channel.Outbound, error) {
	if d.gate == nil || d.sessions == nil {
		return nil, fmt.Errorf("dispatcher not configured")
	}
	eventID := uuid.NewString()
	if d.logger != nil {
		d.logger.Info("text event",
			slog.String("event_id", eventID),
			slog.Int64("identity", ev.Identity),
			slog.String("text", channel.SummarizeText(ev.Text)))
	}

	switch d.gate.Contact(ev.Identity, ev.DisplayName) {
	case gate.AlreadyAdmin:
		// The admin bypasses gating and uses the same flows as any
		// admitted caller; /start additionally announces admin mode.
		if strings.TrimSpace(ev.Text) == startCommand {
			sess := d.sessions.Get(ev.Identity)
			sess.Lock()
			sess.Reset()
			sess.Unlock()
			return []channel.Outbound{
				{To: d.admin, Text: "🛠 Admin mode active. Approval requests appear here."},
				menuReply(d.admin),
			}, nil
		}
	case gate.PendingSubmitted:
		prompt := fmt.Sprintf("⚠️ New user\n\nID: %d\nName: %s", ev.Identity, ev.DisplayName)
		return []channel.Outbound{
			{To: d.admin, Text: prompt, Keyboard: channel.ApprovalKeyboard{Target: ev.Identity}},
			{To: ev.Identity, Text: "⏳ Awaiting admin approval."},
		}, nil
	}

	sess := d.sessions.Get(ev.Identity)
	sess.Lock()
	defer sess.Unlock()
	return d.advance(ctx, ev, sess), nil
}

// advance applies one inbound text to the caller's session. The session
// lock is held by the caller for the whole transition, provider calls
// included, so events for one identity are strictly serialized.
func (d *Dispatcher) advance(ctx context.Context, ev channel.TextEvent, sess *session.Session) []channel.Outbound {
	text := strings.TrimSpace(ev.Text)

	switch text {
	case cancelCommand:
		sess.Reset()
		return d.withMenu(ev.Identity, channel.Outbound{To: ev.Identity, Text: "Cancelled."})
	case startCommand:
		sess.Reset()
		return []channel.Outbound{menuReply(ev.Identity)}
	case inboxCommand:
		return d.inbox(ctx, ev.Identity, sess)
	}

	switch sess.State() {
	case session.Idle:
		return d.fromIdle(ctx, ev.Identity, text, sess)
	case session.AwaitingBin:
		return d.lookupBin(ctx, ev.Identity, text, sess)
	case session.AwaitingCardSpec:
		return d.generateCards(ev.Identity, text, sess)
	case session.AwaitingIdentitySpec:
		return d.generateIdentity(ctx, ev.Identity, text, sess)
	default:
		sess.Reset()
		return []channel.Outbound{menuReply(ev.Identity)}
	}
}

func (d *Dispatcher) fromIdle(ctx context.Context, identity int64, text string, sess *session.Session) []channel.Outbound {
	switch text {
	case menuBin:
		sess.SetState(session.AwaitingBin)
		return []channel.Outbound{{To: identity, Text: "🔢 Enter a BIN (6+ digits):"}}
	case menuCards:
		sess.SetState(session.AwaitingCardSpec)
		return []channel.Outbound{{To: identity, Text: "💳 Enter prefix and count (e.g. 123456 5):"}}
	case menuIdentity:
		sess.SetState(session.AwaitingIdentitySpec)
		return []channel.Outbound{{To: identity, Text: "🌍 Enter country and gender (e.g. US male):"}}
	case menuMailbox:
		address, err := d.mail.Provision(ctx)
		if err != nil {
			return d.withMenu(identity, channel.Outbound{To: identity, Text: "❌ Mailbox provider unavailable."})
		}
		sess.SetMailbox(address)
		reply := fmt.Sprintf("📧 Disposable mailbox:\n\n%s\n\nUse /inbox to read its messages.", address)
		return d.withMenu(identity, channel.Outbound{To: identity, Text: reply})
	default:
		// No table entry matches: re-offer the menu instead of falling
		// through silently.
		return []channel.Outbound{menuReply(identity)}
	}
}

func (d *Dispatcher) lookupBin(ctx context.Context, identity int64, text string, sess *session.Session) []channel.Outbound {
	if len(text) < 6 || !isDigits(text) {
		return []channel.Outbound{{To: identity, Text: "❌ Invalid BIN. Enter 6+ digits."}}
	}
	info, err := d.bins.Lookup(ctx, text)
	sess.Reset()
	switch {
	case errors.Is(err, providers.ErrNotFound):
		return d.withMenu(identity, channel.Outbound{To: identity, Text: "❌ No record found for that BIN."})
	case err != nil:
		return d.withMenu(identity, channel.Outbound{To: identity, Text: "❌ BIN provider unavailable. Try again later."})
	}
	reply := fmt.Sprintf("🏦 BIN: %s\n📊 Type: %s\n🏛 Bank: %s\n🌍 Country: %s",
		text, orNA(info.Type), orNA(info.Bank), orNA(info.Country))
	return d.withMenu(identity, channel.Outbound{To: identity, Text: reply})
}

func (d *Dispatcher) generateCards(identity int64, text string, sess *session.Session) []channel.Outbound {
	retry := channel.Outbound{To: identity, Text: "❌ Invalid format. Example: 123456 5"}
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return []channel.Outbound{retry}
	}
	prefix := fields[0]
	count, err := strconv.Atoi(fields[1])
	if err != nil || count < 1 || len(prefix) < 6 {
		return []channel.Outbound{retry}
	}
	records, err := cards.Generate(prefix, count)
	if err != nil {
		return []channel.Outbound{retry}
	}
	lines := make([]string, 0, len(records))
	for _, record := range records {
		lines = append(lines, record.String())
	}
	sess.Reset()
	reply := "💳 Generated test cards:\n\n" + strings.Join(lines, "\n")
	return d.withMenu(identity, channel.Outbound{To: identity, Text: reply})
}

func (d *Dispatcher) generateIdentity(ctx context.Context, identity int64, text string, sess *session.Session) []channel.Outbound {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) != 2 {
		return []channel.Outbound{{To: identity, Text: "❌ Invalid format. Example: US male"}}
	}
	country, gender := fields[0], fields[1]
	record, err := d.identities.Random(ctx, gender, country)
	sess.Reset()
	if err != nil {
		return d.withMenu(identity, channel.Outbound{To: identity, Text: "❌ Identity provider unavailable."})
	}
	reply := fmt.Sprintf("👤 Name: %s %s\n📧 Email: %s\n📞 Phone: %s\n🏠 Address: %s, %s",
		record.FirstName, record.LastName, record.Email, record.Phone, record.Street, record.City)
	return d.withMenu(identity, channel.Outbound{To: identity, Text: reply})
}

// inbox is available in any state and never transitions the session.
func (d *Dispatcher) inbox(ctx context.Context, identity int64, sess *session.Session) []channel.Outbound {
	address, err := sess.Mailbox()
	if errors.Is(err, session.ErrNoActiveMailbox) {
		return []channel.Outbound{{To: identity, Text: "❌ No active mailbox. Generate one first."}}
	}
	messages, err := d.mail.Messages(ctx, address)
	if err != nil {
		return []channel.Outbound{{To: identity, Text: "❌ Mailbox provider unavailable."}}
	}
	if len(messages) == 0 {
		return []channel.Outbound{{To: identity, Text: "📭 No messages yet."}}
	}
	parts := make([]string, 0, len(messages))
	for _, message := range messages {
		parts = append(parts, fmt.Sprintf("From: %s\nSubject: %s\n%s", message.From, message.Subject, message.Body))
	}
	return []channel.Outbound{{To: identity, Text: "📨 Inbox:\n\n" + strings.Join(parts, "\n\n")}}
}

// withMenu appends the menu re-render that every return to Idle carries.
func (d *Dispatcher) withMenu(identity int64, reply channel.Outbound) []channel.Outbound {
	return []channel.Outbound{reply, menuReply(identity)}
}

func menuReply(identity int64) channel.Outbound {
	return channel.Outbound{To: identity, Text: "✨ Pick an action:", Keyboard: menuKeyboard()}
}

func menuKeyboard() channel.MenuKeyboard {
	return channel.MenuKeyboard{Labels: []string{menuBin, menuCards, menuIdentity, menuMailbox}}
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return "N/A"
	}
	return value
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
