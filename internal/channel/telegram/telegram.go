package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/24kim/Luzbot/internal/channel"
)

// Adapter drives a Telegram bot over long polling. Text messages become
// channel.TextEvent; presses of the approval controls become
// channel.DecisionEvent.
type Adapter struct {
	bot    *tgbotapi.BotAPI
	logger *slog.Logger
}

func New(token string, log *slog.Logger) (*Adapter, error) {
	if log == nil {
		log = slog.Default()
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Adapter{
		bot:    bot,
		logger: log.With(slog.String("adapter", "telegram")),
	}, nil
}

// Username reports the bot account name, for startup logging.
func (a *Adapter) Username() string {
	return a.bot.Self.UserName
}

func (a *Adapter) Start(ctx context.Context, processor channel.Processor) error {
	if processor == nil {
		return fmt.Errorf("processor is required")
	}
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := a.bot.GetUpdatesChan(updateConfig)

	if a.logger != nil {
		a.logger.Info("start", slog.String("account", a.bot.Self.UserName))
	}
	for {
		select {
		case <-ctx.Done():
			if a.logger != nil {
				a.logger.Info("stop")
			}
			a.bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				if a.logger != nil {
					a.logger.Info("updates channel closed")
				}
				return nil
			}
			switch {
			case update.CallbackQuery != nil:
				go a.handleCallback(ctx, processor, update.CallbackQuery)
			case update.Message != nil:
				go a.handleMessage(ctx, processor, update.Message)
			}
		}
	}
}

func (a *Adapter) handleMessage(ctx context.Context, processor channel.Processor, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}
	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}
	ev := channel.TextEvent{
		Identity:    message.From.ID,
		DisplayName: displayName(message.From),
		Text:        text,
	}
	if a.logger != nil {
		a.logger.Info("inbound text",
			slog.Int64("identity", ev.Identity),
			slog.String("text", channel.SummarizeText(ev.Text)))
	}
	replies, err := processor.HandleText(ctx, ev)
	if err != nil && a.logger != nil {
		a.logger.Error("handle text failed", slog.Int64("identity", ev.Identity), slog.Any("error", err))
	}
	a.deliver(ctx, replies)
}

func (a *Adapter) handleCallback(ctx context.Context, processor channel.Processor, callback *tgbotapi.CallbackQuery) {
	if callback.From == nil {
		return
	}
	// Ack first so the client stops the spinner even if the press is stale.
	if _, err := a.bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil && a.logger != nil {
		a.logger.Warn("callback ack failed", slog.Any("error", err))
	}
	target, accept, ok := parseDecisionData(callback.Data)
	if !ok {
		if a.logger != nil {
			a.logger.Warn("unknown callback data", slog.String("data", channel.SummarizeText(callback.Data)))
		}
		return
	}
	ev := channel.DecisionEvent{
		Actor:  callback.From.ID,
		Target: target,
		Accept: accept,
	}
	if callback.Message != nil {
		ev.PromptID = callback.Message.MessageID
	}
	if a.logger != nil {
		a.logger.Info("inbound decision",
			slog.Int64("actor", ev.Actor),
			slog.Int64("target", ev.Target),
			slog.Bool("accept", ev.Accept))
	}
	replies, err := processor.HandleDecision(ctx, ev)
	if err != nil && a.logger != nil {
		a.logger.Error("handle decision failed", slog.Int64("actor", ev.Actor), slog.Any("error", err))
	}
	a.deliver(ctx, replies)
}

func (a *Adapter) deliver(ctx context.Context, replies []channel.Outbound) {
	for _, out := range replies {
		if err := a.Send(ctx, out); err != nil && a.logger != nil {
			a.logger.Error("send failed", slog.Int64("to", out.To), slog.Any("error", err))
		}
	}
}

func (a *Adapter) Send(_ context.Context, out channel.Outbound) error {
	text := strings.TrimSpace(out.Text)
	if text == "" {
		return fmt.Errorf("message is required")
	}
	if out.To == 0 {
		return fmt.Errorf("target is required")
	}
	if out.ReplacePromptID != 0 {
		edit := tgbotapi.NewEditMessageText(out.To, out.ReplacePromptID, text)
		_, err := a.bot.Send(edit)
		return err
	}
	message := tgbotapi.NewMessage(out.To, text)
	if markup := renderKeyboard(out.Keyboard); markup != nil {
		message.ReplyMarkup = markup
	}
	_, err := a.bot.Send(message)
	return err
}

func renderKeyboard(keyboard channel.Keyboard) interface{} {
	switch kb := keyboard.(type) {
	case channel.ApprovalKeyboard:
		row := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("✅ Accept", fmt.Sprintf("accept_%d", kb.Target)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", fmt.Sprintf("reject_%d", kb.Target)),
		}
		return tgbotapi.NewInlineKeyboardMarkup(row)
	case channel.MenuKeyboard:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(kb.Labels))
		for _, label := range kb.Labels {
			rows = append(rows, []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(label)})
		}
		markup := tgbotapi.NewReplyKeyboard(rows...)
		markup.ResizeKeyboard = true
		return markup
	default:
		return nil
	}
}

func parseDecisionData(data string) (int64, bool, bool) {
	action, rawID, found := strings.Cut(strings.TrimSpace(data), "_")
	if !found {
		return 0, false, false
	}
	var accept bool
	switch action {
	case "accept":
		accept = true
	case "reject":
		accept = false
	default:
		return 0, false, false
	}
	target, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return 0, false, false
	}
	return target, accept, true
}

func displayName(user *tgbotapi.User) string {
	name := strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName))
	if name != "" {
		return name
	}
	if user.UserName != "" {
		return "@" + user.UserName
	}
	return strconv.FormatInt(user.ID, 10)
}
