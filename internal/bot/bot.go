package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"project-echo/internal/model"
	"project-echo/internal/service"
)

const (
	cbDonePrefix = "done:"
	maxListed    = 30
)

const (
	menuLabelToday  = "📝 Today"
	menuLabelTodos  = "📋 Todos"
	menuLabelReport = "📊 Report"
	menuLabelHelp   = "ℹ️ Help"
)

// sender is the part of the Telegram API the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Services are the application services reachable from chat.
type Services struct {
	Entries  *service.EntryService
	Todos    *service.TodoService
	Reminder *service.ReminderService
	Summary  *service.SummaryService
}

// Bot is a second intake for journal entries and the receiver of the daily
// digest. It only talks to a single configured chat.
type Bot struct {
	api    *tgbotapi.BotAPI
	out    sender
	svc    Services
	chatID int64
	loc    *time.Location
	log    *slog.Logger
	now    func() time.Time
}

func New(token string, chatID int64, svc Services, loc *time.Location, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	b := newBot(api, chatID, svc, loc, log)
	b.api = api
	b.log.Info("bot authorized", slog.String("account", api.Self.UserName))
	return b, nil
}

func newBot(out sender, chatID int64, svc Services, loc *time.Location, log *slog.Logger) *Bot {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Bot{out: out, svc: svc, chatID: chatID, loc: loc, log: log, now: time.Now}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return errors.New("bot has no telegram api")
	}
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		b.handleUpdate(ctx, update)
	}

	return ctx.Err()
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
			b.log.Error("handle callback", slog.Any("err", err))
		}
	case update.Message != nil:
		if update.Message.Chat == nil || update.Message.Chat.ID != b.chatID {
			return
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			b.log.Error("handle message", slog.Any("err", err))
		}
	}
}

// Notify delivers the daily digest to the configured chat.
func (b *Bot) Notify(ctx context.Context, text string) error {
	return b.sendText(b.chatID, text)
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.IsCommand() {
		b.log.Info("command", slog.String("command", msg.Command()), slog.Int64("chat", msg.Chat.ID))
		return b.handleCommand(ctx, msg)
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	// Plain text is a journal entry.
	return b.logEntry(ctx, msg.Chat.ID, msg.Text)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.handleHelp(msg)
	case "log":
		return b.logEntry(ctx, msg.Chat.ID, msg.CommandArguments())
	case "today":
		return b.handleToday(ctx, msg.Chat.ID)
	case "todos":
		return b.handleTodos(ctx, msg.Chat.ID)
	case "done":
		return b.handleDone(ctx, msg)
	case "report":
		return b.handleReport(ctx, msg.Chat.ID)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	name := "there"
	if msg.From != nil && strings.TrimSpace(msg.From.FirstName) != "" {
		name = strings.TrimSpace(msg.From.FirstName)
	}
	text := fmt.Sprintf(
		"👋 Hi, %s!\n<b>I keep your journal and remind you about todos.</b>\n\n"+
			"Send any message and it goes into the journal. More: /help",
		escape(name),
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Usage</b>\n" +
		"• any text or /log &lt;text&gt;: add a journal entry\n" +
		"• a leading #project tags the entry, e.g. /log #echo code review\n" +
		"• /today: today's entries with durations\n" +
		"• /todos: open todos, finish one with its button\n" +
		"• /done &lt;id&gt;: mark a todo finished\n" +
		"• /report: the daily digest right now"
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) logEntry(ctx context.Context, chatID int64, text string) error {
	project, content := parseLogText(text)
	if content == "" {
		return b.sendText(chatID, "An entry needs some text, e.g. /log #echo team sync")
	}
	entry, err := b.svc.Entries.Create(ctx, service.EntryInput{Content: content, Project: project}, b.now())
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not save the entry: %s", escape(err.Error())))
	}
	reply := fmt.Sprintf("✅ Logged at %s", entry.Timestamp.Clock())
	if entry.DurationMinutes != nil {
		reply += fmt.Sprintf(" · %s since the previous entry", service.FormatMinutes(*entry.DurationMinutes))
	}
	return b.sendText(chatID, reply)
}

func (b *Bot) handleToday(ctx context.Context, chatID int64) error {
	today := model.Today(b.now(), b.loc)
	entries, err := b.svc.Entries.ListDay(ctx, today)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not load entries: %s", escape(err.Error())))
	}
	summary, err := b.svc.Summary.DaySummary(ctx, today)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not total the day: %s", escape(err.Error())))
	}
	return b.sendText(chatID, formatDay(today, entries, summary))
}

func (b *Bot) handleTodos(ctx context.Context, chatID int64) error {
	todos, err := b.svc.Todos.ListActive(ctx)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not load todos: %s", escape(err.Error())))
	}
	if len(todos) == 0 {
		return b.sendText(chatID, "🎉 No open todos.")
	}

	today := model.Today(b.now(), b.loc)
	var sb strings.Builder
	sb.WriteString("📋 <b>Open todos</b>\n")
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, todo := range todos {
		if i == maxListed {
			sb.WriteString(fmt.Sprintf("… and %d more\n", len(todos)-maxListed))
			break
		}
		sb.WriteString(formatTodo(todo, today))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("✅ %d · %s", todo.ID, shortTitle(todo.Item, 24)),
				fmt.Sprintf("%s%d", cbDonePrefix, todo.ID),
			),
		))
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err = b.out.Send(msg)
	return err
}

func (b *Bot) handleDone(ctx context.Context, msg *tgbotapi.Message) error {
	id, err := strconv.ParseUint(strings.TrimSpace(msg.CommandArguments()), 10, 64)
	if err != nil || id == 0 {
		return b.sendText(msg.Chat.ID, "Give the todo number, e.g. /done 3")
	}
	return b.finishTodo(ctx, msg.Chat.ID, uint(id))
}

func (b *Bot) finishTodo(ctx context.Context, chatID int64, id uint) error {
	today := model.Today(b.now(), b.loc)
	todo, err := b.svc.Todos.SetStatus(ctx, id, model.TodoFinished, today)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return b.sendText(chatID, fmt.Sprintf("Todo %d not found.", id))
	case err != nil:
		return b.sendText(chatID, fmt.Sprintf("Could not finish the todo: %s", escape(err.Error())))
	}
	return b.sendText(chatID, fmt.Sprintf("🎯 Done: %s", escape(todo.Item)))
}

func (b *Bot) handleReport(ctx context.Context, chatID int64) error {
	text, err := b.svc.Reminder.DailyDigest(ctx, model.Today(b.now(), b.loc))
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not build the digest: %s", escape(err.Error())))
	}
	return b.sendText(chatID, text)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.Message == nil || cb.Message.Chat == nil || cb.Message.Chat.ID != b.chatID {
		return nil
	}
	if _, err := b.out.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warn("callback ack", slog.Any("err", err))
	}
	if !strings.HasPrefix(cb.Data, cbDonePrefix) {
		return nil
	}
	id, err := parseTodoID(cb.Data, cbDonePrefix)
	if err != nil {
		return nil
	}
	return b.finishTodo(ctx, cb.Message.Chat.ID, id)
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	text := strings.TrimSpace(strings.ToLower(msg.Text))
	switch text {
	case strings.ToLower(menuLabelToday):
		return true, b.handleToday(ctx, msg.Chat.ID)
	case strings.ToLower(menuLabelTodos):
		return true, b.handleTodos(ctx, msg.Chat.ID)
	case strings.ToLower(menuLabelReport):
		return true, b.handleReport(ctx, msg.Chat.ID)
	case strings.ToLower(menuLabelHelp):
		return true, b.handleHelp(msg)
	default:
		return false, nil
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.out.Send(msg)
	return err
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelToday),
			tgbotapi.NewKeyboardButton(menuLabelTodos),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelReport),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

// parseLogText splits an optional leading "#project" tag from the entry text.
func parseLogText(text string) (project, content string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "#") {
		return "", text
	}
	end := strings.IndexFunc(text, unicode.IsSpace)
	if end < 0 {
		return strings.TrimPrefix(text, "#"), ""
	}
	return strings.TrimPrefix(text[:end], "#"), strings.TrimSpace(text[end:])
}

func parseTodoID(data, prefix string) (uint, error) {
	raw := strings.TrimPrefix(data, prefix)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse todo id %q: %w", raw, err)
	}
	return uint(id), nil
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(title)
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func escape(s string) string {
	return html.EscapeString(s)
}

func formatDay(day model.Date, entries []model.Entry, summary service.DaySummary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🗓 <b>%s</b>\n", day))
	if len(entries) == 0 {
		sb.WriteString("No entries yet.\n")
		return sb.String()
	}
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%s ", e.Timestamp.Clock()))
		if e.DurationMinutes != nil {
			sb.WriteString(fmt.Sprintf("(+%s) ", service.FormatMinutes(*e.DurationMinutes)))
		}
		if p := e.ProjectLabel(); p != "" {
			sb.WriteString(fmt.Sprintf("<i>#%s</i> ", escape(p)))
		}
		sb.WriteString(escape(e.Content))
		sb.WriteByte('\n')
	}
	if len(summary.Projects) > 0 {
		sb.WriteString("\n⏱ <b>By project</b>\n")
		for _, p := range summary.Projects {
			sb.WriteString(fmt.Sprintf("• %s: %s\n", escape(service.ProjectLabel(p.Project)), service.FormatMinutes(p.Minutes)))
		}
		sb.WriteString(fmt.Sprintf("<b>Total:</b> %s\n", service.FormatMinutes(summary.Total)))
	}
	return sb.String()
}

func formatTodo(todo model.Todo, today model.Date) string {
	icon := "🟢"
	switch {
	case todo.Overdue(today):
		icon = "⚠️"
	case todo.DueDate != nil && todo.DueDate.Equal(today):
		icon = "⏳"
	}
	line := fmt.Sprintf("%s <code>%d</code> %s", icon, todo.ID, escape(todo.Item))
	if todo.Project != "" {
		line += fmt.Sprintf(" <i>(%s)</i>", escape(todo.Project))
	}
	if todo.DueDate != nil {
		line += fmt.Sprintf(" · due %s", todo.DueDate)
	}
	return line + "\n"
}
