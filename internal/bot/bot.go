// Package bot Telegram-интерфейс матрицы: у каждого чата свой контроллер.
package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"eisenhower-app/internal/logger"
	"eisenhower-app/internal/manager"
	"eisenhower-app/internal/matrix"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Теги в тексте задачи, задающие флаги
const (
	TagUrgent    = "#urgent"
	TagImportant = "#important"
)

const (
	msgUnknownCommand = "Unknown command. Use /help to see the list of commands."
	msgAddUsage       = "Please enter a task title: /add Buy milk #urgent"
	msgDeleteUsage    = "Specify the task number from /list or its id: /delete 1 or /delete id:7"
	msgBusy           = "⏳ The previous operation is still running, try again in a moment."
)

const welcomeText = `🎯 *Eisenhower Matrix*

Tasks are sorted into four quadrants by urgency and importance.

*Commands:*
/add [task] - Add a task
/list - Show the matrix
/delete [number] - Delete a task
/help - Help

*Examples:*
/add Pay rent #urgent #important
/add Read a book #important
/delete 1`

const helpText = `🤖 *Help*

*/start* - Start working with the bot
*/add [task]* - Add a task, tags #urgent and #important set the quadrant
*/list* - Show tasks grouped by quadrant
*/delete [number|id]* - Delete a task by its number from /list or by id, id:7 always means the id
*/help* - Show this help

Any plain message is added as a task.`

var messageCount = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "eisenhower_bot_messages_total",
		Help: "Total number of handled Telegram messages by command",
	},
	[]string{"command"},
)

var sessionEvictions = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "eisenhower_bot_session_evictions_total",
		Help: "Total number of idle chat sessions evicted to respect the session limit",
	},
)

// Sender отправка сообщений; *tgbotapi.BotAPI удовлетворяет интерфейсу
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// MaxSessions сколько контроллеров чатов держится в памяти одновременно
const MaxSessions = 10000

type Bot struct {
	sender Sender
	store  manager.Store

	mu          sync.Mutex
	sessions    map[int64]*session
	maxSessions int
	tick        uint64
}

// session контроллер чата. lastUsed растет с каждым обращением,
// active считает обработчики, которые сейчас работают с контроллером.
type session struct {
	ctrl     *manager.Controller
	lastUsed uint64
	active   int
}

func NewBot(sender Sender, store manager.Store) *Bot {
	return &Bot{
		sender:      sender,
		store:       store,
		sessions:    make(map[int64]*session),
		maxSessions: MaxSessions,
	}
}

// Run обрабатывает обновления до закрытия канала или отмены контекста
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	logger.Info(ctx, "Бот запущен и слушает сообщения...")

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer wg.Done()
				b.HandleMessage(ctx, msg)
			}(update.Message)
		}
	}
}

func (b *Bot) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	var user string
	if msg.From != nil {
		user = msg.From.UserName
	}
	logger.Info(ctx, "Получено сообщение", "user", user, "text", msg.Text)

	if msg.IsCommand() {
		b.handleCommand(ctx, msg.Chat.ID, msg.Command(), msg.CommandArguments())
		return
	}

	// Обычный текст добавляется как задача
	if strings.TrimSpace(msg.Text) != "" {
		messageCount.WithLabelValues("text").Inc()
		b.addTask(ctx, msg.Chat.ID, msg.Text)
	}
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, command, args string) {
	switch command {
	case "start", "add", "list", "delete", "help":
		messageCount.WithLabelValues(command).Inc()
	default:
		messageCount.WithLabelValues("unknown").Inc()
	}

	switch command {
	case "start":
		b.sendMarkdown(chatID, welcomeText)
	case "help":
		b.sendMarkdown(chatID, helpText)
	case "add":
		if strings.TrimSpace(args) == "" {
			b.send(chatID, msgAddUsage)
			return
		}
		b.addTask(ctx, chatID, args)
	case "list":
		b.listTasks(ctx, chatID)
	case "delete":
		b.deleteTask(ctx, chatID, args)
	default:
		b.send(chatID, msgUnknownCommand)
	}
}

// session возвращает контроллер чата, создавая его при первом обращении.
// release нужно вызвать по окончании работы с контроллером.
// Задачи живут в хранилище, поэтому вытесненный чат просто получит новый
// контроллер и перечитает список.
func (b *Bot) session(chatID int64) (ctrl *manager.Controller, release func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tick++
	s, ok := b.sessions[chatID]
	if !ok {
		b.evict()
		s = &session{ctrl: manager.NewController(b.store)}
		b.sessions[chatID] = s
	}
	s.lastUsed = b.tick
	s.active++

	return s.ctrl, func() {
		b.mu.Lock()
		s.active--
		b.mu.Unlock()
	}
}

// evict освобождает место под новый чат, удаляя давно не использованные
// простаивающие сессии. Занятые сессии не трогаются, даже если лимит превышен.
// Вызывать под b.mu.
func (b *Bot) evict() {
	for len(b.sessions) >= b.maxSessions {
		var (
			oldest int64
			found  bool
		)
		for id, s := range b.sessions {
			if s.active > 0 {
				continue
			}
			if !found || s.lastUsed < b.sessions[oldest].lastUsed {
				oldest, found = id, true
			}
		}
		if !found {
			return
		}
		delete(b.sessions, oldest)
		sessionEvictions.Inc()
	}
}

func (b *Bot) addTask(ctx context.Context, chatID int64, text string) {
	title, urgent, important := ParseTask(text)
	if title == "" {
		b.send(chatID, msgAddUsage)
		return
	}

	ctrl, release := b.session(chatID)
	defer release()
	task, err := ctrl.CreateTask(ctx, title, urgent, important)
	if err != nil {
		b.reportError(ctx, chatID, ctrl, err)
		return
	}
	ctrl.Dismiss()

	b.send(chatID, fmt.Sprintf("✅ %s\n\nID: %s\nTask: %s\nQuadrant: %s",
		manager.MsgAdded, task.ID, matrix.NormalizeTitle(task.Title), matrix.Of(task)))
}

func (b *Bot) listTasks(ctx context.Context, chatID int64) {
	ctrl, release := b.session(chatID)
	defer release()
	if err := ctrl.Load(ctx); err != nil {
		b.reportError(ctx, chatID, ctrl, err)
		return
	}

	st := ctrl.Snapshot()
	if st.Matrix.Len() == 0 {
		b.send(chatID, "📭 No tasks yet")
		return
	}

	var buf bytes.Buffer
	buf.WriteString("📋 Your tasks:\n")
	matrix.Fprint(&buf, st.Matrix)
	b.send(chatID, buf.String())
}

func (b *Bot) deleteTask(ctx context.Context, chatID int64, args string) {
	if strings.TrimSpace(args) == "" {
		b.send(chatID, msgDeleteUsage)
		return
	}

	ctrl, release := b.session(chatID)
	defer release()
	// Номера считаются по свежему списку, как в /list
	if err := ctrl.Load(ctx); err != nil {
		b.reportError(ctx, chatID, ctrl, err)
		return
	}

	id, err := ctrl.Snapshot().Matrix.Resolve(args)
	if err != nil {
		b.send(chatID, msgDeleteUsage)
		return
	}

	if err := ctrl.DeleteTask(ctx, id); err != nil {
		b.reportError(ctx, chatID, ctrl, err)
		return
	}
	ctrl.Dismiss()

	b.send(chatID, fmt.Sprintf("🗑 %s: %s", manager.MsgDeleted, id))
}

// reportError отправляет уведомление контроллера и сбрасывает его
func (b *Bot) reportError(ctx context.Context, chatID int64, ctrl *manager.Controller, err error) {
	if errors.Is(err, manager.ErrBusy) {
		b.send(chatID, msgBusy)
		return
	}

	text := err.Error()
	if n := ctrl.Snapshot().Notification; n != nil {
		text = n.Text
	}
	ctrl.Dismiss()

	logger.Warn(ctx, "Операция не выполнена", "chat", chatID, "error", err)
	b.send(chatID, "❌ "+text)
}

// ParseTask выделяет из текста теги #urgent и #important, остальное заголовок
func ParseTask(text string) (title string, urgent, important bool) {
	var words []string
	for _, word := range strings.Fields(text) {
		switch strings.ToLower(word) {
		case TagUrgent:
			urgent = true
		case TagImportant:
			important = true
		default:
			words = append(words, word)
		}
	}
	return strings.Join(words, " "), urgent, important
}

func (b *Bot) send(chatID int64, text string) {
	b.deliver(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	b.deliver(msg)
}

func (b *Bot) deliver(msg tgbotapi.MessageConfig) {
	if _, err := b.sender.Send(msg); err != nil {
		logger.Error(context.Background(), err, "Ошибка отправки сообщения", "chat", msg.ChatID)
	}
}
