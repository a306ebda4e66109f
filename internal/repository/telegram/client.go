package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/NordCoder/Exposerus/internal/domain/notified"
	"github.com/NordCoder/Exposerus/internal/domain/subscriber"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var sendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "telegram_sends_total",
	Help: "Telegram sendMessage calls by result",
}, []string{"result"})

// StartFunc handles a /start command and returns the reply text, if any.
type StartFunc func(ctx context.Context, from subscriber.Subscriber) (string, error)

var _ notified.Sender = (*Client)(nil)

type Client struct {
	b   *bot.Bot
	log *zap.Logger
}

func New(token, serverURL string, log *zap.Logger) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram: empty token")
	}
	if log == nil {
		log = zap.NewNop()
	}
	opts := []bot.Option{bot.WithSkipGetMe()}
	if serverURL != "" {
		opts = append(opts, bot.WithServerURL(serverURL))
	}
	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("telegram: init bot: %w", err)
	}
	return &Client{b: b, log: log.With(zap.String("component", "telegram"))}, nil
}

// Send posts an HTML message. Numeric chat ids go out as integers, @names as strings.
func (c *Client) Send(ctx context.Context, chatID, text string) error {
	params := &bot.SendMessageParams{
		ChatID:    chatRef(chatID),
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if _, err := c.b.SendMessage(ctx, params); err != nil {
		sendsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("telegram sendMessage to %s: %w", chatID, err)
	}
	sendsTotal.WithLabelValues("ok").Inc()
	return nil
}

// OnStart registers h for the /start command.
func (c *Client) OnStart(h StartFunc) {
	c.b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix,
		func(ctx context.Context, _ *bot.Bot, u *models.Update) { c.handleStart(ctx, u, h) })
}

// Start long-polls for updates until ctx is done.
func (c *Client) Start(ctx context.Context) {
	c.log.Info("telegram polling started")
	c.b.Start(ctx)
	c.log.Info("telegram polling stopped")
}

func (c *Client) handleStart(ctx context.Context, u *models.Update, h StartFunc) {
	if u == nil || u.Message == nil || u.Message.From == nil {
		return
	}
	from := toSubscriber(u.Message.From)
	reply, err := h(ctx, from)
	if err != nil {
		c.log.Error("start handler failed", zap.Int64("user_id", from.ID), zap.Error(err))
		return
	}
	if reply == "" {
		return
	}
	if err := c.Send(ctx, strconv.FormatInt(u.Message.Chat.ID, 10), reply); err != nil {
		c.log.Warn("start reply failed", zap.Int64("chat_id", u.Message.Chat.ID), zap.Error(err))
	}
}

func toSubscriber(u *models.User) subscriber.Subscriber {
	return subscriber.Subscriber{
		ID:           u.ID,
		IsBot:        u.IsBot,
		FirstName:    u.FirstName,
		Username:     u.Username,
		LanguageCode: u.LanguageCode,
	}
}

func chatRef(chatID string) any {
	id := strings.TrimSpace(chatID)
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}
