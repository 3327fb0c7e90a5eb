// Package telegram is a thin wrapper over the bot API: send, edit and
// pin a single channel message. It knows nothing about quotes or
// schedules.
package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Client posts to one chat, addressed either by @username or numeric
// id.
type Client struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	channel string
	log     *zap.Logger
}

// New builds a client for the given chat. chat is a channel username
// ("@mychannel") or a numeric id ("-100123...").
func New(token, chat string, log *zap.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	c := &Client{bot: bot, log: log}
	if strings.HasPrefix(chat, "@") {
		c.channel = chat
		return c, nil
	}
	id, err := strconv.ParseInt(chat, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("chat %q is neither @username nor numeric id", chat)
	}
	c.chatID = id
	return c, nil
}

func (c *Client) message(text string) tgbotapi.MessageConfig {
	var msg tgbotapi.MessageConfig
	if c.channel != "" {
		msg = tgbotapi.NewMessageToChannel(c.channel, text)
	} else {
		msg = tgbotapi.NewMessage(c.chatID, text)
	}
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	return msg
}

// Send posts a new message and returns its id.
func (c *Client) Send(text string) (int, error) {
	sent, err := c.bot.Send(c.message(text))
	if err != nil {
		return 0, fmt.Errorf("sending message: %w", err)
	}
	return sent.MessageID, nil
}

// EnsurePinned sends a new message and tries to pin it. A pin failure
// (missing rights, another pin in place) is logged and ignored; the
// message id is still returned.
func (c *Client) EnsurePinned(text string) (int, error) {
	id, err := c.Send(text)
	if err != nil {
		return 0, err
	}
	pin := tgbotapi.PinChatMessageConfig{
		ChatID:              c.chatID,
		ChannelUsername:     c.channel,
		MessageID:           id,
		DisableNotification: true,
	}
	if _, err := c.bot.Request(pin); err != nil {
		c.log.Warn("pin failed", zap.Int("message_id", id), zap.Error(err))
	}
	return id, nil
}

// Edit replaces the text of an existing message. Editing to identical
// content is a no-op, not an error. A deleted message surfaces as an
// error so the caller can re-create it.
func (c *Client) Edit(messageID int, text string) error {
	edit := tgbotapi.EditMessageTextConfig{
		BaseEdit: tgbotapi.BaseEdit{
			ChatID:          c.chatID,
			ChannelUsername: c.channel,
			MessageID:       messageID,
		},
		Text:                  text,
		ParseMode:             tgbotapi.ModeMarkdownV2,
		DisableWebPagePreview: true,
	}
	if _, err := c.bot.Request(edit); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return fmt.Errorf("editing message %d: %w", messageID, err)
	}
	return nil
}
