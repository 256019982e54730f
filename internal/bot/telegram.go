package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultTelegramAPI = "https://api.telegram.org"

// pollTimeout is the long-poll window passed to getUpdates.
const pollTimeout = 30 * time.Second

// Telegram is a minimal Bot API client: long-polled updates in, text
// replies out. Only the owner chat is served.
type Telegram struct {
	httpClient *http.Client
	token      string
	chatID     int64
	log        zerolog.Logger

	// BaseURL overrides the Bot API host in tests.
	BaseURL string
}

// NewTelegram builds a client for the given bot token, restricted to
// one chat.
func NewTelegram(token string, chatID int64, log zerolog.Logger) *Telegram {
	return &Telegram{
		httpClient: &http.Client{Timeout: pollTimeout + 15*time.Second},
		token:      token,
		chatID:     chatID,
		log:        log,
		BaseURL:    defaultTelegramAPI,
	}
}

// Notify sends a Markdown message to the owner chat. Satisfies the
// scheduler's notifier.
func (t *Telegram) Notify(ctx context.Context, text string) error {
	return t.send(ctx, t.chatID, text, "Markdown")
}

type update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// Poll long-polls for updates and feeds message texts to handler,
// sending its return value back as the reply. Runs until ctx is done.
func (t *Telegram) Poll(ctx context.Context, handler func(ctx context.Context, text string) string) {
	var offset int64
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		updates, err := t.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			t.log.Error().Err(err).Msg("getUpdates failed")
			time.Sleep(5 * time.Second)
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			if t.chatID != 0 && u.Message.Chat.ID != t.chatID {
				t.log.Warn().Int64("chat_id", u.Message.Chat.ID).Msg("ignoring message from unknown chat")
				continue
			}
			reply := handler(ctx, u.Message.Text)
			if reply == "" {
				continue
			}
			if err := t.send(ctx, u.Message.Chat.ID, reply, parseModeFor(reply)); err != nil {
				t.log.Error().Err(err).Msg("reply failed")
			}
		}
	}
}

// parseModeFor picks HTML for model output, Markdown for replies that
// use backticks or code fences, plain text otherwise.
func parseModeFor(reply string) string {
	if strings.Contains(reply, "<b>") {
		return "HTML"
	}
	if strings.Contains(reply, "`") {
		return "Markdown"
	}
	return ""
}

func (t *Telegram) getUpdates(ctx context.Context, offset int64) ([]update, error) {
	params := url.Values{}
	params.Set("timeout", strconv.Itoa(int(pollTimeout.Seconds())))
	if offset > 0 {
		params.Set("offset", strconv.FormatInt(offset, 10))
	}

	var body struct {
		OK     bool     `json:"ok"`
		Result []update `json:"result"`
	}
	if err := t.call(ctx, "getUpdates", params, &body); err != nil {
		return nil, err
	}
	if !body.OK {
		return nil, fmt.Errorf("getUpdates: api returned ok=false")
	}
	return body.Result, nil
}

func (t *Telegram) send(ctx context.Context, chatID int64, text, parseMode string) error {
	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("text", text)
	if parseMode != "" {
		params.Set("parse_mode", parseMode)
	}

	var body struct {
		OK bool `json:"ok"`
	}
	if err := t.call(ctx, "sendMessage", params, &body); err != nil {
		return err
	}
	if !body.OK {
		return fmt.Errorf("sendMessage: api returned ok=false")
	}
	return nil
}

func (t *Telegram) call(ctx context.Context, method string, params url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", t.BaseURL, t.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", method, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}
