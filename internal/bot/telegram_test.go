package bot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestTelegramNotify(t *testing.T) {
	var gotPath, gotText, gotChat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		r.ParseForm()
		gotText = r.FormValue("text")
		gotChat = r.FormValue("chat_id")
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	tg := NewTelegram("secret", 42, zerolog.Nop())
	tg.BaseURL = srv.URL

	if err := tg.Notify(context.Background(), "hello"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if gotPath != "/botsecret/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotText != "hello" || gotChat != "42" {
		t.Errorf("text = %q chat = %q", gotText, gotChat)
	}
}

func TestTelegramPollRepliesAndFiltersChats(t *testing.T) {
	var sent []string
	first := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		switch {
		case r.URL.Path == "/bottok/getUpdates" && first:
			first = false
			fmt.Fprint(w, `{"ok":true,"result":[
				{"update_id":1,"message":{"text":"/today","chat":{"id":42}}},
				{"update_id":2,"message":{"text":"spy","chat":{"id":99}}}]}`)
		case r.URL.Path == "/bottok/getUpdates":
			fmt.Fprint(w, `{"ok":true,"result":[]}`)
		default:
			sent = append(sent, r.FormValue("text"))
			fmt.Fprint(w, `{"ok":true}`)
		}
	}))
	defer srv.Close()

	tg := NewTelegram("tok", 42, zerolog.Nop())
	tg.BaseURL = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	tg.Poll(ctx, func(_ context.Context, text string) string {
		defer cancel()
		return "reply to " + text
	})

	if len(sent) != 1 || sent[0] != "reply to /today" {
		t.Errorf("sent = %v, want one reply for the owner chat only", sent)
	}
}

func TestParseModeFor(t *testing.T) {
	tests := []struct {
		reply string
		want  string
	}{
		{"<b>Tóm tắt</b>", "HTML"},
		{"```\ncode\n```", "Markdown"},
		{"plain text", ""},
	}
	for _, tt := range tests {
		if got := parseModeFor(tt.reply); got != tt.want {
			t.Errorf("parseModeFor(%q) = %q, want %q", tt.reply, got, tt.want)
		}
	}
}
