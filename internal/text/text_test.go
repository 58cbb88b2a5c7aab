package text_test

import (
	"testing"

	"github.com/relaykit/topicbot/internal/text"
)

func TestParseForward(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		input       string
		wantPrefix  string
		wantContent string
		wantOK      bool
	}{
		{
			name:        "prefix with content",
			input:       "/sky 27.5",
			wantPrefix:  "sky",
			wantContent: "27.5",
			wantOK:      true,
		},
		{
			name:        "uppercase prefix is lowercased",
			input:       "/SKY 27.5",
			wantPrefix:  "sky",
			wantContent: "27.5",
			wantOK:      true,
		},
		{
			name:       "bare prefix",
			input:      "/sky",
			wantPrefix: "sky",
			wantOK:     true,
		},
		{
			name:        "numeric prefix",
			input:       "/1 value",
			wantPrefix:  "1",
			wantContent: "value",
			wantOK:      true,
		},
		{
			name:        "multiword content keeps inner spacing",
			input:       "/lab temp is  21.3  ",
			wantPrefix:  "lab",
			wantContent: "temp is  21.3",
			wantOK:      true,
		},
		{
			name:   "plain text is not a command",
			input:  "hello world",
			wantOK: false,
		},
		{
			name:   "slash alone",
			input:  "/",
			wantOK: false,
		},
		{
			name:   "empty string",
			input:  "",
			wantOK: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			prefix, content, ok := text.ParseForward(tc.input)
			if ok != tc.wantOK {
				t.Fatalf("ParseForward(%q) ok = %v, want %v", tc.input, ok, tc.wantOK)
			}
			if prefix != tc.wantPrefix || content != tc.wantContent {
				t.Errorf("ParseForward(%q) = (%q, %q), want (%q, %q)",
					tc.input, prefix, content, tc.wantPrefix, tc.wantContent)
			}
		})
	}
}

func TestRenderSender(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		template string
		message  string
		sender   text.Sender
		want     string
	}{
		{
			name:     "all fields",
			template: "{message}\nSent by: {sender_name} ({sender_username})",
			message:  "27.5",
			sender:   text.Sender{Name: "Ada Lovelace", Username: "ada", ID: 7},
			want:     "27.5\nSent by: Ada Lovelace (@ada)",
		},
		{
			name:     "missing username",
			template: "{sender_name} {sender_username}",
			message:  "x",
			sender:   text.Sender{Name: "Ada"},
			want:     "Ada no username",
		},
		{
			name:     "missing everything",
			template: "{sender_name}/{sender_id}: {message}",
			message:  "hi",
			sender:   text.Sender{},
			want:     "Unknown/unknown: hi",
		},
		{
			name:     "sender id",
			template: "[{sender_id}] {message}",
			message:  "ping",
			sender:   text.Sender{ID: 1234},
			want:     "[1234] ping",
		},
		{
			name:     "template without placeholders",
			template: "static",
			message:  "ignored",
			sender:   text.Sender{Name: "A"},
			want:     "static",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := text.RenderSender(tc.template, tc.message, tc.sender)
			if got != tc.want {
				t.Errorf("RenderSender() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseTopicSpec(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		want    text.TopicSpec
		wantErr bool
	}{
		{
			name:  "basic",
			input: "1:Sky:289",
			want:  text.TopicSpec{Prefix: "1", Name: "Sky", ThreadID: 289},
		},
		{
			name:  "name with colon",
			input: "ops:Ops: night shift:17",
			want:  text.TopicSpec{Prefix: "ops", Name: "Ops: night shift", ThreadID: 17},
		},
		{
			name:  "leading slash on prefix",
			input: "/lab:Laboratory:42",
			want:  text.TopicSpec{Prefix: "lab", Name: "Laboratory", ThreadID: 42},
		},
		{
			name:  "surrounding whitespace",
			input: "  sky : Sky team : 289 ",
			want:  text.TopicSpec{Prefix: "sky", Name: "Sky team", ThreadID: 289},
		},
		{
			name:    "missing thread id",
			input:   "sky:Sky",
			wantErr: true,
		},
		{
			name:    "non-numeric thread id",
			input:   "sky:Sky:abc",
			wantErr: true,
		},
		{
			name:    "empty name",
			input:   "sky::289",
			wantErr: true,
		},
		{
			name:    "no separators",
			input:   "sky",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := text.ParseTopicSpec(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseTopicSpec(%q) expected error, got %+v", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTopicSpec(%q) failed: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseTopicSpec(%q) = %+v, want %+v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseChatSpec(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		want    text.ChatSpec
		wantErr bool
	}{
		{
			name:  "chat id with name",
			input: "-1001234567890:My chat",
			want:  text.ChatSpec{ChatID: "-1001234567890", Name: "My chat"},
		},
		{
			name:  "bare chat id",
			input: "-1001234567890",
			want:  text.ChatSpec{ChatID: "-1001234567890"},
		},
		{
			name:    "empty input",
			input:   "   ",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := text.ParseChatSpec(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseChatSpec(%q) expected error, got %+v", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseChatSpec(%q) failed: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseChatSpec(%q) = %+v, want %+v", tc.input, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abc", 2, "..."},
	}

	for _, tc := range testCases {
		if got := text.Truncate(tc.input, tc.maxLen); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.input, tc.maxLen, got, tc.want)
		}
	}
}
