package chat_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/easyops/hellochains-go/pkg/chat"
	"github.com/easyops/hellochains-go/pkg/core/llm"
	"github.com/easyops/hellochains-go/pkg/core/message"
	"github.com/easyops/hellochains-go/pkg/memory"
	"github.com/easyops/hellochains-go/pkg/prompt"
)

// scriptedProvider 按顺序返回预设回复并记录请求
type scriptedProvider struct {
	replies  []string
	errAt    int
	err      error
	requests []llm.Request
}

func (p *scriptedProvider) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	p.requests = append(p.requests, req)
	n := len(p.requests)
	if p.err != nil && n == p.errAt {
		return llm.Response{}, p.err
	}
	reply := "reply"
	if n-1 < len(p.replies) {
		reply = p.replies[n-1]
	}
	return llm.Response{Content: reply}, nil
}

func (p *scriptedProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, nil
}
func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "scripted-1" }
func (p *scriptedProvider) Close() error  { return nil }

func TestCharacterChat_ComposesPrompt(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"Elementary.", "Indeed."}}
	persona := prompt.SherlockHolmes()
	c := chat.NewCharacterChat(persona, provider)

	if _, err := c.Chat(context.Background(), "Hello"); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if _, err := c.Chat(context.Background(), "Who are you?"); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	req := provider.requests[1]
	if len(req.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(req.Messages))
	}
	want := []struct {
		role    message.Role
		content string
	}{
		{message.RoleSystem, persona.SystemInstruction()},
		{message.RoleUser, "Hello"},
		{message.RoleAssistant, "Elementary."},
		{message.RoleUser, "Who are you?"},
	}
	for i, w := range want {
		if req.Messages[i].Role != w.role || req.Messages[i].Content != w.content {
			t.Errorf("message %d = %s %q, want %s %q", i, req.Messages[i].Role, req.Messages[i].Content, w.role, w.content)
		}
	}
	if req.Temperature == nil || *req.Temperature != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", req.Temperature)
	}
}

func TestCharacterChat_WindowBound(t *testing.T) {
	provider := &scriptedProvider{}
	c := chat.NewCharacterChat(prompt.TonyStark(), provider, chat.WithMemoryK(3))

	for i := 0; i < 5; i++ {
		if _, err := c.Chat(context.Background(), "msg"); err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
	}

	last := provider.requests[len(provider.requests)-1]
	// system + 3 exchanges + current input
	if len(last.Messages) != 1+6+1 {
		t.Errorf("expected 8 messages, got %d", len(last.Messages))
	}
	if len(c.History()) != 6 {
		t.Errorf("expected 6 history turns, got %d", len(c.History()))
	}
}

func TestCharacterChat_FailureLeavesMemory(t *testing.T) {
	apiErr := errors.New("boom")
	provider := &scriptedProvider{errAt: 2, err: apiErr}
	c := chat.NewCharacterChat(prompt.SherlockHolmes(), provider)

	if _, err := c.Chat(context.Background(), "first"); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	_, err := c.Chat(context.Background(), "second")
	if !errors.Is(err, apiErr) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
	if len(c.History()) != 2 {
		t.Errorf("failed exchange must not be recorded, history = %d", len(c.History()))
	}
}

func TestCharacterChat_PersistsAndResumes(t *testing.T) {
	store, err := memory.NewSQLiteStore(filepath.Join(t.TempDir(), "chat.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	first := chat.NewCharacterChat(prompt.SherlockHolmes(), &scriptedProvider{replies: []string{"A", "B"}},
		chat.WithSession(store, "baker-street"))
	for _, in := range []string{"one", "two"} {
		if _, err := first.Chat(ctx, in); err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
	}

	second := chat.NewCharacterChat(prompt.SherlockHolmes(), &scriptedProvider{},
		chat.WithSession(store, "baker-street"), chat.WithMemoryK(1))
	n, err := second.Resume(ctx)
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 resumed exchange, got %d", n)
	}
	history := second.History()
	if len(history) != 2 || history[0].Content != "two" || history[1].Content != "B" {
		t.Errorf("unexpected history %+v", history)
	}
}

func TestCharacterChat_ResumeWithoutStore(t *testing.T) {
	c := chat.NewCharacterChat(prompt.SherlockHolmes(), &scriptedProvider{})
	n, err := c.Resume(context.Background())
	if err != nil || n != 0 {
		t.Errorf("Resume() = %d, %v", n, err)
	}
}

func TestDriver_Run(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"Good evening.", "At your service."}}
	c := chat.NewCharacterChat(prompt.SherlockHolmes(), provider)

	var out bytes.Buffer
	console := chat.NewConsole(strings.NewReader("Hello\r\nHow are you?\nEXIT\nignored\n"), &out)
	d := chat.NewDriver(c, console)

	n, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 exchanges, got %d", n)
	}
	if d.State() != chat.StateTerminated {
		t.Errorf("expected terminated state, got %s", d.State())
	}
	if len(provider.requests) != 2 {
		t.Errorf("expected 2 provider calls, got %d", len(provider.requests))
	}
	if got := provider.requests[0].Messages[1].Content; got != "Hello" {
		t.Errorf("expected carriage return stripped, got %q", got)
	}

	text := out.String()
	for _, want := range []string{
		"\nSherlock Holmes AI Character Chat\n",
		"Type 'exit' to end the conversation\n",
		strings.Repeat("-", 50),
		"\nYou: ",
		"\nSherlock Holmes: Good evening.\n",
		"\nSherlock Holmes: At your service.\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestDriver_EOFTerminates(t *testing.T) {
	provider := &scriptedProvider{}
	c := chat.NewCharacterChat(prompt.TonyStark(), provider)
	d := chat.NewDriver(c, chat.NewConsole(strings.NewReader("last line without newline"), &bytes.Buffer{}))

	n, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n != 1 {
		t.Errorf("expected final line to be sent, got %d exchanges", n)
	}
}

func TestDriver_ErrorTerminates(t *testing.T) {
	apiErr := errors.New("unauthorized")
	provider := &scriptedProvider{errAt: 1, err: apiErr}
	c := chat.NewCharacterChat(prompt.TonyStark(), provider)
	d := chat.NewDriver(c, chat.NewConsole(strings.NewReader("hi\nagain\n"), &bytes.Buffer{}))

	n, err := d.Run(context.Background())
	if !errors.Is(err, apiErr) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if n != 0 || len(provider.requests) != 1 {
		t.Errorf("loop must stop after failure: exchanges=%d calls=%d", n, len(provider.requests))
	}
}

func TestIsExit(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"exit", true},
		{"Exit", true},
		{"EXIT", true},
		{"exit ", false},
		{"quit", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := chat.IsExit(tt.input); got != tt.want {
			t.Errorf("IsExit(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSelectPersona(t *testing.T) {
	personas := prompt.Builtin()
	var out bytes.Buffer
	console := chat.NewConsole(strings.NewReader("3\nabc\n2\n"), &out)

	p, err := chat.SelectPersona(console, personas)
	if err != nil {
		t.Fatalf("SelectPersona() error = %v", err)
	}
	if p.Name != "Tony Stark" {
		t.Errorf("expected Tony Stark, got %s", p.Name)
	}

	text := out.String()
	if !strings.Contains(text, "Select a character to chat with:\n1. Sherlock Holmes\n2. Tony Stark (Iron Man)\n") {
		t.Errorf("unexpected menu: %q", text)
	}
	if !strings.Contains(text, "2. Tony Stark (Iron Man)\nEnter 1 or 2: ") {
		t.Errorf("choice prompt must follow the menu directly: %q", text)
	}
	if strings.Count(text, "Invalid choice. Please enter 1 or 2.") != 2 {
		t.Errorf("expected two invalid choice notices: %q", text)
	}
}

func TestSelectPersona_SharedConsole(t *testing.T) {
	console := chat.NewConsole(strings.NewReader("1\nexit\n"), &bytes.Buffer{})
	p, err := chat.SelectPersona(console, prompt.Builtin())
	if err != nil {
		t.Fatalf("SelectPersona() error = %v", err)
	}

	provider := &scriptedProvider{}
	d := chat.NewDriver(chat.NewCharacterChat(p, provider), console)
	if _, err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(provider.requests) != 0 {
		t.Errorf("exit after selection must not call the provider")
	}
}

func TestSelectPersona_EOF(t *testing.T) {
	console := chat.NewConsole(strings.NewReader("9\n"), &bytes.Buffer{})
	if _, err := chat.SelectPersona(console, prompt.Builtin()); !errors.Is(err, chat.ErrNoSelection) {
		t.Errorf("expected ErrNoSelection, got %v", err)
	}
}

func TestSelectPersona_Empty(t *testing.T) {
	console := chat.NewConsole(strings.NewReader(""), &bytes.Buffer{})
	if _, err := chat.SelectPersona(console, nil); !errors.Is(err, prompt.ErrNoPersonas) {
		t.Errorf("expected ErrNoPersonas, got %v", err)
	}
}
