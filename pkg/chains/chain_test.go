package chains_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/easyops/hellochains-go/pkg/chains"
	"github.com/easyops/hellochains-go/pkg/core/llm"
	"github.com/easyops/hellochains-go/pkg/prompt"
)

// echoProvider 回显 user 消息，可在指定调用失败
type echoProvider struct {
	prompts []string
	failAt  int
}

func (p *echoProvider) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	text := req.Messages[len(req.Messages)-1].Content
	p.prompts = append(p.prompts, text)
	if p.failAt > 0 && len(p.prompts) == p.failAt {
		return llm.Response{}, errors.New("provider down")
	}
	return llm.Response{Content: "<" + text + ">"}, nil
}

func (p *echoProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, nil
}
func (p *echoProvider) Name() string  { return "echo" }
func (p *echoProvider) Model() string { return "echo" }
func (p *echoProvider) Close() error  { return nil }

func TestLLMChain_Run(t *testing.T) {
	provider := &echoProvider{}
	out, err := chains.ParagraphChain(provider).Run(context.Background(), map[string]string{"topic": "go"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out != "<Write a short paragraph about go.>" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestLLMChain_MissingVariable(t *testing.T) {
	provider := &echoProvider{}
	_, err := chains.ParagraphChain(provider).Run(context.Background(), map[string]string{})
	if !errors.Is(err, prompt.ErrMissingVariable) {
		t.Errorf("expected ErrMissingVariable, got %v", err)
	}
	if len(provider.prompts) != 0 {
		t.Errorf("provider must not be called")
	}
}

func TestLLMChain_Temperature(t *testing.T) {
	var got *float64
	provider := &recordingProvider{onGenerate: func(req llm.Request) { got = req.Temperature }}
	c := chains.NewLLMChain(prompt.MustTemplate("{x}"), provider).WithTemperature(0.2)
	if _, err := c.Run(context.Background(), map[string]string{"x": "y"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got == nil || *got != 0.2 {
		t.Errorf("expected temperature 0.2, got %v", got)
	}
}

func TestSimpleSequential_FeedsOutputForward(t *testing.T) {
	provider := &echoProvider{}
	seq, err := chains.TitleToParagraph(provider)
	if err != nil {
		t.Fatalf("TitleToParagraph() error = %v", err)
	}

	final, steps, err := seq.Run(context.Background(), chains.DefaultTopic)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	title := "<Generate a creative title for an article about artificial intelligence.>"
	if len(steps) != 2 || steps[0] != title {
		t.Fatalf("unexpected steps %q", steps)
	}
	if want := "<Write the first paragraph of an article with the title: " + title + ">"; final != want {
		t.Errorf("final = %q, want %q", final, want)
	}
	if steps[1] != final {
		t.Errorf("last step must equal final output")
	}
}

func TestSimpleSequential_StopsOnError(t *testing.T) {
	provider := &echoProvider{failAt: 1}
	seq, err := chains.TitleToParagraph(provider)
	if err != nil {
		t.Fatalf("TitleToParagraph() error = %v", err)
	}
	_, steps, err := seq.Run(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "chain step 0") {
		t.Fatalf("expected step 0 error, got %v", err)
	}
	if len(steps) != 0 || len(provider.prompts) != 1 {
		t.Errorf("sequence must stop at the failing step")
	}
}

func TestNewSimpleSequential_Validation(t *testing.T) {
	provider := &echoProvider{}
	two := chains.NewLLMChain(prompt.MustTemplate("{a} and {b}"), provider)
	none := chains.NewLLMChain(prompt.MustTemplate("static"), provider)

	if _, err := chains.NewSimpleSequential([]chains.Chain{two}); !errors.Is(err, chains.ErrNotSingleInput) {
		t.Errorf("expected ErrNotSingleInput for two variables, got %v", err)
	}
	if _, err := chains.NewSimpleSequential([]chains.Chain{none}); !errors.Is(err, chains.ErrNotSingleInput) {
		t.Errorf("expected ErrNotSingleInput for no variables, got %v", err)
	}
	if _, err := chains.NewSimpleSequential(nil); !errors.Is(err, chains.ErrNoChains) {
		t.Errorf("expected ErrNoChains, got %v", err)
	}
}

type recordingProvider struct {
	onGenerate func(llm.Request)
}

func (p *recordingProvider) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	p.onGenerate(req)
	return llm.Response{Content: "ok"}, nil
}

func (p *recordingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, nil
}
func (p *recordingProvider) Name() string  { return "recording" }
func (p *recordingProvider) Model() string { return "recording" }
func (p *recordingProvider) Close() error  { return nil }
