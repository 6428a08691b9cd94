package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/easyops/hellochains-go/pkg/core/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	if cfg.Chat.MemoryK != 3 {
		t.Errorf("expected memory_k 3, got %d", cfg.Chat.MemoryK)
	}
	if cfg.Chat.Temperature != 0.7 {
		t.Errorf("expected chat temperature 0.7, got %v", cfg.Chat.Temperature)
	}
	if cfg.Agent.MaxIterations != 10 {
		t.Errorf("expected max_iterations 10, got %d", cfg.Agent.MaxIterations)
	}
	if cfg.Agent.Temperature != 0 {
		t.Errorf("expected agent temperature 0, got %v", cfg.Agent.Temperature)
	}
	if cfg.RAG.ChunkSize != 200 || cfg.RAG.ChunkOverlap != 20 || cfg.RAG.Separator != "\n" || cfg.RAG.TopK != 2 {
		t.Errorf("unexpected rag defaults: %+v", cfg.RAG)
	}
	if cfg.LLM.Timeout != 60*time.Second {
		t.Errorf("expected llm timeout 60s, got %v", cfg.LLM.Timeout)
	}
	if cfg.LLM.Provider != "" {
		t.Errorf("expected empty provider, got %q", cfg.LLM.Provider)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HELLOCHAINS_LLM_API_KEY", "sk-test")
	t.Setenv("HELLOCHAINS_LLM_PROVIDER", "anthropic")
	t.Setenv("HELLOCHAINS_CHAT_MEMORY_K", "0")
	t.Setenv("HELLOCHAINS_RAG_TOP_K", "4")
	t.Setenv("HELLOCHAINS_LLM_TIMEOUT", "15s")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("expected api key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Provider != config.ProviderAnthropic {
		t.Errorf("expected anthropic, got %q", cfg.LLM.Provider)
	}
	if cfg.Chat.MemoryK != 0 {
		t.Errorf("expected memory_k 0 from env, got %d", cfg.Chat.MemoryK)
	}
	if cfg.RAG.TopK != 4 {
		t.Errorf("expected top_k 4, got %d", cfg.RAG.TopK)
	}
	if cfg.LLM.Timeout != 15*time.Second {
		t.Errorf("expected timeout 15s, got %v", cfg.LLM.Timeout)
	}
}

func TestLoad_InvalidProvider(t *testing.T) {
	t.Setenv("HELLOCHAINS_LLM_PROVIDER", "nope")

	_, err := config.Load("")
	if !errors.Is(err, config.ErrInvalidProvider) {
		t.Fatalf("expected ErrInvalidProvider, got %v", err)
	}
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "HELLOCHAINS_TEST_DOTENV_KEY=from-file\nHELLOCHAINS_TEST_DOTENV_KEEP=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("HELLOCHAINS_TEST_DOTENV_KEEP", "from-env")
	t.Cleanup(func() { os.Unsetenv("HELLOCHAINS_TEST_DOTENV_KEY") })

	if err := config.NewLoader().LoadDotenv(path); err != nil {
		t.Fatalf("LoadDotenv failed: %v", err)
	}
	if got := os.Getenv("HELLOCHAINS_TEST_DOTENV_KEY"); got != "from-file" {
		t.Errorf("expected value exported from .env, got %q", got)
	}
	if got := os.Getenv("HELLOCHAINS_TEST_DOTENV_KEEP"); got != "from-env" {
		t.Errorf("existing env must win over .env, got %q", got)
	}
}

func TestLoadDotenv_Missing(t *testing.T) {
	if err := config.NewLoader().LoadDotenv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing .env should not fail: %v", err)
	}
}

func TestLoader_Set(t *testing.T) {
	l := config.NewLoader()
	if err := l.Set("chat.memory_k", 7); err != nil {
		t.Fatal(err)
	}
	if l.GetInt("chat.memory_k") != 7 {
		t.Fatalf("expected 7, got %d", l.GetInt("chat.memory_k"))
	}
}

func TestRAGConfig_Validate(t *testing.T) {
	c := config.RAGConfig{ChunkSize: 10, ChunkOverlap: 10, TopK: 1}
	if !errors.Is(c.Validate(), config.ErrInvalidChunkOverlap) {
		t.Fatal("expected ErrInvalidChunkOverlap")
	}
}

func TestChatConfig_Validate(t *testing.T) {
	c := config.ChatConfig{Session: "s1", Temperature: 0.7}
	if !errors.Is(c.Validate(), config.ErrDBPathRequired) {
		t.Fatal("expected ErrDBPathRequired")
	}
}
