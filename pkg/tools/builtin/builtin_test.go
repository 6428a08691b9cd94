package builtin_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/easyops/hellochains-go/pkg/tools/builtin"
)

func TestCalculator_Eval(t *testing.T) {
	calc := builtin.NewCalculator()
	tests := []struct {
		expr string
		want string
	}{
		{"sqrt(256)", "16"},
		{"5 - 2 + 3", "6"},
		{"2 + 3 * 4", "14"},
		{"(10 - 5) / 2", "2.5"},
		{"pow(2, 10)", "1024"},
		{"2 ** 8", "256"},
		{"abs(-3.5)", "3.5"},
		{"floor(2.7) + ceil(2.2)", "5"},
		{"round(2.5)", "3"},
		{"exp(0)", "1"},
		{"log(1)", "0"},
		{"round(pi * 100) / 100", "3.14"},
		{"sqrt(16.0)", "4"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := calc.Eval(tt.expr)
			if err != nil {
				t.Fatalf("Eval(%q) error = %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %s, want %s", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCalculator_Errors(t *testing.T) {
	calc := builtin.NewCalculator()
	for _, expr := range []string{"", "2 +", "1 / 0", "sqrt()", `"text"`, "unknown(3)"} {
		if _, err := calc.Eval(expr); err == nil {
			t.Errorf("Eval(%q) expected error", expr)
		}
	}
}

func TestCalculator_Execute(t *testing.T) {
	calc := builtin.NewCalculator()
	out, err := calc.Execute(context.Background(), map[string]interface{}{"expression": "sqrt(256)"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "Answer: 16" {
		t.Errorf("Execute() = %q", out)
	}
	if err := calc.Validate(map[string]interface{}{}); err == nil {
		t.Errorf("expected missing expression error")
	}
}

const moonResponse = `{
  "batchcomplete": true,
  "query": {
    "pages": [
      {"pageid": 2, "title": "Apollo 11", "index": 2, "extract": "Apollo 11 was the first crewed Moon landing."},
      {"pageid": 1, "title": "Neil Armstrong", "index": 1, "extract": "Neil Armstrong was the first person to walk on the Moon in 1969.\n"}
    ]
  }
}`

func TestWikipedia_Search(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("gsrsearch")
		if r.URL.Query().Get("generator") != "search" || r.URL.Query().Get("prop") != "extracts" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(moonResponse))
	}))
	defer srv.Close()

	wiki := builtin.NewWikipedia(builtin.WithWikipediaURL(srv.URL), builtin.WithWikipediaHTTPClient(srv.Client()))
	out, err := wiki.Execute(context.Background(), map[string]interface{}{"query": "first moon walk"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if query != "first moon walk" {
		t.Errorf("unexpected search %q", query)
	}

	want := "Page: Neil Armstrong\nSummary: Neil Armstrong was the first person to walk on the Moon in 1969.\n\n" +
		"Page: Apollo 11\nSummary: Apollo 11 was the first crewed Moon landing."
	if out != want {
		t.Errorf("Execute() = %q, want %q", out, want)
	}
}

func TestWikipedia_TopKAndTruncate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(moonResponse))
	}))
	defer srv.Close()

	wiki := builtin.NewWikipedia(builtin.WithWikipediaURL(srv.URL), builtin.WithTopK(1), builtin.WithMaxChars(20))
	out, err := wiki.Search(context.Background(), "moon")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if out != "Page: Neil Armstrong" {
		t.Errorf("Search() = %q", out)
	}
}

func TestWikipedia_NoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"batchcomplete": true}`))
	}))
	defer srv.Close()

	wiki := builtin.NewWikipedia(builtin.WithWikipediaURL(srv.URL))
	out, err := wiki.Search(context.Background(), "zzzz")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if out != builtin.NoWikipediaResult {
		t.Errorf("Search() = %q", out)
	}
}

func TestWikipedia_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"status", http.StatusServiceUnavailable, `{}`, "status 503"},
		{"invalid json", http.StatusOK, `<html>`, "invalid JSON"},
		{"api error", http.StatusOK, `{"error": {"code": "badvalue", "info": "bad search"}}`, "bad search"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			wiki := builtin.NewWikipedia(builtin.WithWikipediaURL(srv.URL))
			_, err := wiki.Search(context.Background(), "q")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	wiki := builtin.NewWikipedia()
	if _, err := wiki.Search(context.Background(), "  "); err == nil {
		t.Errorf("expected empty query error")
	}
}

func TestWikipedia_RateLimit(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(moonResponse))
	}))
	defer srv.Close()

	wiki := builtin.NewWikipedia(builtin.WithWikipediaURL(srv.URL), builtin.WithRateLimit(0.01))
	if _, err := wiki.Search(context.Background(), "moon"); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := wiki.Search(ctx, "moon"); err == nil {
		t.Fatal("expected the limiter to reject a request it cannot admit before the deadline")
	}
	if requests != 1 {
		t.Errorf("expected 1 request to reach the server, got %d", requests)
	}
}

func TestWikipedia_TruncateKeepsRunes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"query": {"pages": [{"pageid": 1, "title": "Zürich", "index": 1, "extract": "Zürich ist die größte Stadt der Schweiz."}]}}`))
	}))
	defer srv.Close()

	for _, n := range []int{7, 8, 9, 30} {
		wiki := builtin.NewWikipedia(builtin.WithWikipediaURL(srv.URL), builtin.WithMaxChars(n))
		out, err := wiki.Search(context.Background(), "zurich")
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if !utf8.ValidString(out) {
			t.Fatalf("WithMaxChars(%d) produced invalid UTF-8 %q", n, out)
		}
		if got := utf8.RuneCountInString(out); got != n {
			t.Errorf("WithMaxChars(%d) kept %d characters: %q", n, got, out)
		}
	}
}
