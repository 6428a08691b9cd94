package builtin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/easyops/hellochains-go/pkg/tools"
)

const (
	// WikipediaName 维基百科工具名称
	WikipediaName = "wikipedia"
	// DefaultWikipediaURL MediaWiki API 地址
	DefaultWikipediaURL = "https://en.wikipedia.org/w/api.php"
	// NoWikipediaResult 没有搜索结果时的观察文本
	NoWikipediaResult = "No good Wikipedia Search Result was found"
)

// WikipediaOption 维基百科工具选项
type WikipediaOption func(*Wikipedia)

// WithWikipediaURL 设置 API 地址
func WithWikipediaURL(u string) WikipediaOption {
	return func(w *Wikipedia) {
		if u != "" {
			w.baseURL = u
		}
	}
}

// WithWikipediaHTTPClient 设置 HTTP 客户端
func WithWikipediaHTTPClient(c *http.Client) WikipediaOption {
	return func(w *Wikipedia) {
		if c != nil {
			w.client = c
		}
	}
}

// WithTopK 设置返回的页面数
func WithTopK(k int) WikipediaOption {
	return func(w *Wikipedia) {
		if k > 0 {
			w.topK = k
		}
	}
}

// WithMaxChars 设置观察文本最大长度
func WithMaxChars(n int) WikipediaOption {
	return func(w *Wikipedia) {
		if n > 0 {
			w.maxChars = n
		}
	}
}

// WithRateLimit 设置每秒请求数上限
func WithRateLimit(perSecond float64) WikipediaOption {
	return func(w *Wikipedia) {
		if perSecond > 0 {
			w.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// Wikipedia 维基百科搜索工具
//
// 一次 generator=search 请求取回排名靠前页面的简介。
type Wikipedia struct {
	baseURL  string
	client   *http.Client
	topK     int
	maxChars int
	limiter  *rate.Limiter
}

// NewWikipedia 创建维基百科工具
func NewWikipedia(opts ...WikipediaOption) *Wikipedia {
	w := &Wikipedia{
		baseURL:  DefaultWikipediaURL,
		client:   &http.Client{Timeout: 20 * time.Second},
		topK:     3,
		maxChars: 4000,
		limiter:  rate.NewLimiter(rate.Limit(5), 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Name 返回工具名称
func (w *Wikipedia) Name() string {
	return WikipediaName
}

// Description 返回工具描述
func (w *Wikipedia) Description() string {
	return "A wrapper around Wikipedia. Useful for when you need to answer general questions about " +
		"people, places, companies, facts, historical events, or other subjects. Input should be a search query."
}

// Parameters 返回参数 Schema
func (w *Wikipedia) Parameters() tools.ParameterSchema {
	return tools.ParameterSchema{
		Type: "object",
		Properties: map[string]tools.PropertySchema{
			"query": {
				Type:        "string",
				Description: "The search query",
			},
		},
		Required: []string{"query"},
	}
}

// Validate 校验参数
func (w *Wikipedia) Validate(args map[string]interface{}) error {
	_, err := tools.StringArg(args, "query")
	return err
}

// Execute 搜索并返回页面简介
func (w *Wikipedia) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	query, err := tools.StringArg(args, "query")
	if err != nil {
		return "", err
	}
	return w.Search(ctx, query)
}

// Page 搜索结果页面
type Page struct {
	Title   string
	Summary string
	index   int64
}

// Search 搜索并格式化为 "Page: ...\nSummary: ..." 段落
func (w *Wikipedia) Search(ctx context.Context, query string) (string, error) {
	pages, err := w.Pages(ctx, query)
	if err != nil {
		return "", err
	}
	if len(pages) == 0 {
		return NoWikipediaResult, nil
	}

	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, fmt.Sprintf("Page: %s\nSummary: %s", p.Title, p.Summary))
	}
	return truncateRunes(strings.Join(parts, "\n\n"), w.maxChars), nil
}

// truncateRunes 保留前 n 个字符，不截断多字节字符
func truncateRunes(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Pages 按搜索排名返回页面
func (w *Wikipedia) Pages(ctx context.Context, query string) ([]Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if err := w.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"action":        {"query"},
		"format":        {"json"},
		"formatversion": {"2"},
		"generator":     {"search"},
		"gsrsearch":     {query},
		"gsrlimit":      {fmt.Sprint(w.topK)},
		"prop":          {"extracts"},
		"exintro":       {"1"},
		"explaintext":   {"1"},
		"exlimit":       {"max"},
		"redirects":     {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build wikipedia request: %w", err)
	}
	req.Header.Set("User-Agent", "hellochains-go/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read wikipedia response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia returned status %d", resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("wikipedia returned invalid JSON")
	}

	parsed := gjson.ParseBytes(body)
	if apiErr := parsed.Get("error.info"); apiErr.Exists() {
		return nil, fmt.Errorf("wikipedia error: %s", apiErr.String())
	}

	var pages []Page
	parsed.Get("query.pages").ForEach(func(_, page gjson.Result) bool {
		if page.Get("missing").Bool() {
			return true
		}
		pages = append(pages, Page{
			Title:   page.Get("title").String(),
			Summary: strings.TrimSpace(page.Get("extract").String()),
			index:   page.Get("index").Int(),
		})
		return true
	})
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].index < pages[j].index })

	if len(pages) > w.topK {
		pages = pages[:w.topK]
	}
	return pages, nil
}

var _ tools.ToolWithValidation = (*Wikipedia)(nil)
