package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/easyops/hellochains-go/pkg/rag"
	"github.com/easyops/hellochains-go/pkg/tools"
)

const (
	// DocumentSearchName 文档检索工具名称
	DocumentSearchName = "search_documents"
	// NoDocumentResult 没有检索结果时的观察文本
	NoDocumentResult = "No relevant documents found for the query."
)

// DocumentSearch 在已索引的文档中检索
type DocumentSearch struct {
	retriever rag.Retriever
}

// NewDocumentSearch 创建文档检索工具
func NewDocumentSearch(retriever rag.Retriever) *DocumentSearch {
	return &DocumentSearch{retriever: retriever}
}

// Name 返回工具名称
func (t *DocumentSearch) Name() string {
	return DocumentSearchName
}

// Description 返回工具描述
func (t *DocumentSearch) Description() string {
	return "Search the loaded documents for relevant passages. " +
		"Use this before answering questions about the provided documents. Input should be a search query."
}

// Parameters 返回参数 Schema
func (t *DocumentSearch) Parameters() tools.ParameterSchema {
	return tools.ParameterSchema{
		Type: "object",
		Properties: map[string]tools.PropertySchema{
			"query": {
				Type:        "string",
				Description: "What to look for in the documents",
			},
		},
		Required: []string{"query"},
	}
}

// Validate 校验参数
func (t *DocumentSearch) Validate(args map[string]interface{}) error {
	_, err := tools.StringArg(args, "query")
	return err
}

// Execute 检索并返回带来源的段落
func (t *DocumentSearch) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	query, err := tools.StringArg(args, "query")
	if err != nil {
		return "", err
	}

	results, err := t.retriever.Retrieve(ctx, query)
	if err != nil {
		return "", fmt.Errorf("retrieve documents: %w", err)
	}
	if len(results) == 0 {
		return NoDocumentResult, nil
	}
	return formatPassages(results), nil
}

// formatPassages 每段一行标题，包含序号、得分和来源
func formatPassages(results []rag.RetrievalResult) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] score=%.2f", i+1, r.Score)
		if src := r.Chunk.Metadata.Source; src != "" {
			fmt.Fprintf(&b, " source=%s", src)
		}
		b.WriteString("\n")
		b.WriteString(r.Chunk.Content)
	}
	return b.String()
}

var _ tools.ToolWithValidation = (*DocumentSearch)(nil)
