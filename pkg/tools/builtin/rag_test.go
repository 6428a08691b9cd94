package builtin_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/easyops/hellochains-go/pkg/rag"
	"github.com/easyops/hellochains-go/pkg/tools/builtin"
)

type stubRetriever struct {
	results []rag.RetrievalResult
	err     error
	queries []string
}

func (r *stubRetriever) Retrieve(ctx context.Context, query string) ([]rag.RetrievalResult, error) {
	r.queries = append(r.queries, query)
	return r.results, r.err
}

func TestDocumentSearch_Execute(t *testing.T) {
	retriever := &stubRetriever{results: []rag.RetrievalResult{
		{Score: 0.91, Chunk: rag.DocumentChunk{Content: "LangChain is a framework.", Metadata: rag.DocumentMetadata{Source: "sample.txt"}}},
		{Score: 0.5, Chunk: rag.DocumentChunk{Content: "It has modules."}},
	}}
	tool := builtin.NewDocumentSearch(retriever)

	out, err := tool.Execute(context.Background(), map[string]interface{}{"query": "what is langchain"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := "[1] score=0.91 source=sample.txt\nLangChain is a framework.\n\n[2] score=0.50\nIt has modules."
	if out != want {
		t.Errorf("output =\n%s\nwant\n%s", out, want)
	}
	if len(retriever.queries) != 1 || retriever.queries[0] != "what is langchain" {
		t.Errorf("queries = %v", retriever.queries)
	}
}

func TestDocumentSearch_NoResultsAndErrors(t *testing.T) {
	tool := builtin.NewDocumentSearch(&stubRetriever{})
	out, err := tool.Execute(context.Background(), map[string]interface{}{"query": "x"})
	if err != nil || out != builtin.NoDocumentResult {
		t.Errorf("empty retrieval = %q, %v", out, err)
	}

	if err := tool.Validate(map[string]interface{}{}); err == nil {
		t.Error("expected missing query error")
	}

	boom := errors.New("store offline")
	tool = builtin.NewDocumentSearch(&stubRetriever{err: boom})
	_, err = tool.Execute(context.Background(), map[string]interface{}{"query": "x"})
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "retrieve documents") {
		t.Errorf("expected wrapped retriever error, got %v", err)
	}
}
