package rag

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Pipeline 组合切分、索引和问答
type Pipeline struct {
	chunker DocumentChunker
	indexer *Indexer
	store   VectorStore
	qa      *RetrievalQA
	logger  *slog.Logger
}

// PipelineOption 管道选项
type PipelineOption func(*Pipeline)

// WithChunker 设置分块器
func WithChunker(c DocumentChunker) PipelineOption {
	return func(p *Pipeline) {
		if c != nil {
			p.chunker = c
		}
	}
}

// WithLogger 设置日志器
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline 创建管道
//
// 默认使用 200/20 按换行切分，检索使用与索引相同的存储和嵌入器。
func NewPipeline(embedder Embedder, store VectorStore, qa *RetrievalQA, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		chunker: &CharacterSplitter{ChunkSize: 200, ChunkOverlap: 20, Separator: "\n"},
		indexer: NewIndexer(embedder, store),
		store:   store,
		qa:      qa,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest 切分并索引文档，返回写入的块数
func (p *Pipeline) Ingest(ctx context.Context, docs []Document) (int, error) {
	var chunks []DocumentChunk
	for _, doc := range docs {
		chunks = append(chunks, p.chunker.Chunk(doc)...)
	}
	if err := p.indexer.Index(ctx, chunks); err != nil {
		return 0, fmt.Errorf("index: %w", err)
	}
	p.logger.Info("documents indexed", "documents", len(docs), "chunks", len(chunks), "store_size", p.store.Size())
	return len(chunks), nil
}

// IngestFrom 从加载器摄取文档
func (p *Pipeline) IngestFrom(ctx context.Context, loader DocumentLoader) (int, error) {
	docs, err := loader.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load documents: %w", err)
	}
	return p.Ingest(ctx, docs)
}

// Ask 回答问题
func (p *Pipeline) Ask(ctx context.Context, question string) (*RAGResponse, error) {
	resp, err := p.qa.Ask(ctx, question)
	if err != nil {
		return nil, err
	}
	p.logger.Info("question answered", "question", question, "sources", len(resp.Sources))
	return resp, nil
}

// RunQuestions 依次回答问题并输出
//
// 任一问题失败即返回错误，剩余问题不再执行。
func (p *Pipeline) RunQuestions(ctx context.Context, questions []string, w io.Writer) ([]*RAGResponse, error) {
	answers := make([]*RAGResponse, 0, len(questions))
	for _, q := range questions {
		fmt.Fprintf(w, "\nQuestion: %s\n", q)
		resp, err := p.Ask(ctx, q)
		if err != nil {
			return answers, err
		}
		fmt.Fprintf(w, "Answer: %s\n", resp.Answer)
		answers = append(answers, resp)
	}
	return answers, nil
}
