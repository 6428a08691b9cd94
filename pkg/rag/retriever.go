package rag

import (
	"context"
	"fmt"

	"github.com/easyops/hellochains-go/pkg/core/errors"
)

// Retriever 检索器接口
type Retriever interface {
	// Retrieve 检索与查询相关的文档块
	Retrieve(ctx context.Context, query string) ([]RetrievalResult, error)
}

// VectorRetriever 向量检索器
type VectorRetriever struct {
	store          VectorStore
	embedder       Embedder
	topK           int
	scoreThreshold float32
}

// VectorRetrieverOption 向量检索器选项
type VectorRetrieverOption func(*VectorRetriever)

// WithTopK 设置返回的块数量
func WithTopK(k int) VectorRetrieverOption {
	return func(r *VectorRetriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithScoreThreshold 过滤低于阈值的结果
func WithScoreThreshold(threshold float32) VectorRetrieverOption {
	return func(r *VectorRetriever) {
		r.scoreThreshold = threshold
	}
}

// NewVectorRetriever 创建向量检索器，默认返回 2 个块
func NewVectorRetriever(store VectorStore, embedder Embedder, opts ...VectorRetrieverOption) *VectorRetriever {
	r := &VectorRetriever{
		store:    store,
		embedder: embedder,
		topK:     2,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TopK 返回检索数量
func (r *VectorRetriever) TopK() int {
	return r.topK
}

// Retrieve 嵌入查询并检索
func (r *VectorRetriever) Retrieve(ctx context.Context, query string) ([]RetrievalResult, error) {
	embeddings, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("%w: expected 1 query embedding, got %d", errors.ErrEmbeddingFailed, len(embeddings))
	}

	results, err := r.store.Search(ctx, embeddings[0], r.topK)
	if err != nil {
		return nil, err
	}

	if r.scoreThreshold > 0 {
		filtered := results[:0]
		for _, res := range results {
			if res.Score >= r.scoreThreshold {
				filtered = append(filtered, res)
			}
		}
		results = filtered
	}
	return results, nil
}

var _ Retriever = (*VectorRetriever)(nil)
