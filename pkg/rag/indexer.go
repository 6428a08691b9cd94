package rag

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/easyops/hellochains-go/pkg/core/errors"
)

// Indexer 为分块生成向量并写入存储
//
// 分块按 BatchSize 分批嵌入，最多 Concurrency 个批次并行。
type Indexer struct {
	Embedder    Embedder
	Store       VectorStore
	BatchSize   int
	Concurrency int
}

// NewIndexer 创建索引器，默认每批 64 个、并发 4
func NewIndexer(embedder Embedder, store VectorStore) *Indexer {
	return &Indexer{
		Embedder:    embedder,
		Store:       store,
		BatchSize:   64,
		Concurrency: 4,
	}
}

// Index 嵌入并存储分块，任一批次失败则不写入任何分块
func (ix *Indexer) Index(ctx context.Context, chunks []DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	batch := ix.BatchSize
	if batch <= 0 {
		batch = len(chunks)
	}

	indexed := make([]DocumentChunk, len(chunks))
	copy(indexed, chunks)

	g, gctx := errgroup.WithContext(ctx)
	if ix.Concurrency > 0 {
		g.SetLimit(ix.Concurrency)
	}
	for start := 0; start < len(indexed); start += batch {
		end := min(start+batch, len(indexed))
		part := indexed[start:end]
		g.Go(func() error {
			texts := make([]string, len(part))
			for i, c := range part {
				texts[i] = c.Content
			}
			vectors, err := ix.Embedder.Embed(gctx, texts)
			if err != nil {
				return fmt.Errorf("embed chunks %d-%d: %w", start, end, err)
			}
			if len(vectors) != len(part) {
				return fmt.Errorf("%w: got %d vectors for %d chunks", errors.ErrEmbeddingFailed, len(vectors), len(part))
			}
			for i := range part {
				part[i].Vector = vectors[i]
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return ix.Store.Add(ctx, indexed)
}
