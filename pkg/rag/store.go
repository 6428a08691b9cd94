package rag

import (
	"context"
	"math"
	"sort"
	"sync"
)

// VectorStore 向量存储接口
type VectorStore interface {
	// Add 添加带向量的文档块，ID 相同则覆盖
	Add(ctx context.Context, chunks []DocumentChunk) error
	// Search 返回与查询向量最相似的 topK 个块
	Search(ctx context.Context, query []float32, topK int) ([]RetrievalResult, error)
	// Size 返回块数量
	Size() int
}

// Embedder 嵌入器接口，llm.Provider 满足该接口
type Embedder interface {
	// Embed 生成文本嵌入向量
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// InMemoryVectorStore 内存向量存储
//
// 按插入顺序保存，相似度相同时先插入的排在前面。
type InMemoryVectorStore struct {
	chunks []DocumentChunk
	index  map[string]int
	mu     sync.RWMutex
}

// NewInMemoryVectorStore 创建内存向量存储
func NewInMemoryVectorStore() *InMemoryVectorStore {
	return &InMemoryVectorStore{index: make(map[string]int)}
}

// Add 添加文档块
func (s *InMemoryVectorStore) Add(ctx context.Context, chunks []DocumentChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, chunk := range chunks {
		if i, ok := s.index[chunk.ID]; ok {
			s.chunks[i] = chunk
			continue
		}
		s.index[chunk.ID] = len(s.chunks)
		s.chunks = append(s.chunks, chunk)
	}
	return nil
}

// Search 按余弦相似度检索，topK <= 0 时返回空结果
func (s *InMemoryVectorStore) Search(ctx context.Context, query []float32, topK int) ([]RetrievalResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]RetrievalResult, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		if len(chunk.Vector) == 0 {
			continue
		}
		results = append(results, RetrievalResult{Chunk: chunk, Score: cosineSimilarity(query, chunk.Vector)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// Size 返回块数量
func (s *InMemoryVectorStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// cosineSimilarity 维度不一致或零向量时返回 0
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

var _ VectorStore = (*InMemoryVectorStore)(nil)
