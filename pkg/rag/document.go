// Package rag 提供检索增强生成：加载、切分、向量索引、检索和问答
package rag

import (
	"strings"
)

// Document 文档
type Document struct {
	ID       string           `json:"id"`
	Content  string           `json:"content"`
	Metadata DocumentMetadata `json:"metadata"`
}

// DocumentMetadata 文档元数据
type DocumentMetadata struct {
	// Source 来源（文件路径等）
	Source string `json:"source,omitempty"`
	// Custom 自定义元数据
	Custom map[string]string `json:"custom,omitempty"`
}

// DocumentChunk 文档分块
type DocumentChunk struct {
	ID         string           `json:"id"`
	DocumentID string           `json:"document_id"`
	Content    string           `json:"content"`
	Index      int              `json:"index"`
	Metadata   DocumentMetadata `json:"metadata"`
	Vector     []float32        `json:"vector,omitempty"`
}

// RetrievalResult 检索结果
type RetrievalResult struct {
	Chunk DocumentChunk `json:"chunk"`
	// Score 余弦相似度
	Score float32 `json:"score"`
}

// JoinContents 以空行连接检索到的分块内容
func JoinContents(results []RetrievalResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = r.Chunk.Content
	}
	return strings.Join(parts, "\n\n")
}
