package rag

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DocumentChunker 文档分块器接口
type DocumentChunker interface {
	// Chunk 将文档分割成块
	Chunk(doc Document) []DocumentChunk
}

// CharacterSplitter 按单一分隔符切分再合并的分块器
//
// 文本按 Separator 切开，丢弃空片段，再贪心合并为不超过 ChunkSize 个字符的块。
// 新块从上一块末尾不超过 ChunkOverlap 个字符的完整片段开始。
// 单个片段超过 ChunkSize 时原样成为一块。块首尾空白会被去除。
type CharacterSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separator    string
}

// NewCharacterSplitter 创建分块器
func NewCharacterSplitter(chunkSize, chunkOverlap int, separator string) (*CharacterSplitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap > chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be within [0, %d]", chunkOverlap, chunkSize)
	}
	return &CharacterSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Separator:    separator,
	}, nil
}

// Chunk 将文档分割成块，块 ID 由文档 ID 和序号确定
func (s *CharacterSplitter) Chunk(doc Document) []DocumentChunk {
	texts := s.SplitText(doc.Content)
	chunks := make([]DocumentChunk, len(texts))
	for i, text := range texts {
		chunks[i] = DocumentChunk{
			ID:         chunkID(doc.ID, i),
			DocumentID: doc.ID,
			Content:    text,
			Index:      i,
			Metadata:   doc.Metadata,
		}
	}
	return chunks
}

// SplitText 切分文本
func (s *CharacterSplitter) SplitText(text string) []string {
	var splits []string
	if s.Separator == "" {
		for _, r := range text {
			splits = append(splits, string(r))
		}
	} else {
		for _, part := range strings.Split(text, s.Separator) {
			if part != "" {
				splits = append(splits, part)
			}
		}
	}
	return s.merge(splits)
}

func (s *CharacterSplitter) merge(splits []string) []string {
	sepLen := utf8.RuneCountInString(s.Separator)
	var (
		docs    []string
		current []string
		total   int
	)

	// joinLen 当前块追加一个片段时的分隔符长度
	joinLen := func() int {
		if len(current) > 0 {
			return sepLen
		}
		return 0
	}

	for _, d := range splits {
		n := utf8.RuneCountInString(d)
		if total+n+joinLen() > s.ChunkSize && len(current) > 0 {
			if doc := s.join(current); doc != "" {
				docs = append(docs, doc)
			}
			for total > s.ChunkOverlap || (total > 0 && total+n+joinLen() > s.ChunkSize) {
				drop := utf8.RuneCountInString(current[0])
				if len(current) > 1 {
					drop += sepLen
				}
				total -= drop
				current = current[1:]
			}
		}
		current = append(current, d)
		total += n
		if len(current) > 1 {
			total += sepLen
		}
	}

	if doc := s.join(current); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

func (s *CharacterSplitter) join(parts []string) string {
	return strings.TrimSpace(strings.Join(parts, s.Separator))
}

// chunkID 同一文档重复切分得到相同的块 ID
func chunkID(docID string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s#%d", docID, index))).String()
}

var _ DocumentChunker = (*CharacterSplitter)(nil)
