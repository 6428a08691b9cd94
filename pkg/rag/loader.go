package rag

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

// DocumentLoader 文档加载器接口
type DocumentLoader interface {
	// Load 加载文档
	Load(ctx context.Context) ([]Document, error)
}

// TextLoader 文本文件加载器，整个文件作为一个文档
type TextLoader struct {
	path string
}

// NewTextLoader 创建文本文件加载器
func NewTextLoader(path string) *TextLoader {
	return &TextLoader{path: path}
}

// Load 读取文件
func (l *TextLoader) Load(ctx context.Context) ([]Document, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	defer f.Close()
	return NewReaderLoader(l.path, f).Load(ctx)
}

// ReaderLoader 从 io.Reader 加载一个文档
type ReaderLoader struct {
	source string
	reader io.Reader
}

// NewReaderLoader 创建 Reader 加载器
func NewReaderLoader(source string, reader io.Reader) *ReaderLoader {
	return &ReaderLoader{source: source, reader: reader}
}

// Load 读取全部内容
func (l *ReaderLoader) Load(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := io.ReadAll(l.reader)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", l.source, err)
	}
	return []Document{{
		ID:       uuid.NewString(),
		Content:  string(content),
		Metadata: DocumentMetadata{Source: l.source},
	}}, nil
}

var (
	_ DocumentLoader = (*TextLoader)(nil)
	_ DocumentLoader = (*ReaderLoader)(nil)
)
