package config

// RAGConfig 检索增强生成配置
type RAGConfig struct {
	// SamplePath 示例数据文件路径
	SamplePath string `koanf:"sample_path"`
	// ChunkSize 分块大小（字符）
	// 默认: 200
	ChunkSize int `koanf:"chunk_size"`
	// ChunkOverlap 分块重叠（字符）
	// 默认: 20
	ChunkOverlap int `koanf:"chunk_overlap"`
	// Separator 分隔符
	// 默认: "\n"
	Separator string `koanf:"separator"`
	// TopK 检索返回的块数
	// 默认: 2
	TopK int `koanf:"top_k"`
}

// Validate 验证 RAG 配置
func (c *RAGConfig) Validate() error {
	if c.ChunkSize < 1 {
		return ErrInvalidChunkSize
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return ErrInvalidChunkOverlap
	}
	if c.TopK < 1 {
		return ErrInvalidTopK
	}
	return nil
}
