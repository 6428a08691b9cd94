package config

// ChatConfig 角色对话配置
type ChatConfig struct {
	// Persona 角色编号（从 1 开始），0 表示交互式选择
	Persona int `koanf:"persona"`
	// PersonasFile 自定义角色 YAML 文件
	PersonasFile string `koanf:"personas_file"`
	// MemoryK 保留的最近对话轮数，0 表示不截断
	// 默认: 3
	MemoryK int `koanf:"memory_k"`
	// Temperature LLM 温度参数
	// 默认: 0.7, 范围: [0, 2]
	Temperature float64 `koanf:"temperature"`
	// Session 会话标识，非空时持久化对话记录
	Session string `koanf:"session"`
	// DBPath 会话数据库路径
	DBPath string `koanf:"db_path"`
	// Verbose 是否输出完整提示词
	Verbose bool `koanf:"verbose"`
}

// Validate 验证对话配置
func (c *ChatConfig) Validate() error {
	if c.Persona < 0 {
		return ErrInvalidPersona
	}
	if c.MemoryK < 0 {
		return ErrInvalidMemoryK
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return ErrInvalidTemperature
	}
	if c.Session != "" && c.DBPath == "" {
		return ErrDBPathRequired
	}
	return nil
}
