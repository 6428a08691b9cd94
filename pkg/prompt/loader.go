package prompt

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoPersonas 文件中没有角色
	ErrNoPersonas = errors.New("no personas defined")
	// ErrPersonaName 角色缺少名称
	ErrPersonaName = errors.New("persona name is required")
)

// personaFile 角色文件结构
type personaFile struct {
	Personas []Persona `yaml:"personas"`
}

// LoadPersonas 从 YAML 文件读取角色列表
//
// 文件格式:
//
//	personas:
//	  - name: Sherlock Holmes
//	    service: ...
//	    character: ...
//	    user: ...
//
// 未填写 service 的角色使用 RoleplayService。
func LoadPersonas(path string) ([]Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read personas: %w", err)
	}
	return ParsePersonas(data)
}

// ParsePersonas 解析 YAML 格式的角色列表
func ParsePersonas(data []byte) ([]Persona, error) {
	var file personaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse personas: %w", err)
	}
	if len(file.Personas) == 0 {
		return nil, ErrNoPersonas
	}

	for i := range file.Personas {
		p := &file.Personas[i]
		if p.Name == "" {
			return nil, fmt.Errorf("persona %d: %w", i+1, ErrPersonaName)
		}
		if p.Service == "" {
			p.Service = RoleplayService
		}
	}
	return file.Personas, nil
}
