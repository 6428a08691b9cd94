package chains

import (
	"github.com/easyops/hellochains-go/pkg/core/llm"
	"github.com/easyops/hellochains-go/pkg/prompt"
)

// DefaultTopic 演示使用的主题
const DefaultTopic = "artificial intelligence"

var (
	// ParagraphTemplate 单链示例模板
	ParagraphTemplate = prompt.MustTemplate("Write a short paragraph about {topic}.")
	// TitleTemplate 生成标题
	TitleTemplate = prompt.MustTemplate("Generate a creative title for an article about {topic}.")
	// FirstParagraphTemplate 根据标题写第一段
	FirstParagraphTemplate = prompt.MustTemplate("Write the first paragraph of an article with the title: {title}")
)

// ParagraphChain 主题短文链
func ParagraphChain(provider llm.Provider) *LLMChain {
	return NewLLMChain(ParagraphTemplate, provider)
}

// TitleToParagraph 标题到首段的顺序链
func TitleToParagraph(provider llm.Provider, opts ...SequentialOption) (*SimpleSequential, error) {
	return NewSimpleSequential([]Chain{
		NewLLMChain(TitleTemplate, provider),
		NewLLMChain(FirstParagraphTemplate, provider),
	}, opts...)
}
