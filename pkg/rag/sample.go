package rag

import (
	"fmt"
	"os"
	"strings"
)

// DefaultQuestions 演示问题
var DefaultQuestions = []string{
	"What is LangChain?",
	"What modules does LangChain provide?",
	"Which LLM providers does LangChain support?",
}

// sampleLines 每行前有 8 个空格缩进，部分行保留行尾空格
var sampleLines = []string{
	"LangChain is a framework for developing applications powered by language models.",
	"It enables applications that are context-aware, reason, and learn from feedback.",
	"",
	"LangChain provides modules for working with language models, prompt templates, ",
	"memory for storing conversation history, indexes for retrieving relevant context,",
	"agents that can use tools, and chains for combining multiple components.",
	"",
	"The framework is designed to be modular and extensible, allowing developers to ",
	"use only the components they need. It supports multiple LLM providers including ",
	"OpenAI, Anthropic, Google, and others.",
	"",
	"LangChain applications can be built for various use cases such as chatbots, ",
	"question answering, summarization, and more complex reasoning tasks.",
	"",
}

// SampleText 示例文档内容
var SampleText = sampleText()

func sampleText() string {
	const indent = "        "
	var b strings.Builder
	for _, line := range sampleLines {
		b.WriteString("\n")
		b.WriteString(indent)
		b.WriteString(line)
	}
	return b.String()
}

// WriteSampleData 写入示例文档，已存在则覆盖
func WriteSampleData(path string) error {
	if err := os.WriteFile(path, []byte(SampleText), 0o644); err != nil {
		return fmt.Errorf("write sample data: %w", err)
	}
	return nil
}
