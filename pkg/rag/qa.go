package rag

import (
	"context"
	"fmt"

	"github.com/easyops/hellochains-go/pkg/core/errors"
	"github.com/easyops/hellochains-go/pkg/core/llm"
	"github.com/easyops/hellochains-go/pkg/core/message"
	"github.com/easyops/hellochains-go/pkg/prompt"
)

// stuffSystemTemplate 将全部检索结果放入同一个提示词
var stuffSystemTemplate = prompt.MustTemplate("Use the following pieces of context to answer the user's question. \n" +
	"If you don't know the answer, just say that you don't know, don't try to make up an answer.\n" +
	"----------------\n" +
	"{context}")

// RAGResponse 问答结果
type RAGResponse struct {
	Question string            `json:"question"`
	Answer   string            `json:"answer"`
	Sources  []RetrievalResult `json:"sources"`
}

// RetrievalQA 检索后生成回答
type RetrievalQA struct {
	retriever   Retriever
	provider    llm.Provider
	temperature float64
}

// NewRetrievalQA 创建问答链，默认温度 0
func NewRetrievalQA(retriever Retriever, provider llm.Provider) (*RetrievalQA, error) {
	if retriever == nil {
		return nil, errors.ErrNoRetriever
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: provider is nil", errors.ErrInvalidConfig)
	}
	return &RetrievalQA{retriever: retriever, provider: provider}, nil
}

// WithTemperature 设置生成温度
func (qa *RetrievalQA) WithTemperature(t float64) *RetrievalQA {
	qa.temperature = t
	return qa
}

// Messages 组合系统上下文和问题
func (qa *RetrievalQA) Messages(question string, results []RetrievalResult) ([]message.Message, error) {
	system, err := stuffSystemTemplate.Format(map[string]string{"context": JoinContents(results)})
	if err != nil {
		return nil, err
	}
	return []message.Message{
		message.NewSystemMessage(system),
		message.NewUserMessage(question),
	}, nil
}

// Ask 检索并回答问题
func (qa *RetrievalQA) Ask(ctx context.Context, question string) (*RAGResponse, error) {
	results, err := qa.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	msgs, err := qa.Messages(question, results)
	if err != nil {
		return nil, err
	}

	resp, err := qa.provider.Generate(ctx, llm.NewRequest(msgs, llm.WithTemperature(qa.temperature)))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &RAGResponse{
		Question: question,
		Answer:   resp.Content,
		Sources:  results,
	}, nil
}
