package agents

import (
	"context"
	"fmt"
	"io"
)

// DefaultQueries 演示使用的查询
var DefaultQueries = []string{
	"What is the square root of 256?",
	"Who was the first person to walk on the moon and what year did it happen?",
	"If I have 5 apples and give 2 to my friend, then buy 3 more, how many do I have? Calculate step by step.",
}

// BatchResult 单个查询的结果
type BatchResult struct {
	Query  string
	Output Output
	Err    error
}

// RunBatch 依次执行查询并输出结果
//
// 单个查询失败只输出错误，后续查询照常执行。只有上下文取消会提前结束。
func RunBatch(ctx context.Context, agent Agent, queries []string, w io.Writer) []BatchResult {
	results := make([]BatchResult, 0, len(queries))
	for _, q := range queries {
		if ctx.Err() != nil {
			break
		}

		fmt.Fprintf(w, "\nQuery: %s\n", q)
		out, err := agent.Run(ctx, Input{Query: q})
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
		} else {
			fmt.Fprintf(w, "Response: %s\n", out.Response)
		}
		results = append(results, BatchResult{Query: q, Output: out, Err: err})
	}
	return results
}
