package agents

import "time"

// ReasoningStep 推理步骤
type ReasoningStep struct {
	Type       StepType               `json:"type"`
	Content    string                 `json:"content,omitempty"`
	ToolName   string                 `json:"tool_name,omitempty"`
	ToolArgs   map[string]interface{} `json:"tool_args,omitempty"`
	ToolResult string                 `json:"tool_result,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// StepType 步骤类型
type StepType string

const (
	// StepTypeThought 思考
	StepTypeThought StepType = "thought"
	// StepTypeAction 调用工具
	StepTypeAction StepType = "action"
	// StepTypeObservation 工具结果
	StepTypeObservation StepType = "observation"
)

// NewThoughtStep 创建思考步骤
func NewThoughtStep(content string) ReasoningStep {
	return ReasoningStep{Type: StepTypeThought, Content: content, Timestamp: time.Now()}
}

// NewActionStep 创建行动步骤
func NewActionStep(toolName string, toolArgs map[string]interface{}) ReasoningStep {
	return ReasoningStep{Type: StepTypeAction, ToolName: toolName, ToolArgs: toolArgs, Timestamp: time.Now()}
}

// NewObservationStep 创建观察步骤
func NewObservationStep(toolName, result string) ReasoningStep {
	return ReasoningStep{Type: StepTypeObservation, ToolName: toolName, ToolResult: result, Timestamp: time.Now()}
}
