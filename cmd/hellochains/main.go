// Command hellochains 运行角色对话、ReAct Agent、顺序链和 RAG 示例
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version 构建时注入
var version = "0.1.0"

// globalOptions 所有子命令共享的参数
type globalOptions struct {
	envFile   string
	provider  string
	model     string
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:   "hellochains",
		Short: "LLM demos: character chat, ReAct agent, sequential chains and RAG",
		Long: `hellochains runs small LLM demos on top of reusable packages:
a roleplay chat with bounded memory, a tool-using ReAct agent,
sequential prompt chains, and a retrieve-then-generate pipeline.

Configuration comes from defaults, an optional .env file and
HELLOCHAINS_* environment variables. Flags override both.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&g.envFile, "env-file", ".env", "Path to a .env file (ignored if missing)")
	flags.StringVar(&g.provider, "provider", "", "LLM provider: openrouter, openai or anthropic")
	flags.StringVar(&g.model, "model", "", "Model name (defaults per provider)")
	flags.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&g.logFormat, "log-format", "", "Log format: text or json")

	root.AddCommand(newChatCmd(g))
	root.AddCommand(newAgentCmd(g))
	root.AddCommand(newChainCmd(g))
	root.AddCommand(newRAGCmd(g))

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
