package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/easyops/hellochains-go/pkg/agents"
	"github.com/easyops/hellochains-go/pkg/core/config"
	"github.com/easyops/hellochains-go/pkg/rag"
	"github.com/easyops/hellochains-go/pkg/tools"
	"github.com/easyops/hellochains-go/pkg/tools/builtin"
)

func newAgentCmd(g *globalOptions) *cobra.Command {
	var (
		maxIterations int
		verbose       bool
		documents     string
	)

	cmd := &cobra.Command{
		Use:   "agent [queries...]",
		Short: "Answer queries with a ReAct agent using calculator and Wikipedia tools",
		Long: `Runs each query through a ReAct agent that can call a calculator and
search Wikipedia. Without arguments the three demo queries are used.
A failing query prints its error and the batch continues.

With --documents the file is chunked and embedded, and the agent gets
a search_documents tool over it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			a, err := newApp(ctx, cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			ac := a.cfg.Agent
			if cmd.Flags().Changed("max-iterations") {
				ac.MaxIterations = maxIterations
			}
			if err := ac.Validate(); err != nil {
				return err
			}

			queries := args
			if len(queries) == 0 {
				queries = agents.DefaultQueries
			}
			return runAgent(ctx, a, ac, queries, documents, verbose)
		},
	}

	cmd.Flags().IntVar(&maxIterations, "max-iterations", 10, "Maximum reasoning steps per query")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log each reasoning step")
	cmd.Flags().StringVar(&documents, "documents", "", "Text file the agent can search")

	return cmd
}

func runAgent(ctx context.Context, a *app, ac config.AgentConfig, queries []string, documents string, verbose bool) error {
	provider, err := a.provider(config.ProviderOpenAI, ac.Temperature)
	if err != nil {
		return err
	}
	defer provider.Close()

	list := []tools.Tool{
		builtin.NewCalculator(),
		builtin.NewWikipedia(builtin.WithWikipediaURL(ac.WikipediaURL)),
	}
	if documents != "" {
		search, err := documentSearch(ctx, a, provider, documents)
		if err != nil {
			return err
		}
		list = append(list, search)
	}

	traced, err := a.telemetry.WrapTools(list)
	if err != nil {
		return err
	}
	registry, err := tools.NewRegistry(traced...)
	if err != nil {
		return err
	}

	agent, err := agents.NewReAct(provider, registry,
		agents.WithConfig(ac),
		agents.WithVerbose(verbose),
		agents.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	results := agents.RunBatch(ctx, agent, queries, a.out)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	a.logger.Debug("agent batch finished", "queries", len(results), "failed", failed)
	return ctx.Err()
}

// documentSearch 索引文件并返回检索工具
func documentSearch(ctx context.Context, a *app, embedder rag.Embedder, path string) (tools.Tool, error) {
	rc := a.cfg.RAG
	docs, err := rag.NewTextLoader(path).Load(ctx)
	if err != nil {
		return nil, err
	}
	splitter, err := rag.NewCharacterSplitter(rc.ChunkSize, rc.ChunkOverlap, rc.Separator)
	if err != nil {
		return nil, err
	}

	var chunks []rag.DocumentChunk
	for _, doc := range docs {
		chunks = append(chunks, splitter.Chunk(doc)...)
	}

	store := rag.NewInMemoryVectorStore()
	if err := rag.NewIndexer(embedder, store).Index(ctx, chunks); err != nil {
		return nil, err
	}
	a.logger.Info("documents indexed", "path", path, "chunks", store.Size())

	return builtin.NewDocumentSearch(rag.NewVectorRetriever(store, embedder, rag.WithTopK(rc.TopK))), nil
}
