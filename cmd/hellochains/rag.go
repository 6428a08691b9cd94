package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/easyops/hellochains-go/pkg/core/config"
	"github.com/easyops/hellochains-go/pkg/rag"
)

func newRAGCmd(g *globalOptions) *cobra.Command {
	var (
		samplePath string
		topK       int
	)

	cmd := &cobra.Command{
		Use:   "rag",
		Short: "Answer questions over a sample text with retrieve-then-generate",
		Long: `Writes the sample text file, splits it into overlapping chunks, embeds
them into an in-memory vector store and answers the demo questions
from the top matching chunks. The first failing question aborts the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			a, err := newApp(ctx, cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			rc := a.cfg.RAG
			if cmd.Flags().Changed("sample") {
				rc.SamplePath = samplePath
			}
			if cmd.Flags().Changed("top-k") {
				rc.TopK = topK
			}
			if err := rc.Validate(); err != nil {
				return err
			}

			return runRAG(ctx, a, rc)
		},
	}

	cmd.Flags().StringVar(&samplePath, "sample", "sample_data.txt", "Where to write the sample text")
	cmd.Flags().IntVar(&topK, "top-k", 2, "Number of chunks to retrieve per question")

	return cmd
}

func runRAG(ctx context.Context, a *app, rc config.RAGConfig) error {
	if err := rag.WriteSampleData(rc.SamplePath); err != nil {
		return err
	}

	splitter, err := rag.NewCharacterSplitter(rc.ChunkSize, rc.ChunkOverlap, rc.Separator)
	if err != nil {
		return err
	}

	provider, err := a.provider(config.ProviderOpenAI, 0)
	if err != nil {
		return err
	}
	defer provider.Close()

	store := rag.NewInMemoryVectorStore()
	retriever := rag.NewVectorRetriever(store, provider, rag.WithTopK(rc.TopK))
	qa, err := rag.NewRetrievalQA(retriever, provider)
	if err != nil {
		return err
	}

	pipeline := rag.NewPipeline(provider, store, qa,
		rag.WithChunker(splitter),
		rag.WithLogger(a.logger),
	)
	if _, err := pipeline.IngestFrom(ctx, rag.NewTextLoader(rc.SamplePath)); err != nil {
		return err
	}

	_, err = pipeline.RunQuestions(ctx, rag.DefaultQuestions, a.out)
	return err
}
