package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/easyops/hellochains-go/pkg/chains"
	"github.com/easyops/hellochains-go/pkg/core/config"
)

func newChainCmd(g *globalOptions) *cobra.Command {
	var topic string

	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Run the paragraph chain and the title to first-paragraph sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			a, err := newApp(ctx, cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			return runChains(ctx, a, topic)
		},
	}

	cmd.Flags().StringVar(&topic, "topic", chains.DefaultTopic, "Topic to write about")

	return cmd
}

func runChains(ctx context.Context, a *app, topic string) error {
	provider, err := a.provider(config.ProviderOpenRouter, a.cfg.Chat.Temperature)
	if err != nil {
		return err
	}
	defer provider.Close()

	paragraph, err := chains.ParagraphChain(provider).Run(ctx, map[string]string{"topic": topic})
	if err != nil {
		return fmt.Errorf("paragraph chain: %w", err)
	}
	fmt.Fprintf(a.out, "Topic: %s\nResponse: %s\n", topic, paragraph)

	seq, err := chains.TitleToParagraph(provider, chains.WithLogger(a.logger))
	if err != nil {
		return err
	}
	final, steps, err := seq.Run(ctx, topic)
	if err != nil {
		return fmt.Errorf("sequential chain: %w", err)
	}
	if len(steps) > 0 {
		fmt.Fprintf(a.out, "\nTitle: %s\n", steps[0])
	}
	fmt.Fprintf(a.out, "\nSequential Chain Result:\n%s\n", final)
	return nil
}
