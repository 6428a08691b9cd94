package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/easyops/hellochains-go/pkg/chat"
	"github.com/easyops/hellochains-go/pkg/core/config"
	"github.com/easyops/hellochains-go/pkg/memory"
	"github.com/easyops/hellochains-go/pkg/prompt"
)

// newSessionID 为 --session 传入该值时生成新的会话 ID
const newSessionID = "new"

func newChatCmd(g *globalOptions) *cobra.Command {
	var (
		persona      int
		personasFile string
		memoryK      int
		session      string
		dbPath       string
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with an AI character",
		Long: `Roleplay chat with a character that remembers the last K exchanges.
Type 'exit' or send end-of-input to stop.

With --session the transcript is stored in SQLite and resumed on the
next run. Pass --session new to start a fresh session with a random ID.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			a, err := newApp(ctx, cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			cc := a.cfg.Chat
			flags := cmd.Flags()
			if flags.Changed("persona") {
				cc.Persona = persona
			}
			if flags.Changed("personas") {
				cc.PersonasFile = personasFile
			}
			if flags.Changed("memory-k") {
				cc.MemoryK = memoryK
			}
			if flags.Changed("session") {
				cc.Session = session
			}
			if flags.Changed("db") {
				cc.DBPath = dbPath
			}
			if flags.Changed("verbose") {
				cc.Verbose = verbose
			}
			if err := cc.Validate(); err != nil {
				return fmt.Errorf("chat: %w", err)
			}

			return runChat(ctx, cmd, a, cc)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&persona, "persona", 0, "Character number to chat with (0 shows the menu)")
	flags.StringVar(&personasFile, "personas", "", "YAML file with custom characters")
	flags.IntVar(&memoryK, "memory-k", 3, "Number of past exchanges to remember (0 keeps all)")
	flags.StringVar(&session, "session", "", "Persist and resume the transcript under this session ID")
	flags.StringVar(&dbPath, "db", "hellochains.db", "SQLite database for --session")
	flags.BoolVar(&verbose, "verbose", false, "Log every prompt sent to the model")

	return cmd
}

func runChat(ctx context.Context, cmd *cobra.Command, a *app, cc config.ChatConfig) error {
	personas := prompt.Builtin()
	if cc.PersonasFile != "" {
		loaded, err := prompt.LoadPersonas(cc.PersonasFile)
		if err != nil {
			return err
		}
		personas = loaded
	}

	console := chat.NewConsole(cmd.InOrStdin(), a.out)

	var selected prompt.Persona
	if cc.Persona > 0 {
		if cc.Persona > len(personas) {
			return fmt.Errorf("persona %d out of range (1-%d)", cc.Persona, len(personas))
		}
		selected = personas[cc.Persona-1]
	} else {
		p, err := chat.SelectPersona(console, personas)
		if err != nil {
			return err
		}
		selected = p
	}

	provider, err := a.provider(config.ProviderOpenRouter, cc.Temperature)
	if err != nil {
		return err
	}
	defer provider.Close()

	opts := []chat.Option{
		chat.WithMemoryK(cc.MemoryK),
		chat.WithTemperature(cc.Temperature),
		chat.WithLogger(a.logger),
	}
	if cc.Verbose {
		opts = append(opts, chat.WithVerbose(prompt.DefaultTokenCounter(provider.Model())))
	}

	if cc.Session != "" {
		store, err := memory.NewSQLiteStore(cc.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		id := cc.Session
		if id == newSessionID {
			id = uuid.NewString()
			if err := console.Println("Session: " + id); err != nil {
				return err
			}
		}
		opts = append(opts, chat.WithSession(store, id))
	}

	character := chat.NewCharacterChat(selected, provider, opts...)
	if _, err := character.Resume(ctx); err != nil {
		return err
	}

	driver := chat.NewDriver(character, console)
	exchanges, err := driver.Run(ctx)
	a.logger.Debug("chat ended", "exchanges", exchanges)
	return err
}
