package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	assistantx "github.com/tanpawarit/grocery-shopping-assistant/agent/agents/assistant"
	contractx "github.com/tanpawarit/grocery-shopping-assistant/agent/contract"
	intentx "github.com/tanpawarit/grocery-shopping-assistant/agent/intent"
	llmx "github.com/tanpawarit/grocery-shopping-assistant/agent/llm"
	promptx "github.com/tanpawarit/grocery-shopping-assistant/agent/prompt"
	toolx "github.com/tanpawarit/grocery-shopping-assistant/agent/tool"
	configx "github.com/tanpawarit/grocery-shopping-assistant/pkg/config"
	krogerx "github.com/tanpawarit/grocery-shopping-assistant/pkg/kroger"
	logx "github.com/tanpawarit/grocery-shopping-assistant/pkg/logger"
	_ "github.com/tanpawarit/grocery-shopping-assistant/pkg/logger/autoload"
)

type AppConfig struct {
	UseRealLLM bool   `envconfig:"USE_REAL_LLM" default:"false"`
	ToolsFile  string `envconfig:"TOOLS_FILE" default:"tools.json"`
}

var (
	envFileFlag string
	toolsFlag   string
	zipFlag     string
	termFlag    string
)

var rootCmd = &cobra.Command{
	Use:           "assistant",
	Short:         "Grocery shopping assistant",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configx.SetEnvFile(envFileFlag)
		logCfg, err := configx.New[logx.Config]("LOG")
		if err != nil {
			return fmt.Errorf("load log config: %w", err)
		}
		logx.Init(*logCfg)
		return nil
	},
	RunE: runChat,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive assistant",
	RunE:  runChat,
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find the nearest store to a zip code and search its products",
	RunE:  runSearch,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env", "", "path to an env file (default ./.env when present)")
	rootCmd.PersistentFlags().StringVar(&toolsFlag, "tools", "", "tool schema file, JSON or YAML (overrides ASSISTANT_TOOLS_FILE)")

	searchCmd.Flags().StringVar(&zipFlag, "zip", intentx.DefaultZipCode, "five digit zip code")
	searchCmd.Flags().StringVar(&termFlag, "term", "", "product to search for")
	_ = searchCmd.MarkFlagRequired("term")

	rootCmd.AddCommand(chatCmd, searchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	appCfg, err := configx.New[AppConfig]("ASSISTANT")
	if err != nil {
		return fmt.Errorf("load app config: %w", err)
	}
	toolsFile := strings.TrimSpace(appCfg.ToolsFile)
	if v := strings.TrimSpace(toolsFlag); v != "" {
		toolsFile = v
	}

	catalog, err := toolx.LoadCatalog(toolsFile)
	if err != nil {
		return fmt.Errorf("load tools: %w", err)
	}
	if missing := catalog.Unimplemented(); len(missing) > 0 {
		log.Warn().Strs("tools", missing).Msg("tool schema declares functions the dispatcher does not implement")
	}

	llmCfg, err := configx.New[llmx.Config]("LLM")
	if err != nil {
		return fmt.Errorf("load llm config: %w", err)
	}
	opts := intentx.Options{
		UseRealLLM: appCfg.UseRealLLM,
		LLM:        *llmCfg,
		Catalog:    catalog,
		Prompts:    promptx.LoadPromptSet(),
	}
	resolver, err := intentx.New(ctx, opts)
	if err != nil {
		return fmt.Errorf("build intent resolver: %w", err)
	}

	client, err := newKrogerClient()
	if err != nil {
		return err
	}

	assistant, err := assistantx.New(resolver, toolx.NewExecutor(client))
	if err != nil {
		return fmt.Errorf("build assistant: %w", err)
	}

	out := cmd.OutOrStdout()
	printBanner(out, len(catalog.Names()), toolsFile, opts.Mode())

	err = assistantx.RunREPL(ctx, assistant, assistantx.REPLOptions{
		Stdin:  cmd.InOrStdin(),
		Stdout: out,
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, err := newKrogerClient()
	if err != nil {
		return err
	}

	zip := strings.TrimSpace(zipFlag)
	store, ok := client.FindNearestStore(ctx, zip)
	if !ok {
		return fmt.Errorf("%w: no store found near %s", contractx.ErrResourceUnavailable, zip)
	}

	term := strings.TrimSpace(termFlag)
	results := client.SearchProducts(ctx, store.LocationID, term)
	fmt.Fprintln(cmd.OutOrStdout(), toolx.RenderProducts(term, *store, results))
	return nil
}

func newKrogerClient() (*krogerx.Client, error) {
	krogerCfg, err := configx.New[krogerx.Config]("KROGER")
	if err != nil {
		return nil, fmt.Errorf("load kroger config: %w", err)
	}
	client, err := krogerx.NewClient(*krogerCfg)
	if err != nil {
		return nil, fmt.Errorf("build kroger client: %w", err)
	}
	return client, nil
}

func printBanner(out io.Writer, toolCount int, toolsFile string, mode intentx.Mode) {
	fmt.Fprintf(out, "Loaded %d tool schemas from %s.\n", toolCount, toolsFile)
	fmt.Fprintln(out, "--- Grocery Shopping Assistant Ready ---")
	fmt.Fprintf(out, "Mode: %s\n", strings.ToUpper(string(mode)))
	fmt.Fprintln(out, "Type 'exit', 'quit' or 'bye' to close the application.")
	fmt.Fprintln(out, "-----------------------------------")
}
