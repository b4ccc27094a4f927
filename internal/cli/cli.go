package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"i18n-extract/internal/action"
	"i18n-extract/internal/config"
	"i18n-extract/internal/extract"
	"i18n-extract/internal/keytree"
	"i18n-extract/internal/resource"
	"i18n-extract/internal/skeleton"
	"i18n-extract/internal/syntaxtree"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		switch {
		case errors.Is(err, action.ErrCancelled):
			return
		case errors.Is(err, action.ErrNoKey):
			log.Info().Msg(err.Error())
		default:
			log.Error().Err(err).Msg("Command failed")
		}
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "i18n-extract",
		Short:         "Move hard-coded strings into translation resources",
		Long:          "Replaces a string literal with an i18n lookup call and records the text under a translation key.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("ns-sep", "", "Namespace separator (default from I18N_NS_SEPARATOR)")
	rootCmd.PersistentFlags().String("key-sep", "", "Key separator (default from I18N_KEY_SEPARATOR)")
	rootCmd.PersistentFlags().Bool("vue", false, "Use the Vue extraction strategy")

	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(composeCmd())
	rootCmd.AddCommand(skeletonCmd())

	return rootCmd
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report whether the node at an offset can be extracted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			treePath, _ := cmd.Flags().GetString("tree")
			sourcePath, _ := cmd.Flags().GetString("source")
			offset, _ := cmd.Flags().GetInt("offset")
			return runCheck(cmd.OutOrStdout(), cfg, treePath, sourcePath, offset)
		},
	}

	cmd.Flags().String("tree", "", "Syntax tree snapshot (YAML or JSON)")
	cmd.Flags().String("source", "", "Source file the snapshot was parsed from")
	cmd.Flags().Int("offset", 0, "Byte offset of the node")
	_ = cmd.MarkFlagRequired("tree")

	return cmd
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Replace the string at an offset with a lookup call and record its key",
		Long: `Replaces the string literal at --offset in --source with the lookup call of its dialect.
The key is read from --key or asked for interactively. A resource file already holding
the key is left alone, an existing namespace file gets the key inserted, and otherwise a
new file is created. All writes succeed or none are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			opts := extractOptions{}
			opts.tree, _ = cmd.Flags().GetString("tree")
			opts.source, _ = cmd.Flags().GetString("source")
			opts.offset, _ = cmd.Flags().GetInt("offset")
			opts.key, _ = cmd.Flags().GetString("key")
			opts.root, _ = cmd.Flags().GetString("root")
			opts.format, _ = cmd.Flags().GetString("format")
			opts.dirs, _ = cmd.Flags().GetStringSlice("dir")
			opts.dryRun, _ = cmd.Flags().GetBool("dry-run")
			return runExtract(cmd, cfg, opts)
		},
	}

	cmd.Flags().String("tree", "", "Syntax tree snapshot (YAML or JSON)")
	cmd.Flags().String("source", "", "Source file to rewrite")
	cmd.Flags().Int("offset", 0, "Byte offset of the string literal")
	cmd.Flags().String("key", "", "Translation key; prompts when empty")
	cmd.Flags().String("root", ".", "Project root searched for resource files")
	cmd.Flags().String("format", "auto", "Format of new resource files: auto, text, yaml or json")
	cmd.Flags().StringSlice("dir", nil, "Directories new namespace files are created in")
	cmd.Flags().Bool("dry-run", false, "Show the changes without writing them")
	_ = cmd.MarkFlagRequired("tree")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func composeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compose <key>",
		Short: "Print the canonical form of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			tree, err := keytree.Parse(args[0], cfg.NsSeparator, cfg.KeySeparator)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), keytree.Compose(tree, cfg.NsSeparator, cfg.KeySeparator))
			return err
		},
	}
}

func skeletonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skeleton <key> <text>",
		Short: "Render the resource skeleton for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			format, _ := cmd.Flags().GetString("format")
			dirs, _ := cmd.Flags().GetStringSlice("write")
			return runSkeleton(cmd.OutOrStdout(), cfg, args[0], args[1], format, dirs)
		},
	}

	cmd.Flags().String("format", "text", "Output format: text, yaml or json")
	cmd.Flags().StringSlice("write", nil, "Create the namespace file in these directories instead of printing")

	return cmd
}

// loadConfig reads the environment and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	flags := cmd.Flags()
	if flags.Changed("ns-sep") {
		cfg.NsSeparator, _ = flags.GetString("ns-sep")
	}
	if flags.Changed("key-sep") {
		cfg.KeySeparator, _ = flags.GetString("key-sep")
	}
	if flags.Changed("vue") {
		cfg.Vue, _ = flags.GetBool("vue")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
	return cfg
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// loadNode builds the snapshot at treePath and returns the node at offset.
func loadNode(treePath, sourcePath string, offset int) (*syntaxtree.Node, error) {
	snap, err := syntaxtree.Load(treePath)
	if err != nil {
		return nil, err
	}
	var source []byte
	if sourcePath != "" {
		if source, err = os.ReadFile(sourcePath); err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}
	}
	root, err := snap.Build(source)
	if err != nil {
		return nil, fmt.Errorf("build syntax tree: %w", err)
	}
	node := root.At(offset)
	if node == nil {
		return nil, fmt.Errorf("no node at offset %d", offset)
	}
	return node, nil
}

func runCheck(w io.Writer, cfg *config.Config, treePath, sourcePath string, offset int) error {
	node, err := loadNode(treePath, sourcePath, offset)
	if err != nil {
		return err
	}

	res := extract.Extract(node, cfg.Vue)
	fmt.Fprintf(w, "node:        %s\n", node.Kind())
	fmt.Fprintf(w, "dialect:     %s\n", res.Dialect)
	fmt.Fprintf(w, "extractable: %t\n", res.CanExtract)
	if !res.CanExtract {
		return nil
	}
	fmt.Fprintf(w, "text:        %q\n", res.Text)
	fmt.Fprintf(w, "range:       [%d, %d)\n", res.Range.Start, res.Range.End)
	sample := action.SuggestKey(res.Text, cfg.DefaultNs, cfg.NsSeparator, cfg.KeySeparator)
	if sample == "" {
		sample = "key"
	}
	_, err = fmt.Fprintf(w, "template:    %s\n", res.Template(action.Quote(sample)))
	return err
}

type extractOptions struct {
	tree   string
	source string
	offset int
	key    string
	root   string
	format string
	dirs   []string
	dryRun bool
}

func runExtract(cmd *cobra.Command, cfg *config.Config, opts extractOptions) error {
	ctx, cancel := setupContext()
	defer cancel()

	format, err := resource.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	node, err := loadNode(opts.tree, opts.source, opts.offset)
	if err != nil {
		return err
	}

	store, err := resource.NewStore(opts.root, resource.Options{
		DefaultNs:    cfg.DefaultNs,
		Ext:          cfg.ResourceExt,
		Vue:          cfg.Vue,
		VueDirectory: cfg.VueDirectory,
		VueFile:      cfg.VueFile,
		Format:       format,
		Workers:      cfg.WorkerCount,
		Dirs:         opts.dirs,
	})
	if err != nil {
		return fmt.Errorf("open project: %w", err)
	}

	var keys action.KeyRequester = action.StaticRequester{Key: opts.key}
	if opts.key == "" {
		keys = action.NewPromptRequester(cmd.InOrStdin(), cmd.ErrOrStderr())
	}

	extractor := action.NewExtractor(store, keys, action.Options{
		Vue:          cfg.Vue,
		NsSeparator:  cfg.NsSeparator,
		KeySeparator: cfg.KeySeparator,
		DefaultNs:    cfg.DefaultNs,
		DryRun:       opts.dryRun,
	})

	res, err := extractor.Run(ctx, node, opts.source)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s -> %s\n", res.Key, res.Replacement)
	if !opts.dryRun {
		for _, path := range res.Written {
			fmt.Fprintf(w, "wrote %s\n", path)
		}
		return nil
	}
	for _, path := range res.Plan.Found {
		fmt.Fprintf(w, "found %s\n", path)
	}
	for _, c := range res.Plan.Updates {
		fmt.Fprintf(w, "update %s\n", c.Path)
	}
	for _, c := range res.Plan.Creates {
		fmt.Fprintf(w, "create %s\n%s", c.Path, c.Content)
	}
	return nil
}

func runSkeleton(w io.Writer, cfg *config.Config, key, text, formatName string, dirs []string) error {
	tree, err := keytree.Parse(key, cfg.NsSeparator, cfg.KeySeparator)
	if err != nil {
		return err
	}
	format, err := resource.ParseFormat(formatName)
	if err != nil {
		return err
	}

	if len(dirs) == 0 {
		var out string
		switch format {
		case resource.FormatYAML:
			out, err = skeleton.YAML(tree, text)
		case resource.FormatJSON:
			out, err = skeleton.JSON(tree, text)
		default:
			out = skeleton.ForTree(tree, text) + "\n"
		}
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	}

	ns, ok := tree.Namespace()
	if !ok {
		ns = cfg.DefaultNs
	}
	rel, err := tree.Relative()
	if err != nil {
		return err
	}
	ext := cfg.ResourceExt
	if format == resource.FormatJSON {
		ext = ".json"
	}

	txn := resource.NewTxn()
	defer txn.Rollback()
	for _, dir := range dirs {
		path := filepath.Join(dir, resource.FileName(ns, ext))
		content, err := resource.Render(format, path, rel, text)
		if err != nil {
			return err
		}
		txn.Create(path, content)
	}
	if err := txn.Commit(); err != nil {
		return err
	}
	for _, path := range txn.Paths() {
		log.Info().Str("file", path).Str("key", keytree.Compose(tree, cfg.NsSeparator, cfg.KeySeparator)).Msg("Created resource file")
	}
	return nil
}
