package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ankurkotwal/quotecard/qc"
	"github.com/ankurkotwal/quotecard/qc/common"
	"github.com/ankurkotwal/quotecard/qc/compose"
	"github.com/ankurkotwal/quotecard/qc/store"
)

type options struct {
	configFile string
	debugMode  bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          filepath.Base(os.Args[0]),
		Short:        "Composite random quotes onto random backgrounds",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "config/config.yaml",
		"Configuration file. Defaults are used if it does not exist.")
	root.PersistentFlags().BoolVarP(&opts.debugMode, "debug", "d", false,
		"Enable debug mode & deploy pprof handlers.")

	root.AddCommand(
		newServeCommand(opts),
		newComposeCommand(opts),
		newImportCommand(opts),
		newFontsCommand(opts),
	)
	return root
}

func loadConfig(opts *options) (*common.Config, error) {
	if _, err := os.Stat(opts.configFile); os.IsNotExist(err) {
		return common.DefaultConfig(), nil
	}
	config, err := common.LoadConfig(opts.configFile)
	if err != nil {
		return nil, err
	}
	if opts.debugMode || config.DebugOutput {
		common.NewLog().Dbg("%s", common.YamlObjectAsString(config, "Config"))
	}
	return config, nil
}

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the composer (and the quote service when a database is configured)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(opts)
			if err != nil {
				return err
			}
			var lines *store.Store
			if len(config.DatabaseFile) > 0 {
				if lines, err = store.Open(config.DatabaseFile); err != nil {
					return err
				}
				defer lines.Close()
			}
			router, port := qc.GetServer(opts.debugMode, config, qc.NewDeps(config), lines)
			return router.Run(port)
		},
	}
}

func newComposeCommand(opts *options) *cobra.Command {
	var outDir string
	var seed int64
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose one quote image and save it to a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(opts)
			if err != nil {
				return err
			}
			var rng common.Rand
			if cmd.Flags().Changed("seed") {
				rng = common.NewRand(seed)
			}
			session := compose.NewSession(qc.NewDeps(config), rng)
			file, err := session.Compose(cmd.Context(), compose.FileSink{Dir: outDir})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", filepath.Join(outDir, file.Name))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory to save the image to.")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for font and size selection.")
	return cmd
}

func newImportCommand(opts *options) *cobra.Command {
	var dbFile string
	cmd := &cobra.Command{
		Use:   "import DIR",
		Short: "Import transcripts into the quote database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if len(dbFile) == 0 {
				dbFile = config.DatabaseFile
			}
			if len(dbFile) == 0 {
				return fmt.Errorf("no database file: set DatabaseFile or --db")
			}
			lines, err := store.Open(dbFile)
			if err != nil {
				return err
			}
			defer lines.Close()
			_, err = lines.Import(cmd.Context(), args[0], common.NewLog())
			return err
		},
	}
	cmd.Flags().StringVar(&dbFile, "db", "", "Database file. Overrides DatabaseFile.")
	return cmd
}

func newFontsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fonts",
		Short: "List the font catalog and the font each family renders with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(tableStyle(isTerminal(out)))
			t.AppendHeader(table.Row{"#", "Family", "Renders With"})
			for i, family := range common.FontCatalog() {
				t.AppendRow(table.Row{i + 1, family, common.FontSource(config, family)})
			}
			t.Render()
			return nil
		},
	}
}

// isTerminal reports whether w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// tableStyle colours tables on terminals and keeps them plain otherwise
func tableStyle(colour bool) table.Style {
	if colour {
		return table.StyleColoredBright
	}
	return table.StyleDefault
}
