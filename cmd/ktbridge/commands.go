package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ktbridge/internal/bridge"
	"ktbridge/internal/crawler"
	"ktbridge/internal/export"
	"ktbridge/internal/ir"
	"ktbridge/internal/pipeline"
	"ktbridge/internal/printer"
	"ktbridge/internal/source"
)

var (
	outDir   string
	validate bool
	noCache  bool
	baseRef  string
	force    bool
	asJSON   bool
	srcPath  string
)

func init() {
	convertCmd.Flags().StringVarP(&outDir, "out", "o", "", "Write one JSON export per file into this directory")
	convertCmd.Flags().BoolVar(&validate, "validate", false, "Validate exports against the bundled schema")
	convertCmd.Flags().BoolVar(&noCache, "no-cache", false, "Convert every file and record nothing")

	updateCmd.Flags().StringVar(&baseRef, "base", "HEAD", "Git ref the working tree is compared against")
	updateCmd.Flags().BoolVar(&force, "force", false, "Convert everything when git reports no changes")

	printCmd.Flags().BoolVar(&asJSON, "json", false, "Print the JSON export instead of Kotlin text")
	printCmd.Flags().StringVarP(&srcPath, "source", "s", "", "Kotlin source of the dump (default: next to the dump)")
}

var convertCmd = &cobra.Command{
	Use:   "convert [root]",
	Short: "Convert every IR dump under root",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd, !noCache)
		if err != nil {
			return err
		}
		defer e.Close()
		if cmd.Flags().Changed("out") {
			e.cfg.Convert.OutDir = outDir
		}
		if validate {
			e.cfg.Convert.Validate = true
		}

		root, err := resolveRoot(rootArg(e, args))
		if err != nil {
			return err
		}
		fmt.Printf("Scanning %s...\n", root)
		units, err := e.crawler().Collect(root)
		if err != nil {
			return fmt.Errorf("failed to scan project: %w", err)
		}
		fmt.Printf("Found %d IR dumps.\n", len(units))

		report, err := e.newPipeline(root).Run(cmd.Context(), units)
		if err != nil {
			return err
		}
		report.Write(os.Stdout)
		return failIfAny(report)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Convert only the dumps whose files changed since a git ref",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		root, err := resolveRoot(e.cfg.Project.Root)
		if err != nil {
			return err
		}
		sync := pipeline.NewIncrementalSync(root, e.newPipeline(root), e.store)
		sync.BaseRef = baseRef
		sync.Crawler = e.crawler()
		sync.Out = os.Stdout

		report, err := sync.Run(cmd.Context(), force)
		if err != nil {
			return err
		}
		if len(report.Results) > 0 {
			report.Write(os.Stdout)
		}
		return failIfAny(report)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [root]",
	Short: "Convert all dumps, then reconvert them as they change",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		root, err := resolveRoot(rootArg(e, args))
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		c := e.crawler()
		p := e.newPipeline(root)
		units, err := c.Collect(root)
		if err != nil {
			return fmt.Errorf("failed to scan project: %w", err)
		}
		report, err := p.Run(ctx, units)
		if err != nil {
			return err
		}
		report.Write(os.Stdout)

		fmt.Printf("Watching %s (Ctrl-C to stop)...\n", root)
		return p.Watch(ctx, root, c, func(r pipeline.Result) {
			switch {
			case r.Skipped:
			case r.Failed():
				fmt.Printf("FAIL %s: %v\n", r.Unit.Dump, r.Err)
			default:
				fmt.Printf("converted %s\n", r.Unit.Dump)
			}
		})
	},
}

var printCmd = &cobra.Command{
	Use:   "print <dump>",
	Short: "Convert one IR dump and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		f, err := ir.DecodeFile(args[0])
		if err != nil {
			return err
		}
		src := srcPath
		if src == "" {
			src = crawler.UnitFor(args[0]).Source
		}
		var helper source.Helper
		if src != "" {
			k, err := source.OpenKotlin(cmd.Context(), src)
			if err != nil {
				return err
			}
			helper = k
		}

		opts := e.pipelineOptions(".").Bridge
		unit, msgs, err := bridge.NewBuilder(e.logger, opts).ConvertFile(f, helper)
		for _, m := range msgs {
			fmt.Fprintln(os.Stderr, m)
		}
		if err != nil {
			return err
		}

		if !asJSON {
			fmt.Print(printer.Print(unit))
			return nil
		}
		data, err := export.Marshal(unit)
		if err != nil {
			return err
		}
		if e.cfg.Convert.Validate {
			if err := export.Validate(data); err != nil {
				e.logger.Error("export does not match schema", zap.Error(err))
				return err
			}
		}
		fmt.Println(string(data))
		return nil
	},
}

func rootArg(e *env, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return e.cfg.Project.Root
}
