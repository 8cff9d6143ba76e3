package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/quantlab-oss/stratdsl/internal/backtest"
	"github.com/quantlab-oss/stratdsl/internal/datasource"
	"github.com/quantlab-oss/stratdsl/internal/dsl/compiler"
	"github.com/quantlab-oss/stratdsl/internal/dsl/parser"
	"github.com/quantlab-oss/stratdsl/internal/logger"
	"github.com/quantlab-oss/stratdsl/internal/rules"
	"github.com/quantlab-oss/stratdsl/internal/types"
	"github.com/quantlab-oss/stratdsl/internal/version"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// runAction wires the full pipeline: DSL text (or a structured rule
// document) -> AST -> evaluator -> signals -> simulator -> result file.
func runAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	text, err := strategyText(cmd)
	if err != nil {
		return err
	}

	strategy, err := parser.Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse strategy: %w", err)
	}

	compilerConfig, err := loadCompilerConfig(cmd.String("compiler-config"))
	if err != nil {
		return err
	}

	comp, err := compiler.NewCompiler(compilerConfig, nil)
	if err != nil {
		return err
	}

	evaluator, err := comp.Compile(strategy)
	if err != nil {
		return fmt.Errorf("failed to compile strategy: %w", err)
	}

	data, err := loadData(cmd.String("data"), log)
	if err != nil {
		return err
	}

	log.Info("loaded market data",
		zap.String("path", cmd.String("data")),
		zap.Int("rows", len(data)),
	)

	signals, err := evaluator.Evaluate(data)
	if err != nil {
		return fmt.Errorf("failed to evaluate strategy: %w", err)
	}

	backtestConfig, err := loadBacktestConfig(cmd.String("backtest-config"))
	if err != nil {
		return err
	}

	simulator, err := backtest.NewSimulator(backtestConfig, log)
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(data)), "simulating")
	simulator.SetProgressCallback(func(current, total int) {
		_ = bar.Set(current)
	})

	result, err := simulator.Run(data, signals)
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	if output := cmd.String("output"); output != "" {
		if err := types.WriteResult(output, *result); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}

		log.Info("wrote result", zap.String("path", output))

		return nil
	}

	encoded, err := yaml.Marshal(result)
	if err != nil {
		return err
	}

	fmt.Println(string(encoded))

	return nil
}

// strategyText resolves the DSL source: either a raw DSL file or a
// structured rule document rendered through the rules package.
func strategyText(cmd *cli.Command) (string, error) {
	strategyPath := cmd.String("strategy")
	rulesPath := cmd.String("rules")

	switch {
	case strategyPath != "" && rulesPath != "":
		return "", fmt.Errorf("use either --strategy or --rules, not both")

	case strategyPath != "":
		content, err := os.ReadFile(strategyPath)
		if err != nil {
			return "", fmt.Errorf("failed to read strategy file: %w", err)
		}

		return string(content), nil

	case rulesPath != "":
		content, err := os.ReadFile(rulesPath)
		if err != nil {
			return "", fmt.Errorf("failed to read rules file: %w", err)
		}

		doc, err := rules.ParseDocument(content)
		if err != nil {
			return "", err
		}

		return rules.GenerateDSL(doc)

	default:
		return "", fmt.Errorf("either --strategy or --rules is required")
	}
}

func loadData(path string, log *logger.Logger) ([]types.MarketData, error) {
	if strings.HasSuffix(path, ".parquet") {
		source, err := datasource.NewDuckDBSource(path, log)
		if err != nil {
			return nil, err
		}
		defer source.Close()

		return source.Load()
	}

	return datasource.NewCSVSource(path, log).Load()
}

func loadCompilerConfig(path string) (compiler.Config, error) {
	if path == "" {
		return compiler.DefaultConfig(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return compiler.Config{}, fmt.Errorf("failed to read compiler config: %w", err)
	}

	return compiler.ParseConfig(content)
}

func loadBacktestConfig(path string) (backtest.Config, error) {
	if path == "" {
		return backtest.DefaultConfig(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return backtest.Config{}, fmt.Errorf("failed to read backtest config: %w", err)
	}

	return backtest.ParseConfig(content)
}

func main() {
	cmd := &cli.Command{
		Name:    "backtest",
		Usage:   "Compile a strategy DSL file and backtest it over an OHLCV table",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Usage:   "Path to a strategy DSL file",
			},
			&cli.StringFlag{
				Name:    "rules",
				Aliases: []string{"r"},
				Usage:   "Path to a structured rule document (YAML); rendered to DSL before parsing",
			},
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Path to the OHLCV table (.csv or .parquet)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "compiler-config",
				Usage: "YAML file with default indicator periods",
			},
			&cli.StringFlag{
				Name:  "backtest-config",
				Usage: "YAML file with simulator settings",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the result YAML here instead of stdout",
			},
		},
		Action: runAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
