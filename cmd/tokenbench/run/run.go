// Package runcmder provides the run command, which executes one benchmark
// batch against an OpenAI-compatible chat-completion server.
package runcmder

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tokenbench/tokenbench/pkg/bench"
	"github.com/tokenbench/tokenbench/pkg/cliui"
	"github.com/tokenbench/tokenbench/pkg/config"
	"github.com/tokenbench/tokenbench/pkg/logger"
	"github.com/tokenbench/tokenbench/pkg/prompts"
	"github.com/tokenbench/tokenbench/pkg/ram"
	"github.com/tokenbench/tokenbench/pkg/utils"
)

type runCommander struct {
	baseURL string
	model   string
	apiKey  string

	parallel       uint
	requests       uint
	timeoutSeconds uint

	maxTokens   int
	temperature float64
	promptSize  string

	noStream bool
	stream   bool

	logFile string
	debug   bool

	logger *slog.Logger
}

const runLongDesc string = `Run one benchmark batch.

Sends the configured number of chat-completion requests to the server,
at most --parallel at a time, and reports per-request progress followed
by aggregate statistics: wall time, token totals, aggregate and
per-request tokens/sec, and average time-to-first-token for streamed
requests. System RAM usage is sampled in the background while the batch
runs.

Flag values fall back to the config.toml in the .tokenbench/ directory,
then to TOKENBENCH_* environment variables, then to built-in defaults.

Examples:
  tokenbench run
  tokenbench run -p 8 -n 20 --prompt-size medium
  tokenbench run -p 16 -n 50 --max-tokens 512 --prompt-size large
  tokenbench run --base-url http://remote:8000 --model my-model --no-stream`

const runShortDesc string = "Run a benchmark batch against a chat-completion server"

// runFlagKeys lists the registry-backed flags the run command binds to viper.
var runFlagKeys = []string{
	config.FlagBaseURL,
	config.FlagModel,
	config.FlagAPIKey,
	config.FlagParallel,
	config.FlagRequests,
	config.FlagTimeout,
	config.FlagMaxTokens,
	config.FlagTemperature,
	config.FlagPromptSize,
}

func NewRunCmd() *cobra.Command {
	cmder := &runCommander{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: runShortDesc,
		Long:  runLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.RunFlags, runFlagKeys)

			// Resolve through the full precedence chain:
			// flag > env > config file > default.
			cmder.baseURL = v.GetString("server.base_url")
			cmder.model = v.GetString("server.model")
			cmder.apiKey = v.GetString("server.api_key")
			cmder.parallel = v.GetUint("load.parallel")
			cmder.requests = v.GetUint("load.requests")
			cmder.timeoutSeconds = v.GetUint("load.timeout_seconds")
			cmder.maxTokens = v.GetInt("generation.max_tokens")
			cmder.temperature = v.GetFloat64("generation.temperature")
			cmder.promptSize = v.GetString("generation.prompt_size")

			cmder.stream = v.GetBool("generation.stream")
			if cmder.noStream {
				cmder.stream = false
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.RunFlags, config.FlagBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.RunFlags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.RunFlags, config.FlagAPIKey, &cmder.apiKey)
	config.AddUintFlag(cmd, config.RunFlags, config.FlagParallel, &cmder.parallel)
	config.AddUintFlag(cmd, config.RunFlags, config.FlagRequests, &cmder.requests)
	config.AddUintFlag(cmd, config.RunFlags, config.FlagTimeout, &cmder.timeoutSeconds)
	config.AddIntFlag(cmd, config.RunFlags, config.FlagMaxTokens, &cmder.maxTokens)
	config.AddFloat64Flag(cmd, config.RunFlags, config.FlagTemperature, &cmder.temperature)
	config.AddStringFlag(cmd, config.RunFlags, config.FlagPromptSize, &cmder.promptSize)

	cmd.Flags().BoolVar(&cmder.noStream, "no-stream", false, "Disable streaming (streaming is on by default)")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

func (c *runCommander) run(cmd *cobra.Command) error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithWriter(os.Stderr))

	if c.logFile != "" {
		f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer func() { _ = f.Close() }()

		c.logger = logger.Multi(
			c.logger,
			logger.New(logger.WithDebug(c.debug), logger.WithJSON(true), logger.WithWriter(f)),
		)
	}

	runID := uuid.NewString()
	c.logger = c.logger.With("run_id", runID)

	promptList, err := prompts.Pick(int(c.requests), prompts.Size(c.promptSize))
	if err != nil {
		return err
	}

	client := bench.NewClient(bench.ClientConfig{
		BaseURL:     c.baseURL,
		APIKey:      c.apiKey,
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Stream:      c.stream,
		Timeout:     time.Duration(c.timeoutSeconds) * time.Second,
		Logger:      c.logger,
	})
	runner := bench.NewRunner(client, c.parallel, c.logger)

	c.printHeader(runID)

	monitor := ram.NewMonitor(ram.DefaultInterval)
	sampling := true
	if err := monitor.Start(); err != nil {
		c.logger.Warn("memory sampling unavailable", "error", err)
		sampling = false
	}

	width := len(strconv.Itoa(int(c.requests)))
	results, wall := runner.Run(cmd.Context(), promptList, func(n, total int, r bench.Result) {
		printProgress(width, n, total, r)
	})

	var memory ram.Summary
	var haveMemory bool
	if sampling {
		monitor.Stop()
		memory, haveMemory = monitor.Summary()
	}

	summary := bench.Summarize(results, wall)
	if summary == nil {
		c.logger.Error("all requests failed", "requests", len(results))
		fmt.Printf("\n  %s All %d requests failed.\n\n", cliui.FailMark, len(results))
		return nil
	}

	printSummary(summary, memory, haveMemory)

	c.logger.Info("batch complete",
		"ok", summary.OK,
		"errors", summary.Errors,
		"completion_tokens", summary.CompletionTokens,
		"aggregate_tps", summary.AggregateTPS,
		"wall", cliui.FormatDuration(summary.Wall),
	)

	return nil
}

func (c *runCommander) printHeader(runID string) {
	rule := cliui.DimStyle.Render("────────────────────────────────────────────────────────────")

	fmt.Println()
	fmt.Println(rule)
	fmt.Printf(" %s\n", cliui.HeaderStyle.Render(
		fmt.Sprintf("tokenbench — %d requests, %d parallel", c.requests, c.parallel)))
	fmt.Printf(" Server : %s\n", c.baseURL)
	fmt.Printf(" Model  : %s\n", c.model)
	fmt.Printf(" Max tok: %d  |  Prompt size: %s\n", c.maxTokens, c.promptSize)
	fmt.Printf(" Stream : %t\n", c.stream)
	fmt.Printf(" Run ID : %s\n", cliui.DimStyle.Render(runID))
	fmt.Println(rule)
	fmt.Println()
}

// printProgress emits one line per completed request, in completion order.
func printProgress(width, n, total int, r bench.Result) {
	mark := cliui.SuccessMark
	if r.Status != bench.StatusOK {
		mark = cliui.FailMark
	}

	tps := "  n/a   "
	if r.TokensPerSecond > 0 {
		tps = fmt.Sprintf("%6.1f t/s", r.TokensPerSecond)
	}

	ttft := "   n/a "
	if r.TTFT > 0 {
		ttft = fmt.Sprintf("%5dms", r.TTFT.Milliseconds())
	}

	suffix := ""
	if r.Error != "" {
		suffix = "  " + cliui.ErrorStyle.Render("| "+utils.Truncate(r.Error, 80))
	}

	fmt.Printf("  [%*d/%d] %s  %s  TTFT %s  (%4d tok in %.2fs)%s\n",
		width, n, total, mark, tps, ttft,
		r.CompletionTokens, r.TotalTime.Seconds(), suffix,
	)
}

func printSummary(s *bench.Summary, memory ram.Summary, haveMemory bool) {
	rule := cliui.DimStyle.Render("────────────────────────────────────────────────────────────")

	fmt.Println()
	fmt.Println(rule)
	fmt.Printf(" %s\n", cliui.HeaderStyle.Render("RESULTS"))
	fmt.Println(rule)
	fmt.Printf("  Wall time         : %.2fs\n", s.Wall.Seconds())
	fmt.Printf("  Requests          : %d ok / %d errors\n", s.OK, s.Errors)
	fmt.Printf("  Prompt tokens     : %d\n", s.PromptTokens)
	fmt.Printf("  Completion tokens : %d\n", s.CompletionTokens)
	fmt.Println("  ---")
	fmt.Printf("  Aggregate tok/s   : %.1f  %s\n", s.AggregateTPS, cliui.DimStyle.Render("(total tokens / wall time)"))
	fmt.Printf("  Avg tok/s per req : %.1f\n", s.AvgTPS)
	fmt.Printf("  Median tok/s      : %.1f\n", s.MedianTPS)
	fmt.Printf("  Fastest           : %.1f t/s\n", s.Fastest)
	fmt.Printf("  Slowest           : %.1f t/s\n", s.Slowest)
	if s.HasTTFT {
		fmt.Printf("  Avg TTFT          : %dms\n", s.AvgTTFT.Milliseconds())
	}
	if haveMemory {
		fmt.Println("  ---")
		fmt.Printf("  RAM total         : %.1f GB\n", memory.TotalGB)
		fmt.Printf("  RAM start         : %.1f GB\n", memory.StartGB)
		fmt.Printf("  RAM peak          : %.1f GB\n", memory.PeakGB)
		fmt.Printf("  RAM end           : %.1f GB\n", memory.EndGB)
		fmt.Printf("  RAM avg           : %.1f GB\n", memory.AvgGB)
	}
	fmt.Println(rule)
	fmt.Println()
}
