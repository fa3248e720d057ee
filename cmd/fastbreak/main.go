package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/fast-break/internal/config"
	"github.com/yourusername/fast-break/internal/database"
	"github.com/yourusername/fast-break/internal/fetch"
	"github.com/yourusername/fast-break/internal/lines"
	"github.com/yourusername/fast-break/internal/logger"
	"github.com/yourusername/fast-break/internal/models"
	"github.com/yourusername/fast-break/internal/odds"
	"github.com/yourusername/fast-break/internal/repository"
	"github.com/yourusername/fast-break/internal/service"
	"github.com/yourusername/fast-break/internal/sim"
	"github.com/yourusername/fast-break/internal/store"
	"github.com/yourusername/fast-break/internal/update"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLogger  *logrus.Logger
	audit      *logger.AuditLogger
	teamStore  *store.FileStore
	fetcher    *fetch.SportsRefClient
	httpClient *fetch.RateLimitedHTTPClient
	db         *database.DB
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	simCmd.Flags().IntVar(&simDraws, "draws", 0, "Number of Monte Carlo draws (default from config)")
	simCmd.Flags().Int64Var(&simSeed, "seed", 0, "Random seed, 0 means time-based")
	simCmd.Flags().Float64Var(&simSpread, "spread", 0, "Market spread to evaluate (away minus home)")
	simCmd.Flags().BoolVar(&simFetchLine, "line", false, "Fetch the current market line for comparison")

	slateCmd.Flags().StringVar(&slateDate, "date", "", "Slate date as YYYY-MM-DD (default today)")

	rootCmd.AddCommand(pullCmd, updateCmd, simCmd, slateCmd)
}

var rootCmd = &cobra.Command{
	Use:   "fastbreak",
	Short: "Team statistics store and Monte Carlo game simulator",
	Long:  `Maintains per-team player game logs from fetched box scores and simulates matchups by drawing player scores from fitted distributions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	audit = logger.NewAuditLogger(appLogger)

	teamStore, err = store.NewFileStore(cfg.Store.Dir)
	if err != nil {
		return fmt.Errorf("failed to open team store: %w", err)
	}

	httpCfg := fetch.DefaultHTTPClientConfig()
	if cfg.Fetcher.RateLimit > 0 {
		httpCfg.RateLimit = cfg.Fetcher.RateLimit
	}
	if cfg.Fetcher.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.Fetcher.TimeoutSeconds) * time.Second
	}
	if cfg.Fetcher.MaxRetries > 0 {
		httpCfg.MaxRetries = cfg.Fetcher.MaxRetries
	}
	if cfg.Fetcher.UserAgent != "" {
		httpCfg.UserAgent = cfg.Fetcher.UserAgent
	}
	httpClient = fetch.NewRateLimitedHTTPClient(httpCfg, log.New(os.Stderr, "http: ", log.LstdFlags))

	baseURL := cfg.Fetcher.BaseURL
	if baseURL == "" {
		baseURL = "https://www.sports-reference.com"
	}
	fetcher = fetch.NewSportsRefClient(httpClient, baseURL, cfg.Fetcher.Season)

	if cfg.Database.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err = database.Initialize(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to game log index: %w", err)
		}
	}

	return nil
}

func teardown() {
	if httpClient != nil {
		httpClient.Close()
	}
	if db != nil {
		db.Close()
	}
}

func newEngine() *update.Engine {
	opts := []update.Option{}
	if db != nil {
		opts = append(opts, update.WithIndex(repository.NewPostgresGameLogIndex(db)))
	}
	return update.NewEngine(teamStore, fetcher, appLogger, opts...)
}

func lineProvider() lines.LineProvider {
	if !cfg.Lines.Enabled || cfg.Lines.APIKey == "" {
		return nil
	}
	return lines.NewOddsAPIClient(httpClient, cfg.Lines.BaseURL, cfg.Lines.SportKey, cfg.Lines.APIKey)
}

var pullCmd = &cobra.Command{
	Use:   "pull <team-id> [team-id...]",
	Short: "Bootstrap team stores from full season game logs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := newEngine()
		for _, teamID := range args {
			if err := engine.Pull(cmd.Context(), teamID); err != nil {
				return fmt.Errorf("pull %s: %w", teamID, err)
			}
			if record, err := teamStore.Load(teamID); err == nil {
				audit.LogPull(teamID, len(record.Players))
			}
			fmt.Printf("Pulled %s\n", teamID)
		}
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <team-id> [team-id...]",
	Short: "Merge newly played games into team stores",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := newEngine()
		for _, teamID := range args {
			report, err := engine.Update(cmd.Context(), teamID)
			if err != nil {
				return fmt.Errorf("update %s: %w", teamID, err)
			}
			audit.LogUpdateRun(report)
			printUpdateReport(report)
		}
		return nil
	},
}

func printUpdateReport(report *models.UpdateReport) {
	if report.AlreadyCurrent() {
		fmt.Printf("%s: already up to date\n", report.TeamID)
		return
	}
	fmt.Printf("%s: %d games appended", report.TeamID, report.GamesAppended)
	if len(report.Errors) > 0 {
		fmt.Printf(", %d errors", len(report.Errors))
	}
	fmt.Println()
	for _, e := range report.Errors {
		fmt.Printf("  %s vs %s: %s\n", e.GameDate.Format("2006-01-02"), e.Opponent, e.Reason)
	}
}

var (
	simDraws     int
	simSeed      int64
	simSpread    float64
	simFetchLine bool
)

var simCmd = &cobra.Command{
	Use:   "sim <home-team-id> <away-team-id>",
	Short: "Simulate a matchup and print model odds",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		homeID, awayID := args[0], args[1]

		simCfg := sim.Config{Draws: cfg.Simulation.Draws, Seed: cfg.Simulation.Seed}
		if simDraws > 0 {
			simCfg.Draws = simDraws
		}
		if simSeed != 0 {
			simCfg.Seed = simSeed
		}

		simulator := sim.NewSimulator(teamStore, appLogger)
		result, err := simulator.Simulate(cmd.Context(), homeID, awayID, simCfg)
		if err != nil {
			return err
		}
		audit.LogSimulation(homeID, awayID, result.Draws, result.HomeWinProbability, result.MeanSpread)

		printSimResult(result)

		if cmd.Flags().Changed("spread") {
			coverProb := sim.ProbabilityOfValue(result.SpreadSamples, simSpread)
			fmt.Printf("\nP(spread < %+.1f): %.4f  (home covers: %s)\n",
				simSpread, coverProb, fairLine(coverProb))
		}

		if simFetchLine {
			compareMarketLine(cmd.Context(), result)
		}
		return nil
	},
}

// fairLine formats a probability as a moneyline, or n/a when every draw
// went one way and no finite line exists.
func fairLine(p float64) string {
	if p <= 0 || p >= 1 {
		return "n/a"
	}
	return odds.Moneyline(p)
}

func printSimResult(result *sim.Result) {
	homeP := result.HomeWinProbability
	awayP := 1 - homeP

	fmt.Printf("\n%s vs %s  (%d draws)\n\n", result.HomeTeamID, result.AwayTeamID, result.Draws)
	fmt.Printf("%-20s %10s %10s\n", "", "win prob", "fair line")
	fmt.Printf("%-20s %10.4f %10s\n", result.HomeTeamID, homeP, fairLine(homeP))
	fmt.Printf("%-20s %10.4f %10s\n", result.AwayTeamID, awayP, fairLine(awayP))
	fmt.Printf("\nMean spread (away - home): %+.2f\n", result.MeanSpread)
}

func compareMarketLine(ctx context.Context, result *sim.Result) {
	provider := lineProvider()
	if provider == nil {
		fmt.Println("\nMarket line comparison requires lines.enabled and an API key")
		return
	}

	line, err := provider.FetchLine(ctx, result.HomeTeamID, result.AwayTeamID)
	if err != nil {
		fmt.Printf("\nNo market line available: %v\n", err)
		return
	}

	homeML, _ := line.HomeMoneyline.Float64()
	awayML, _ := line.AwayMoneyline.Float64()
	marketHome := odds.ImpliedProbability(homeML)
	marketAway := odds.ImpliedProbability(awayML)

	fmt.Printf("\n%-20s %10s %10s %10s\n", "", "model", "market", "edge")
	fmt.Printf("%-20s %10.4f %10.4f %+10.4f\n",
		result.HomeTeamID, result.HomeWinProbability, marketHome, result.HomeWinProbability-marketHome)
	fmt.Printf("%-20s %10.4f %10.4f %+10.4f\n",
		result.AwayTeamID, 1-result.HomeWinProbability, marketAway, (1-result.HomeWinProbability)-marketAway)
	if !line.Spread.IsZero() {
		fmt.Printf("\nMarket spread: %s   model mean spread: %+.2f\n", line.Spread.String(), result.MeanSpread)
	}
}

var slateDate string

var slateCmd = &cobra.Command{
	Use:   "slate",
	Short: "Simulate every tracked matchup on a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now().UTC()
		if slateDate != "" {
			parsed, err := time.Parse("2006-01-02", slateDate)
			if err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
			date = parsed
		}

		if len(cfg.Sync.Teams) == 0 {
			return fmt.Errorf("no tracked teams configured under sync.teams")
		}

		simulator := sim.NewSimulator(teamStore, appLogger)
		slate := service.NewSlateService(teamStore, fetcher, simulator, lineProvider(), cfg.Sync.Teams, appLogger)

		simCfg := sim.Config{Draws: cfg.Simulation.Draws, Seed: cfg.Simulation.Seed}
		report, err := slate.Run(cmd.Context(), date, simCfg)
		if err != nil {
			return err
		}

		printSlateReport(report)
		return nil
	},
}

func printSlateReport(report *service.SlateReport) {
	fmt.Printf("\nSlate for %s  (%d games)\n\n", report.Date.Format("2006-01-02"), len(report.Entries))
	if len(report.Entries) == 0 {
		fmt.Println("No tracked matchups found")
	}

	fmt.Printf("%-36s %10s %10s %10s\n", "matchup", "home win", "fair line", "edge")
	for _, entry := range report.Entries {
		matchup := fmt.Sprintf("%s vs %s", entry.Game.HomeTeamID, entry.Game.AwayTeamID)
		edge := ""
		if entry.Line != nil {
			edge = fmt.Sprintf("%+.4f", entry.HomeModelEdge)
		}
		fmt.Printf("%-36s %10.4f %10s %10s\n",
			matchup, entry.Result.HomeWinProbability,
			fairLine(entry.Result.HomeWinProbability), edge)
	}

	for _, skipped := range report.Skipped {
		fmt.Printf("skipped: %s\n", skipped)
	}
}
