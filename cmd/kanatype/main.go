// Package main provides the CLI entrypoint for kanatype.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/kanatype/internal/config"
	"github.com/verte-zerg/kanatype/internal/generator"
	"github.com/verte-zerg/kanatype/internal/kana"
	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/romaji"
	"github.com/verte-zerg/kanatype/internal/scoring"
	"github.com/verte-zerg/kanatype/internal/session"
	"github.com/verte-zerg/kanatype/internal/stats"
	"github.com/verte-zerg/kanatype/internal/statsui"
	"github.com/verte-zerg/kanatype/internal/store"
	"github.com/verte-zerg/kanatype/internal/timing"
	"github.com/verte-zerg/kanatype/internal/tui"
	"github.com/verte-zerg/kanatype/internal/wordfreq"
	"github.com/verte-zerg/kanatype/internal/wordlist"
)

const (
	defaultMode            = "balanced"
	defaultWords           = 20
	defaultDifficulty      = "normal"
	defaultKpsWindow       = timing.DefaultKpsWindow
	defaultCurveWindow     = 10
	defaultTerminalWidth   = 80
	defaultWeakKeys        = stats.DefaultWeakKeys
	defaultWeakTransitions = stats.DefaultWeakTransitions
	defaultSeedSize        = 300
)

var (
	practiceMode       string
	practiceWords      int
	practiceDifficulty string
	practiceSRS        bool
	practiceWarmup     bool
	practiceTimeMode   string
	practiceTimeLimit  float64

	addReading string
	addRomaji  string

	statsLast        int
	statsCurveWindow int
	statsWeakKeys    int
	statsPlain       bool

	seedSize int
)

func main() {
	if err := config.LoadEnv(config.DefaultEnvPaths()...); err != nil {
		logErrf("%v\n", err)
	}
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "kanatype",
		Short:         "Japanese romaji typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	limits := timing.DefaultTimeLimits()
	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "practice mode: balanced, weakness, review, random")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per session")
	rootCmd.Flags().StringVar(&practiceDifficulty, "difficulty", defaultDifficulty, "difficulty preset: easy, normal, hard, expert")
	rootCmd.Flags().BoolVar(&practiceSRS, "srs", true, "weight words by review schedule")
	rootCmd.Flags().BoolVar(&practiceWarmup, "warmup", true, "start sessions with easier words")
	rootCmd.Flags().StringVar(&practiceTimeMode, "time-mode", string(limits.Mode), "countdown mode: adaptive or fixed")
	rootCmd.Flags().Float64Var(&practiceTimeLimit, "time-limit", limits.Fixed, "fixed countdown in seconds (implies --time-mode fixed)")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newVariantsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := resolvePracticeConfig(cmd, fileCfg)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	count, err := wordCount(ctx, st)
	if err != nil {
		return err
	}
	if count == 0 {
		return errors.New("no words yet\nAdd one: kanatype add 寿司\nImport a list: kanatype import words.txt")
	}

	var last *model.GameScoreRecord
	recent, err := st.ListRecentScores(ctx, 1)
	if err != nil {
		logErrf("failed to load last score: %v\n", err)
	} else if len(recent) > 0 {
		last = &recent[0]
	}

	plan := newPlanner(st, cfg, generator.New(), romaji.NewMatcher(0))
	m, err := tui.NewModel(st, plan, last)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolvePracticeConfig merges flags over the config file over defaults.
func resolvePracticeConfig(cmd *cobra.Command, fileCfg config.FileConfig) (model.Config, error) {
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyBoolConfig(cmd, "srs", &practiceSRS, fileCfg.Practice.SRS)
	applyBoolConfig(cmd, "warmup", &practiceWarmup, fileCfg.Practice.Warmup)
	applyStringConfig(cmd, "difficulty", &practiceDifficulty, fileCfg.Difficulty.Preset)

	mode, err := model.ParsePracticeMode(practiceMode)
	if err != nil {
		return model.Config{}, fmt.Errorf("invalid --mode: %w", err)
	}
	if practiceWords <= 0 {
		return model.Config{}, fmt.Errorf("--words must be > 0")
	}

	difficulty, err := config.ResolveDifficulty(practiceDifficulty, fileCfg.Difficulty)
	if err != nil {
		return model.Config{}, err
	}

	timeCfg := fileCfg.Time
	if cmd.Flags().Changed("time-mode") {
		timeCfg.Mode = &practiceTimeMode
	}
	if cmd.Flags().Changed("time-limit") {
		timeCfg.Fixed = &practiceTimeLimit
		if !cmd.Flags().Changed("time-mode") {
			fixed := string(model.TimeFixed)
			timeCfg.Mode = &fixed
		}
	}
	limits, err := config.ResolveTimeLimits(timeCfg)
	if err != nil {
		return model.Config{}, err
	}

	cfg := model.Config{
		Mode:            mode,
		Words:           practiceWords,
		SRSEnabled:      practiceSRS,
		WarmupEnabled:   practiceWarmup,
		WeakKeys:        defaultWeakKeys,
		WeakTransitions: defaultWeakTransitions,
		KpsWindow:       defaultKpsWindow,
		TimeLimit:       limits,
		Difficulty:      difficulty,
	}
	if v := fileCfg.Practice.WeakKeys; v != nil {
		cfg.WeakKeys = *v
	}
	if v := fileCfg.Practice.WeakTransitions; v != nil {
		cfg.WeakTransitions = *v
	}
	if v := fileCfg.Practice.KpsWindow; v != nil {
		cfg.KpsWindow = *v
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// newPlanner returns a tui.Planner that selects words and loads history from
// the store for each run.
func newPlanner(st *store.Store, cfg model.Config, gen *generator.Generator, matcher *romaji.Matcher) tui.Planner {
	return func(now time.Time) (session.Config, error) {
		ctx := context.Background()
		words, err := st.ListWords(ctx)
		if err != nil {
			return session.Config{}, fmt.Errorf("failed to load words: %w", err)
		}
		if len(words) == 0 {
			return session.Config{}, errors.New("no words to practice")
		}
		scores, err := st.ListRecentTimedScores(ctx, cfg.KpsWindow)
		if err != nil {
			return session.Config{}, fmt.Errorf("failed to load scores: %w", err)
		}
		outcomes, err := st.RecentOutcomes(ctx, scoring.RecentOutcomeWindow)
		if err != nil {
			return session.Config{}, fmt.Errorf("failed to load outcomes: %w", err)
		}
		keys, transitions, err := st.LoadKeyStats(ctx)
		if err != nil {
			return session.Config{}, fmt.Errorf("failed to load key stats: %w", err)
		}

		scoreCtx := scoring.NewContext(
			stats.SelectWeakKeys(keys, cfg.WeakKeys),
			stats.SelectWeakTransitions(transitions, cfg.WeakTransitions),
			outcomes,
			scoring.Options{
				Mode:          cfg.Mode,
				SRSEnabled:    cfg.SRSEnabled,
				WarmupEnabled: cfg.WarmupEnabled,
				Now:           now,
			},
		)
		return session.Config{
			Words:      gen.Select(words, cfg.Words, scoreCtx),
			Matcher:    matcher,
			Analyzer:   stats.NewAnalyzer(keys, transitions),
			Kps:        timing.RecentKps(scores, cfg.KpsWindow),
			Limits:     cfg.TimeLimit,
			Difficulty: cfg.Difficulty,
		}, nil
	}
}

func wordCount(ctx context.Context, st *store.Store) (int, error) {
	words, err := st.ListWords(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load words: %w", err)
	}
	return len(words), nil
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add TEXT",
		Short: "Add a word",
		Args:  cobra.ExactArgs(1),
		RunE:  runAddCmd,
	}
	cmd.Flags().StringVar(&addReading, "reading", "", "kana reading (looked up when empty)")
	cmd.Flags().StringVar(&addRomaji, "romaji", "", "romaji (derived from the reading when empty)")
	return cmd
}

func runAddCmd(cmd *cobra.Command, args []string) error {
	entry := wordlist.Entry{
		Text:    strings.TrimSpace(args[0]),
		Reading: strings.TrimSpace(addReading),
		Romaji:  strings.ToLower(strings.TrimSpace(addRomaji)),
		Line:    1,
	}
	if entry.Text == "" {
		return fmt.Errorf("word must not be empty")
	}
	var tr wordlist.Transliterator
	if entry.Reading == "" && entry.Romaji == "" {
		reader, err := kana.NewReader()
		if err != nil {
			return err
		}
		tr = reader
	}
	words, errs := wordlist.Complete([]wordlist.Entry{entry}, tr)
	if len(errs) > 0 {
		return errs[0]
	}

	st, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	word := words[0]
	id, err := st.AddWord(context.Background(), word)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n", id, word.Text, word.Reading, word.Romaji); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import words from a .txt, .tsv or .xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	entries, err := wordlist.LoadEntries(args[0])
	if err != nil {
		return fmt.Errorf("failed to load word list: %w", err)
	}
	var tr wordlist.Transliterator
	for _, e := range entries {
		if e.Reading == "" && e.Romaji == "" && !kana.IsKana(e.Text) {
			reader, err := kana.NewReader()
			if err != nil {
				return err
			}
			tr = reader
			break
		}
	}
	words, errs := wordlist.Complete(entries, tr)
	for _, err := range errs {
		logErrf("skipped %v\n", err)
	}

	st, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	for _, word := range words {
		if _, err := st.AddWord(ctx, word); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d words (%d skipped)\n", len(words), len(errs)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Add frequent Japanese words from the wordfreq dataset",
		Args:  cobra.NoArgs,
		RunE:  runSeedCmd,
	}
	cmd.Flags().IntVar(&seedSize, "size", defaultSeedSize, "number of words")
	return cmd
}

func runSeedCmd(cmd *cobra.Command, _ []string) error {
	if seedSize <= 0 {
		return fmt.Errorf("--size must be greater than 0")
	}
	ctx := context.Background()
	logErrln("Fetching wordfreq metadata...")
	wheel, err := wordfreq.DownloadLatestWheel(ctx, wordfreq.PyPIEndpoint, config.DefaultWordfreqCacheDir())
	if err != nil {
		return fmt.Errorf("failed to download wordfreq wheel: %w", err)
	}
	if wheel.Cached {
		logErrf("Using cached wheel %s\n", wheel.Filename)
	} else {
		logErrf("Downloaded wheel %s\n", wheel.Filename)
	}
	texts, err := wordfreq.ExtractJapanese(wheel.Path, seedSize)
	if err != nil {
		return fmt.Errorf("failed to extract word list: %w", err)
	}

	reader, err := kana.NewReader()
	if err != nil {
		return err
	}
	entries := make([]wordlist.Entry, 0, len(texts))
	for i, text := range texts {
		entries = append(entries, wordlist.Entry{Text: text, Line: i + 1})
	}
	words, errs := wordlist.Complete(entries, reader)

	st, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	for _, word := range words {
		if _, err := st.AddWord(ctx, word); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d words (%d without a typeable reading)\n%s\n", len(words), len(errs), wordfreq.Attribution); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List words with their mastery",
		Args:  cobra.NoArgs,
		RunE:  runListCmd,
	}
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	words, err := st.ListWords(context.Background())
	if err != nil {
		return err
	}
	if err := stats.RenderWordTable(cmd.OutOrStdout(), words, time.Now()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Remove a word and its history",
		Args:  cobra.ExactArgs(1),
		RunE:  runRemoveCmd,
	}
}

func runRemoveCmd(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid word id %q", args[0])
	}
	st, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	return st.DeleteWord(context.Background(), id)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsWeakKeys, "weak-keys", defaultWeakKeys, "number of weak keys to show")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print text instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	cfg := model.StatsConfig{
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		WeakKeys:    statsWeakKeys,
	}

	st, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if !statsPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Scores); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCurve(out, report.Scores, cfg.CurveWindow, terminalWidth()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderKeyTable(out, report.Keys, report.WeakKeys); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderTransitionTable(out, report.Transitions, report.WeakTransitions); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultTerminalWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return width
}

func newVariantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants ROMAJI [INPUT]",
		Short: "Print accepted spellings, optionally checking an input",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runVariantsCmd,
	}
}

func runVariantsCmd(cmd *cobra.Command, args []string) error {
	target := args[0]
	if kana.IsKana(target) {
		target = kana.Romanize(target)
	}
	matcher := romaji.NewMatcher(0)
	out := cmd.OutOrStdout()
	for _, v := range matcher.Variants(target) {
		if _, err := fmt.Fprintln(out, v); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if len(args) < 2 {
		return nil
	}
	res := matcher.Validate(target, args[1])
	status := "rejected"
	switch {
	case res.IsCorrect:
		status = "complete"
	case res.Progress > 0:
		status = fmt.Sprintf("partial %.0f%% (next %q)", res.Progress*100, matcher.ExpectedNext(target, args[1]))
	}
	if _, err := fmt.Fprintf(out, "\n%s: %s\n", args[1], status); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	limits := timing.DefaultTimeLimits()
	normal, _ := timing.Preset(model.PresetNormal)
	return fmt.Sprintf(`# kanatype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# mode = %q          # balanced, weakness, review or random
# words = %d                # Words per session
# srs = true                # Weight words by review schedule
# warmup = true             # Start sessions with easier words
# weak-keys = %d            # Weak keys considered when scoring words
# weak-transitions = %d     # Weak key pairs considered when scoring words
# kps-window = %d           # Recent sessions averaged for the typing speed

[time]
# mode = %q          # adaptive or fixed
# fixed = %.1f              # Countdown in fixed mode, seconds
# min = %.1f                 # Shortest adaptive countdown, seconds
# max = %.1f                # Longest adaptive countdown, seconds

[difficulty]
# preset = %q          # easy, normal, hard or expert
# Setting any value below turns the preset into a custom difficulty.
# target-kps-multiplier = %.1f
# comfort-zone-ratio = %.1f
# min-time-limit = %.1f
# miss-penalty = %t
# base-penalty-percent = %.1f
# penalty-escalation-factor = %.1f
# max-penalty-percent = %.1f
# min-time-after-penalty = %.1f
`,
		defaultMode,
		defaultWords,
		defaultWeakKeys,
		defaultWeakTransitions,
		defaultKpsWindow,
		string(limits.Mode),
		limits.Fixed,
		limits.Min,
		limits.Max,
		defaultDifficulty,
		normal.TargetKpsMultiplier,
		normal.ComfortZoneRatio,
		normal.MinTimeLimit,
		normal.MissPenaltyEnabled,
		normal.BasePenaltyPercent,
		normal.PenaltyEscalationFactor,
		normal.MaxPenaltyPercent,
		normal.MinTimeAfterPenalty,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.WeakKeys < 0 {
		return fmt.Errorf("weak-keys must be >= 0")
	}
	if cfg.WeakTransitions < 0 {
		return fmt.Errorf("weak-transitions must be >= 0")
	}
	if cfg.KpsWindow <= 0 {
		return fmt.Errorf("kps-window must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
