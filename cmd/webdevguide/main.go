package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/webdevguide/internal/catalog"
	"github.com/san-kum/webdevguide/internal/config"
	"github.com/san-kum/webdevguide/internal/export"
	"github.com/san-kum/webdevguide/internal/logging"
	"github.com/san-kum/webdevguide/internal/trace"
	"github.com/san-kum/webdevguide/internal/tui"
	"github.com/san-kum/webdevguide/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	// Playback
	loop  bool
	speed float64
	theme string
	draft bool
	// Trace
	script     string
	scriptFile string
	untilMs    int64
	save       bool
	asJSON     bool
	// Output
	outPath   string
	runID     string
	compact   bool
	plotWidth int

	cfg *config.Config
	cat *catalog.Catalog
)

// main registers the commands and runs the interactive app when no
// subcommand is given. It exits with status 1 when a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:               "webdevguide [topic] [diagram]",
		Short:             "step through how the web works",
		Args:              cobra.MaximumNArgs(2),
		PersistentPreRunE: setup,
		SilenceUsage:      true,
		RunE:              runInteractive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory for recorded traces")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "playback preset")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.BoolVar(&loop, "loop", false, "wrap around instead of completing")
	pf.Float64Var(&speed, "speed", config.DefaultSpeed, "playback speed multiplier")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	pf.BoolVar(&draft, "draft", false, "allow topics that are not published yet")

	topicsCmd := &cobra.Command{
		Use:   "topics",
		Short: "list topics by category",
		Args:  cobra.NoArgs,
		RunE:  listTopics,
	}

	showCmd := &cobra.Command{
		Use:   "show [topic]",
		Short: "show a topic and the steps of its diagrams",
		Args:  cobra.ExactArgs(1),
		RunE:  showTopic,
	}

	playCmd := &cobra.Command{
		Use:   "play [topic] [diagram]",
		Short: "open a diagram in the interactive player",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runInteractive,
	}

	watchCmd := &cobra.Command{
		Use:   "watch [topic] [diagram]",
		Short: "play a diagram in real time as a stream of lines",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  watchDiagram,
	}
	watchCmd.Flags().BoolVar(&compact, "compact", false, "one line per step, no details")

	traceCmd := &cobra.Command{
		Use:   "trace [topic] [diagram]",
		Short: "play a diagram headlessly on a virtual clock and record every step change",
		Args:  cobra.MaximumNArgs(2),
		RunE:  traceDiagram,
	}
	traceCmd.Flags().StringVar(&script, "script", "0:play", "actions as <ms>:<action>, comma separated")
	traceCmd.Flags().StringVar(&scriptFile, "script-file", "", "yaml script file (overrides --script)")
	traceCmd.Flags().Int64Var(&untilMs, "until", 0, "stop after this many ms (default: one full pass after the last action)")
	traceCmd.Flags().BoolVar(&save, "save", false, "save the trace to the data directory")
	traceCmd.Flags().BoolVar(&asJSON, "json", false, "print the trace as JSON")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved traces",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the step index of a saved trace over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 70, "plot width")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved trace to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a saved trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [topic] [diagram]",
		Short: "export a diagram storyboard, or a saved trace timeline, to SVG",
		Args:  cobra.MaximumNArgs(2),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().StringVar(&runID, "run", "", "draw the timeline of a saved trace instead")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "check the catalog and the config file",
		Args:  cobra.NoArgs,
		RunE:  validate,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list playback presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tSPEED\tLOOP\tTHEME")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.2fx\t%v\t%s\n", name, p.Speed, p.Loop, p.Theme)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(topicsCmd, showCmd, playCmd, watchCmd, traceCmd, runsCmd, plotCmd,
		exportJSONCmd, exportCSVCmd, exportSVGCmd, validateCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup resolves the config (file, then preset, then explicit flags),
// installs the logger and loads the catalog.
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		withPreset, ok := cfg.WithPreset(preset)
		if !ok {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = withPreset
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("loop") {
		cfg.Loop = loop
	}
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if len(args) > 0 {
		cfg.Topic = args[0]
	}
	if len(args) > 1 {
		cfg.Diagram = args[1]
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.NewText(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	logging.SetLogger(logger)

	cat, err = catalog.Load()
	return err
}

func lookupDiagram(slug, name string) (*catalog.Topic, *catalog.Diagram, error) {
	if !draft {
		return cat.Diagram(slug, name)
	}
	t, ok := cat.BySlug(slug)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", catalog.ErrNotFound, slug)
	}
	d, err := t.Diagram(name)
	if err != nil {
		return nil, nil, err
	}
	return t, d, nil
}

// runInteractive opens the menu, or the player when a topic was named.
// Draft topics are never opened here.
func runInteractive(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		_, d, err := cat.Diagram(cfg.Topic, cfg.Diagram)
		if err != nil {
			return err
		}
		cfg.Diagram = d.Name
	}
	return viz.RunInteractive(cat, cfg)
}

func listTopics(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tSLUG\tTITLE\tSTATUS\tDIAGRAMS")
	for _, c := range cat.Categories() {
		for _, t := range cat.ByCategory(c) {
			status := "ready"
			if !t.Implemented {
				status = "coming soon"
			}
			fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%d\n", c, t.Slug, t.Icon, t.Title, status, len(t.Diagrams))
		}
	}
	return w.Flush()
}

func showTopic(cmd *cobra.Command, args []string) error {
	t, err := cat.Resolve(args[0])
	if err != nil && !(draft && errors.Is(err, catalog.ErrNotImplemented)) {
		return err
	}
	if t == nil {
		t, _ = cat.BySlug(args[0])
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n%s\n", t.Icon, t.Title, t.Description)
	for _, d := range t.Diagrams {
		fmt.Fprintf(out, "\n%s (%s, %.1fs", d.Title, d.Name, d.Sequence.Total().Seconds())
		if d.Loop {
			fmt.Fprint(out, ", loops")
		}
		fmt.Fprintln(out, ")")

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  #\tID\tLABEL\tDURATION")
		for i, st := range d.Sequence.Steps() {
			fmt.Fprintf(w, "  %d\t%s\t%s\t%dms\n", i+1, st.ID, st.Label, st.DurationMs)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func watchDiagram(cmd *cobra.Command, args []string) error {
	t, d, err := lookupDiagram(cfg.Topic, cfg.Diagram)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return tui.Watch(ctx, t, d, tui.WatchOptions{Loop: cfg.Loop, Speed: cfg.Speed, Compact: compact}, cmd.OutOrStdout())
}

func traceDiagram(cmd *cobra.Command, args []string) error {
	var cmds []trace.Command
	until := time.Duration(untilMs) * time.Millisecond

	if scriptFile != "" {
		s, err := trace.LoadScript(scriptFile)
		if err != nil {
			return fmt.Errorf("failed to load script: %w", err)
		}
		cmds = s.Commands
		if len(args) == 0 && s.Topic != "" {
			cfg.Topic, cfg.Diagram = s.Topic, s.Diagram
		}
		if s.Loop && !cmd.Flags().Changed("loop") {
			cfg.Loop = true
		}
		if s.UntilMs > 0 && !cmd.Flags().Changed("until") {
			until = time.Duration(s.UntilMs) * time.Millisecond
		}
	} else {
		parsed, err := trace.ParseScript(script)
		if err != nil {
			return err
		}
		cmds = parsed
	}

	t, d, err := lookupDiagram(cfg.Topic, cfg.Diagram)
	if err != nil {
		return err
	}

	loops := cfg.Loop || d.Loop
	events, err := trace.Run(d.Sequence, cmds, trace.Options{Loop: loops, Speed: cfg.Speed, Until: until})
	if err != nil {
		return err
	}

	meta := trace.RunMetadata{
		Topic:   t.Slug,
		Diagram: d.Name,
		Loop:    loops,
		Speed:   cfg.Speed,
		Script:  trace.FormatScript(cmds),
		Steps:   d.Steps(),
	}
	if save {
		st := trace.NewStore(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(meta, events)
		if err != nil {
			return err
		}
		meta.ID = id
		fmt.Fprintf(cmd.ErrOrStderr(), "saved: %s\n", id)
	}

	if asJSON {
		return trace.WriteJSON(cmd.OutOrStdout(), meta, events)
	}
	return printEvents(cmd.OutOrStdout(), events)
}

func printEvents(out io.Writer, events []trace.Event) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AT\tINDEX\tSTEP\tSTATUS")
	for _, e := range events {
		fmt.Fprintf(w, "%dms\t%d\t%s\t%s\n", e.AtMs, e.Index, e.StepID, e.Status)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := trace.NewStore(cfg.DataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTOPIC\tDIAGRAM\tTIME\tSCRIPT\tEVENTS\tFINAL")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s@%dms\n",
			run.ID,
			run.Topic,
			run.Diagram,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Script,
			run.Events,
			run.Final,
			run.ElapsedMs,
		)
	}
	return w.Flush()
}

func loadRun(id string) (*trace.RunMetadata, []trace.Event, error) {
	st := trace.NewStore(cfg.DataDir)
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	events, err := st.LoadEvents(id)
	if err != nil {
		return nil, nil, err
	}
	return meta, events, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, events, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(events) < 2 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "diagram: %s/%s\n", meta.Topic, meta.Diagram)
	fmt.Fprintf(out, "events: %d\n\n", len(events))

	resolution := max(events[len(events)-1].AtMs/int64(plotWidth), 1)
	data := trace.IndexSeries(events, resolution)
	graph := asciigraph.Plot(data,
		asciigraph.Height(max(meta.Steps, 4)),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("step index, %dms per column", resolution)),
	)
	fmt.Fprintln(out, graph)
	return nil
}

// output returns the --out file, or stdout when none was given.
func output(cmd *cobra.Command) (io.Writer, func() error, error) {
	if outPath == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, events, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if outPath != "" {
		return trace.ExportJSON(outPath, *meta, events)
	}
	return trace.WriteJSON(cmd.OutOrStdout(), *meta, events)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, events, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, done, err := output(cmd)
	if err != nil {
		return err
	}
	if err := trace.WriteCSV(w, events); err != nil {
		done()
		return err
	}
	return done()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	var svg string
	if runID != "" {
		meta, events, err := loadRun(runID)
		if err != nil {
			return err
		}
		svg = export.TimelineSVG(events, meta.Steps, 800, 300, string(viz.GetTheme(cfg.Theme).Primary))
		if svg == "" {
			return fmt.Errorf("run %s has too few events to draw", runID)
		}
	} else {
		if len(args) == 0 {
			return fmt.Errorf("export-svg needs a topic or --run")
		}
		_, d, err := lookupDiagram(cfg.Topic, cfg.Diagram)
		if err != nil {
			return err
		}
		svg = export.StoryboardSVG(d, viz.GetTheme(cfg.Theme))
	}

	w, done, err := output(cmd)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, svg); err != nil {
		done()
		return err
	}
	return done()
}

func validate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	var jobs []trace.Job[catalog.Visual]
	steps := 0
	for _, t := range cat.Topics() {
		for _, d := range t.Diagrams {
			steps += d.Steps()
			jobs = append(jobs, trace.Job[catalog.Visual]{Name: t.Slug + "/" + d.Name, Seq: d.Sequence})
		}
	}
	fmt.Fprintf(out, "catalog: %d topics, %d diagrams, %d steps\n", len(cat.Topics()), len(jobs), steps)

	// One unlooped pass per diagram must end completed on its last step.
	results, err := trace.NewEnsemble([]trace.Command{{Action: trace.ActionPlay}}, jobs...).Run(cmd.Context())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIAGRAM\tEVENTS\tPASS")
	var failed []string
	for i, r := range results {
		last := r.Events[len(r.Events)-1]
		if last.Status != "completed" || last.Index != jobs[i].Seq.Len()-1 {
			failed = append(failed, r.Name)
		}
		fmt.Fprintf(w, "%s\t%d\t%dms\n", r.Name, len(r.Events), last.AtMs)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(failed) > 0 {
		return fmt.Errorf("diagrams did not complete: %s", strings.Join(failed, ", "))
	}

	if configFile != "" {
		fmt.Fprintf(out, "config: %s ok\n", configFile)
	}
	return nil
}
