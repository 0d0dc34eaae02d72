package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/cosim/config"
	"github.com/sarchlab/cosim/scenario"
	"github.com/sarchlab/cosim/simulation"
)

var runFlags struct {
	record      bool
	recordPath  string
	monitor     bool
	port        int
	browser     bool
	logEvents   bool
	timeStepMs  float64
	logLevelArg string
}

var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Run a scenario and print a summary.",
	Long: "`run scenario.yaml` creates the populations of the scenario on " +
		"the reference engine, schedules its presentations and rate " +
		"calculations, and runs until end_ms or until no event is pending.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRunConfig(cmd)
		if err != nil {
			return err
		}

		return runScenario(cmd.OutOrStdout(), cfg, args[0])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.BoolVar(&runFlags.record, "record", false,
		"Record every handled event into SQLite")
	f.StringVar(&runFlags.recordPath, "record-path", "",
		"Recording file name without the .sqlite3 extension")
	f.BoolVar(&runFlags.monitor, "monitor", false,
		"Serve the monitoring page while running")
	f.IntVar(&runFlags.port, "port", 0,
		"Port of the monitoring server, random if 0")
	f.BoolVar(&runFlags.browser, "browser", false,
		"Open the monitoring page in a browser")
	f.BoolVar(&runFlags.logEvents, "log-events", false,
		"Log every handled event")
	f.Float64Var(&runFlags.timeStepMs, "time-step", 0.1,
		"Step of the continuous engine in ms")
	f.StringVar(&runFlags.logLevelArg, "log-level", "info",
		"Log level (panic, fatal, error, warn, info, debug, trace)")
}

// loadRunConfig reads the environment and lets explicit flags win.
func loadRunConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("record") {
		cfg.Record = runFlags.record
	}

	if flags.Changed("record-path") {
		cfg.RecordPath = runFlags.recordPath
		cfg.Record = true
	}

	if flags.Changed("monitor") {
		cfg.Monitor = runFlags.monitor
	}

	if flags.Changed("port") {
		cfg.MonitorPort = runFlags.port
	}

	if flags.Changed("browser") {
		cfg.OpenBrowser = runFlags.browser
	}

	if flags.Changed("time-step") {
		cfg.TimeStepMs = runFlags.timeStepMs
	}

	if flags.Changed("log-level") {
		cfg.LogLevel = runFlags.logLevelArg
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func runScenario(out io.Writer, cfg config.Config, path string) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}

	logrus.SetLevel(level)

	scn, err := scenario.Load(path)
	if err != nil {
		return err
	}

	if err := scn.Validate(); err != nil {
		return err
	}

	builder := simulation.MakeBuilder().WithConfig(cfg)
	if runFlags.logEvents {
		builder = builder.WithEventLogging()
	}

	s, err := builder.Build()
	if err != nil {
		return err
	}
	defer s.Terminate()

	if _, err := scn.Apply(s.Simulator(), s.Engine()); err != nil {
		return err
	}

	if err := s.Run(scn.End()); err != nil {
		return err
	}

	printSummary(out, s.Summary())

	return nil
}

func printSummary(out io.Writer, summary simulation.Summary) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "Run\t%s\n", summary.ID)
	fmt.Fprintf(w, "Discrete time\t%v\n", summary.Time)
	fmt.Fprintf(w, "Continuous time\t%.6fms\n", float64(summary.ContinuousTime))
	fmt.Fprintf(w, "Horizon\t%v\n", summary.Horizon)
	fmt.Fprintf(w, "Engine steps\t%d\n", summary.StepsRun)
	fmt.Fprintf(w, "Pending events\t%d\n", summary.Pending)

	for _, kind := range summary.Kinds {
		fmt.Fprintf(w, "Events %s\t%d\n", kind, summary.EventsByKind[kind])
	}

	fmt.Fprintf(w, "Max clock lag\t%.6fms\n", float64(summary.MaxLag))
	fmt.Fprintf(w, "Average clock lag\t%.6fms\n", float64(summary.AverageLag))

	if summary.Recorded > 0 {
		fmt.Fprintf(w, "Recorded activations\t%d\n", summary.Recorded)
	}

	w.Flush()
}
