package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quantlab/feargreed/internal/scheduler"
	"github.com/quantlab/feargreed/internal/scheduler/jobs"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Scheduler management",
	Long: `Starts the scheduler daemon or inspects its jobs.

Registered jobs:
- daily_score: the full pipeline, weekday afternoons after the close
  (RUN_SCHEDULE, default "0 0 16 * * MON-FRI")

Subcommands:
  start   - start the scheduler daemon
  list    - list registered jobs
  run     - trigger a job immediately
  status  - show job execution history

Example:
  go run ./cmd/feargreed schedule start
  go run ./cmd/feargreed schedule run daily_score`,
}

var (
	scheduleStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		Long:  `Starts the scheduler and blocks until interrupted with Ctrl+C.`,
		RunE:  runScheduleStart,
	}

	scheduleListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  runScheduleList,
	}

	scheduleRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Trigger a job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runScheduleRun,
	}

	scheduleStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job execution history",
		RunE:  runScheduleStatus,
	}
)

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.AddCommand(scheduleStartCmd)
	scheduleCmd.AddCommand(scheduleListCmd)
	scheduleCmd.AddCommand(scheduleRunCmd)
	scheduleCmd.AddCommand(scheduleStatusCmd)
}

func buildScheduler(a *app) (*scheduler.Scheduler, error) {
	s := scheduler.New(a.log)

	job := jobs.NewDailyScoreJob(a.pipeline, a.cfg.RunSchedule, a.log)
	if err := s.AddJob(job); err != nil {
		return nil, fmt.Errorf("register %s: %w", job.Name(), err)
	}

	return s, nil
}

func runScheduleStart(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Fear/Greed: Scheduler ===")

	a, err := initApp()
	if err != nil {
		return err
	}

	s, err := buildScheduler(a)
	if err != nil {
		return err
	}

	s.Start()
	fmt.Printf("Scheduler running (daily_score: %q). Ctrl+C to stop.\n", a.cfg.RunSchedule)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\nShutting down...")
	s.Stop()
	return nil
}

func runScheduleList(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}

	s, err := buildScheduler(a)
	if err != nil {
		return err
	}

	fmt.Println("Registered jobs:")
	for _, name := range s.Jobs() {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func runScheduleRun(cmd *cobra.Command, args []string) error {
	jobName := args[0]
	fmt.Printf("=== Fear/Greed: Run Job %s ===\n", jobName)

	a, err := initApp()
	if err != nil {
		return err
	}

	// Run synchronously rather than through the cron goroutine so the
	// exit code reflects the job outcome.
	job := jobs.NewDailyScoreJob(a.pipeline, a.cfg.RunSchedule, a.log)
	if jobName != job.Name() {
		return fmt.Errorf("job %s not found", jobName)
	}

	if err := job.Run(cmd.Context()); err != nil {
		return fmt.Errorf("job %s: %w", jobName, err)
	}

	fmt.Printf("Job %s completed\n", jobName)
	return nil
}

func runScheduleStatus(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}

	s, err := buildScheduler(a)
	if err != nil {
		return err
	}

	for _, name := range s.Jobs() {
		history, err := s.History(name)
		if err != nil {
			return err
		}

		fmt.Printf("[%s]\n", name)
		if latest, ok := history.Latest(); ok {
			fmt.Printf("  last run: %s  success: %v  duration: %s\n",
				latest.StartTime.Format("2006-01-02 15:04:05"), latest.Success, latest.Duration)
			fmt.Printf("  success rate: %.0f%% over %d runs\n",
				history.SuccessRate()*100, len(history.Results))
		} else {
			fmt.Println("  no runs recorded")
		}
	}
	return nil
}
