package manyglibc

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
)

// JobResult records the outcome of one stage for one target.
type JobResult struct {
	Target string
	Stage  string
	Err    error
	OutLog string
	ErrLog string
}

func (r JobResult) Passed() bool {
	return r.Err == nil
}

// Scheduler runs the resolved stage chain for a set of targets: stage
// buckets in pipeline order, each bucket drained through a bounded pool
// before the next one starts. One target's failure never blocks its
// siblings, and does not stop that target from attempting later stages.
type Scheduler struct {
	Settings Settings
	Opts     RunOptions
	Builder  *CommandBuilder
	Reporter *Reporter

	// RunJob executes one built command and returns its exit error.
	// Swappable in tests.
	RunJob func(ctx context.Context, target string, stage Stage, cmd Command) error

	mu      sync.Mutex
	results []JobResult
}

func NewScheduler(ctx context.Context, settings Settings, opts RunOptions, reporter *Reporter) *Scheduler {
	s := &Scheduler{
		Settings: settings,
		Opts:     opts,
		Builder:  NewCommandBuilder(settings, opts),
		Reporter: reporter,
	}
	runner := NewRunner(ctx)
	s.RunJob = func(_ context.Context, target string, stage Stage, cmd Command) error {
		out, err := createLogFile(s.logPath(target, stage, "out"))
		if err != nil {
			return err
		}
		defer out.Close()
		errLog, err := createLogFile(s.logPath(target, stage, "err"))
		if err != nil {
			return err
		}
		defer errLog.Close()
		return runner.Run(cmd.Argv, cmd.Dir, out, errLog)
	}
	return s
}

func (s *Scheduler) logPath(target string, stage Stage, ext string) string {
	name := target + s.Opts.ToolchainSuffix + "_" + stage.String() + "." + ext
	return filepath.Join(s.Settings.LogsDir, name)
}

func (s *Scheduler) record(r JobResult) {
	s.mu.Lock()
	s.results = append(s.results, r)
	s.mu.Unlock()
	if s.Reporter != nil {
		s.Reporter.Result(r)
	}
}

// Run executes the stage chain for the named targets and returns every
// collected result. Unknown identifiers are reported as failed up front
// and excluded from the stage buckets.
func (s *Scheduler) Run(ctx context.Context, catalog *Catalog, names []string, stages []Stage) []JobResult {
	var live []TargetSpec
	for _, name := range names {
		spec, ok := catalog.Lookup(name)
		if !ok {
			s.record(JobResult{Target: name, Stage: "resolve",
				Err: fmt.Errorf("unknown target %s", name)})
			continue
		}
		if !s.Opts.Keep {
			if err := removeRecreateDir(s.Builder.BuildDir(spec)); err != nil {
				s.record(JobResult{Target: name, Stage: "prepare", Err: err})
				continue
			}
		}
		live = append(live, spec)
	}

	for _, stage := range stages {
		if ctx.Err() != nil {
			break
		}
		if s.Reporter != nil {
			s.Reporter.BucketStart(stage, len(live))
		}
		workers := s.Opts.Workers
		if workers < 1 {
			workers = 1
		}
		var g errgroup.Group
		g.SetLimit(workers)
		for _, spec := range live {
			spec := spec
			g.Go(func() error {
				cmd := s.Builder.Build(spec, stage)
				err := s.RunJob(ctx, spec.Name, stage, cmd)
				s.record(JobResult{
					Target: spec.Name,
					Stage:  stage.String(),
					Err:    err,
					OutLog: s.logPath(spec.Name, stage, "out"),
					ErrLog: s.logPath(spec.Name, stage, "err"),
				})
				return nil
			})
		}
		g.Wait()
		if s.Reporter != nil {
			s.Reporter.BucketDone()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}
