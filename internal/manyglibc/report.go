package manyglibc

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Reporter prints one colored PASS/FAIL line per completed (target, stage)
// pair as results come in, with a progress bar over the current stage
// bucket when attached to a terminal.
type Reporter struct {
	mu          sync.Mutex
	out         io.Writer
	interactive bool
	bar         *progressbar.ProgressBar
	failed      []JobResult
}

func NewReporter(out io.Writer) *Reporter {
	r := &Reporter{out: out}
	if f, ok := out.(*os.File); ok {
		r.interactive = term.IsTerminal(int(f.Fd()))
	}
	return r
}

// BucketStart announces a stage bucket of n jobs.
func (r *Reporter) BucketStart(stage Stage, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.interactive && n > 0 {
		r.bar = progressbar.NewOptions(n,
			progressbar.OptionSetDescription(stage.String()),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish())
	}
}

// Result prints the PASS/FAIL line for one completed job.
func (r *Reporter) Result(res JobResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		r.bar.Clear()
	}
	msg := fmt.Sprintf("%s | %s", res.Stage, res.Target)
	if res.Passed() {
		fmt.Fprintf(r.out, "%s : %s\n", colSuccess.Sprint("PASS"), msg)
	} else {
		fmt.Fprintf(r.out, "%s : %s\n", colError.Sprint("FAIL"), msg)
		r.failed = append(r.failed, res)
	}
	if r.bar != nil {
		r.bar.Add(1)
	}
}

// BucketDone closes out the current stage bucket.
func (r *Reporter) BucketDone() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		r.bar.Finish()
		r.bar = nil
	}
}

// Summary lists the failed (target, stage) pairs and where their logs went.
func (r *Reporter) Summary() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.failed) == 0 {
		return
	}
	sort.Slice(r.failed, func(i, j int) bool {
		if r.failed[i].Target != r.failed[j].Target {
			return r.failed[i].Target < r.failed[j].Target
		}
		return r.failed[i].Stage < r.failed[j].Stage
	})
	fmt.Fprintf(r.out, "%s%s\n", colArrow.Sprint("-> "), colError.Sprint("Failed Targets:"))
	for _, res := range r.failed {
		fmt.Fprintf(r.out, "  - %-40s %s", res.Target+" ("+res.Stage+")", res.Err)
		if res.ErrLog != "" {
			fmt.Fprintf(r.out, " [%s]", res.ErrLog)
		}
		fmt.Fprintln(r.out)
	}
}
