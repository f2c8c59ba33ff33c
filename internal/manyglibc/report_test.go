package manyglibc

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestReporterLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.BucketStart(StageConfigure, 2)
	r.Result(JobResult{Target: "aarch64-linux-gnu", Stage: "configure"})
	r.Result(JobResult{Target: "hppa-linux-gnu", Stage: "configure",
		Err: errors.New("exit status 1")})
	r.BucketDone()

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), out)
	}
	if !strings.Contains(lines[0], "PASS") || !strings.Contains(lines[0], "configure | aarch64-linux-gnu") {
		t.Errorf("pass line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "FAIL") || !strings.Contains(lines[1], "configure | hppa-linux-gnu") {
		t.Errorf("fail line: %q", lines[1])
	}
}

func TestReporterSummary(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.Result(JobResult{Target: "sh4-linux-gnu", Stage: "compile",
		Err: errors.New("exit status 2"), ErrLog: "/logs/sh4-linux-gnu_compile.err"})
	buf.Reset()
	r.Summary()

	out := buf.String()
	if !strings.Contains(out, "sh4-linux-gnu (compile)") {
		t.Errorf("summary missing failed pair: %q", out)
	}
	if !strings.Contains(out, "/logs/sh4-linux-gnu_compile.err") {
		t.Errorf("summary missing log path: %q", out)
	}
}

func TestReporterSummaryQuietWhenClean(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)
	r.Result(JobResult{Target: "x86_64-linux-gnu", Stage: "test"})
	buf.Reset()
	r.Summary()
	if buf.Len() != 0 {
		t.Errorf("summary printed with no failures: %q", buf.String())
	}
}
