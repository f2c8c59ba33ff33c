package manyglibc

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/gookit/color"
)

// printHelp prints the commands table
func printHelp() {
	colSuccess.Println("Usage: manyglibc <action> [options] [target|group ...]")
	colSuccess.Println("With no targets, every catalog entry is selected")
	fmt.Println()
	color.Info.Println("Available Actions:")

	type cmdInfo struct {
		Cmd  string
		Desc string
	}
	cmds := []cmdInfo{
		{"configure", "Run configure for each target"},
		{"copy-support-libs", "Copy runtime support libraries into each build dir"},
		{"compile", "Configure and build each target"},
		{"test", "Full pipeline: support libs, configure, build, check"},
		{"check-abi", "Configure, build, and compare ABI against snapshots"},
		{"update-abi", "Configure, build, and regenerate ABI snapshots"},
		{"bench-build", "Configure, build, and build the benchmarks"},
		{"list, ls", "Print the expanded target list and exit"},
		{"logs", "TUI viewer for the per-target build logs"},
		{"setup", "Write the configuration file"},
		{"version, --version", "Version information"},
	}

	maxLen := 0
	for _, c := range cmds {
		if len(c.Cmd) > maxLen {
			maxLen = len(c.Cmd)
		}
	}
	columnWidth := maxLen + 4
	for _, c := range cmds {
		fmt.Print("  ")
		color.Bold.Print(c.Cmd)
		fmt.Print(strings.Repeat(" ", columnWidth-len(c.Cmd)))
		color.Info.Println(c.Desc)
	}

	fmt.Println()
	color.Info.Println("Common Options:")
	opts := [][2]string{
		{"-p N[:M]", "Run N targets at a time, passing -jM to the build tool"},
		{"-k", "Keep existing build directories"},
		{"-t", "Run built tests (not just compile them)"},
		{"-rotate", "Archive previous logs before running"},
		{"-toolchain SUFFIX", "Use an alternate toolchain version, e.g. -gcc14"},
		{"-stackprot LEVEL", "Stack protector level (strong, all)"},
		{"-nopie", "Disable default PIE"},
		{"-bindnow", "Enable bind-now"},
		{"-profile", "Enable profiling"},
		{"-noifunc", "Disable multi-arch/ifunc runtime dispatch"},
		{"-nowerror", "Do not build with -Werror"},
		{"-kernel X.Y", "Minimum supported kernel version"},
		{"-hardcoded-path", "Hardcode newly built glibc path in tests"},
		{"-cflags FLAGS", "Extra compiler flags for every target"},
	}
	for _, o := range opts {
		fmt.Printf("  %-20s %s\n", o[0], o[1])
	}
	fmt.Println()
}

// Main is the CLI entrypoint for the manyglibc binary.
func Main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			colArrow.Print("\n-> ")
			color.Danger.Printf("Received %v. Cancelling gracefully; running stages will be killed\n", sig)
			cancel()
			<-sigs
			colArrow.Print("\n-> ")
			color.Danger.Println("Second interrupt received. Forcing immediate exit.")
			os.Exit(130)
		case <-ctx.Done():
		}
	}()

	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "help", "-h", "--help":
		printHelp()
		return
	case "version", "--version":
		fmt.Printf("manyglibc %s (%s, %s/%s)\n", version, buildDate, runtime.GOOS, runtime.GOARCH)
		return
	case "setup":
		os.Exit(handleSetup(os.Args[2:]))
	case "logs", "log":
		settings := mustLoadSettings()
		os.Exit(runLogTUI(settings.LogsDir))
	}

	action, err := ParseAction(os.Args[1])
	if err != nil {
		colError.Printf("error: %v\n", err)
		printHelp()
		os.Exit(2)
	}

	os.Exit(runAction(ctx, action, os.Args[2:]))
}

func mustLoadSettings() Settings {
	settings, err := loadSettings(settingsPath())
	if err != nil {
		colError.Printf("error: %v\n", err)
		os.Exit(1)
	}
	return settings
}

// handleSetup writes the settings file from its flags, the one-time step
// every other action depends on.
func handleSetup(args []string) int {
	fs := flag.NewFlagSet("setup", flag.ExitOnError)
	srcdir := fs.String("s", "", "glibc source directory")
	builddir := fs.String("b", "", "build directory")
	logsdir := fs.String("l", "", "directory for build/check logs")
	compilers := fs.String("c", "", "base directory containing the cross toolchains")
	fs.Parse(args)

	s := Settings{SrcDir: *srcdir, BuildDir: *builddir, LogsDir: *logsdir, Compilers: *compilers}
	path := settingsPath()
	if err := writeSettings(path, s); err != nil {
		colError.Printf("error: writing %s: %v\n", path, err)
		return 1
	}
	colArrow.Print("-> ")
	colSuccess.Printf("Configuration written to %s\n", path)
	return 0
}

// runAction parses the per-action flags, expands the target tokens, and
// either lists them or hands the stage chain to the scheduler.
func runAction(ctx context.Context, action Action, args []string) int {
	fs := flag.NewFlagSet(action.String(), flag.ExitOnError)
	parallel := fs.String("p", fmt.Sprintf("1:%d", runtime.NumCPU()),
		"N[:M]: run N targets at a time with build-tool parallelism M")
	keep := fs.Bool("k", false, "keep existing build directories")
	runTests := fs.Bool("t", false, "run built tests")
	rotate := fs.Bool("rotate", false, "archive previous logs before running")
	toolchain := fs.String("toolchain", "", "alternate toolchain version suffix")
	stackprot := fs.String("stackprot", "", "stack protector level (strong, all)")
	nopie := fs.Bool("nopie", false, "disable default PIE")
	bindnow := fs.Bool("bindnow", false, "enable bind-now")
	profile := fs.Bool("profile", false, "enable profiling")
	noifunc := fs.Bool("noifunc", false, "disable multi-arch/ifunc")
	nowerror := fs.Bool("nowerror", false, "do not treat warnings as errors")
	kernel := fs.String("kernel", "", "minimum supported kernel version")
	hardcodedPath := fs.Bool("hardcoded-path", false, "hardcode test paths")
	cflags := fs.String("cflags", "", "extra compiler flags for every target")
	fs.Parse(args)

	workers, buildJobs, err := parseParallelize(*parallel)
	if err != nil {
		colError.Printf("error: %v\n", err)
		return 2
	}

	opts := RunOptions{
		Workers:         workers,
		BuildJobs:       buildJobs,
		Keep:            *keep,
		RunBuiltTests:   *runTests,
		RotateLogs:      *rotate,
		ToolchainSuffix: *toolchain,
	}
	if *cflags != "" {
		opts.ExtraCFlags = strings.Fields(*cflags)
	}
	if *stackprot != "" {
		opts.ExtraConfigureOpts = append(opts.ExtraConfigureOpts,
			"--enable-stack-protector="+*stackprot)
	}
	if *nopie {
		opts.ExtraConfigureOpts = append(opts.ExtraConfigureOpts, "--disable-default-pie")
	}
	if *bindnow {
		opts.ExtraConfigureOpts = append(opts.ExtraConfigureOpts, "--enable-bind-now")
	}
	if *profile {
		opts.ExtraConfigureOpts = append(opts.ExtraConfigureOpts, "--enable-profile")
	}
	if *noifunc {
		opts.ExtraConfigureOpts = append(opts.ExtraConfigureOpts, "--disable-multi-arch")
	}
	if *nowerror {
		opts.ExtraConfigureOpts = append(opts.ExtraConfigureOpts, "--disable-werror")
	}
	if *kernel != "" {
		opts.ExtraConfigureOpts = append(opts.ExtraConfigureOpts, "--enable-kernel="+*kernel)
	}
	if *hardcodedPath {
		opts.ExtraConfigureOpts = append(opts.ExtraConfigureOpts,
			"--enable-hardcoded-path-in-tests")
	}

	settings := mustLoadSettings()
	catalog := NewCatalog()

	userGroups, err := loadUserGroups(userGroupsPath())
	if err != nil {
		colWarn.Printf("warning: ignoring user groups: %v\n", err)
	}
	names := catalog.Expand(fs.Args(), userGroups)

	if action == ActionList {
		for _, name := range names {
			fmt.Println(name)
		}
		return 0
	}

	if opts.RotateLogs {
		if err := rotateLogs(settings.LogsDir); err != nil {
			colWarn.Printf("warning: log rotation failed: %v\n", err)
		}
	}

	reporter := NewReporter(os.Stdout)
	sched := NewScheduler(ctx, settings, opts, reporter)
	sched.Run(ctx, catalog, names, action.Stages())
	reporter.Summary()

	// Per-target failures are visible in the report and logs; they do not
	// change the orchestrator's own exit status.
	return 0
}
