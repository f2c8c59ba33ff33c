package manyglibc

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// RunOptions carries everything a single invocation decided on the command
// line: pool sizes, flag toggles already rendered into configure options,
// and the toolchain version suffix.
type RunOptions struct {
	Workers            int      // concurrent targets per stage bucket
	BuildJobs          int      // make -j value passed to the build tool
	Keep               bool     // keep prior build directories
	RunBuiltTests      bool     // run-built-tests=yes on make check
	RotateLogs         bool     // archive previous logs before running
	ToolchainSuffix    string   // e.g. "-gcc14", appended to toolchain and build dirs
	ExtraCFlags        []string // global compiler flags appended to CC/CXX
	ExtraConfigureOpts []string // global configure options from flags
}

// parseParallelize handles the N[:M] syntax: N concurrent targets, make -jM.
// A bare N leaves the build tool single-jobbed, matching the long-standing
// behavior of the scripts this replaces.
func parseParallelize(s string) (workers, buildJobs int, err error) {
	fields := strings.SplitN(s, ":", 2)
	workers, err = strconv.Atoi(fields[0])
	if err != nil || workers < 1 {
		return 0, 0, fmt.Errorf("invalid parallelism %q", s)
	}
	if len(fields) == 1 {
		return workers, 1, nil
	}
	buildJobs, err = strconv.Atoi(fields[1])
	if err != nil || buildJobs < 1 {
		return 0, 0, fmt.Errorf("invalid parallelism %q", s)
	}
	return workers, buildJobs, nil
}

// Command is one external invocation: argv and the directory to run it in.
type Command struct {
	Argv []string
	Dir  string
}

// CommandBuilder turns (target, stage) into the external command for it.
// It never fails: a tool that does not exist simply produces a command
// whose nonzero exit is recorded as that stage's failure.
type CommandBuilder struct {
	Settings     Settings
	Opts         RunOptions
	BuildTriplet string

	// printFileName resolves a support library through the target compiler.
	// Swappable in tests.
	printFileName func(argv []string) (string, error)
}

func NewCommandBuilder(settings Settings, opts RunOptions) *CommandBuilder {
	return &CommandBuilder{
		Settings:     settings,
		Opts:         opts,
		BuildTriplet: buildTriplet(),
		printFileName: func(argv []string) (string, error) {
			out, err := exec.Command(argv[0], argv[1:]...).Output()
			return strings.TrimSpace(string(out)), err
		},
	}
}

// BuildDir is the target's exclusive build tree.
func (b *CommandBuilder) BuildDir(t TargetSpec) string {
	return filepath.Join(b.Settings.BuildDir, t.Name+b.Opts.ToolchainSuffix)
}

// toolPath locates one cross tool inside the target's toolchain.
func (b *CommandBuilder) toolPath(t TargetSpec, tool string) string {
	return filepath.Join(b.Settings.Compilers, t.ToolchainDir+b.Opts.ToolchainSuffix,
		"bin", t.ToolchainTriplet+"-"+tool)
}

// compilerVar renders a NAME=path configure variable; compilers additionally
// carry the target's instruction-set flags and any global extra cflags.
func (b *CommandBuilder) compilerVar(t TargetSpec, name, tool string) string {
	parts := append([]string{b.toolPath(t, tool)}, t.CCOpts...)
	parts = append(parts, b.Opts.ExtraCFlags...)
	return name + "=" + strings.Join(parts, " ")
}

// Build constructs the command for one target at one stage.
func (b *CommandBuilder) Build(t TargetSpec, stage Stage) Command {
	dir := b.BuildDir(t)
	switch stage {
	case StageCopySupportLibs:
		argv := []string{"cp",
			b.resolveSupportLib(t, "libgcc_s.so.1", "libgcc_s.so"),
			b.resolveSupportLib(t, "libstdc++.so.6", "libstdc++.so"),
			dir}
		return Command{Argv: argv, Dir: dir}
	case StageConfigure:
		argv := []string{
			filepath.Join(b.Settings.SrcDir, "configure"),
			"--prefix=/usr",
			"--build=" + b.BuildTriplet,
			"--host=" + t.HostTriplet(),
			b.compilerVar(t, "CC", "gcc"),
			b.compilerVar(t, "CXX", "g++"),
			"AR=" + b.toolPath(t, "ar"),
			"AS=" + b.toolPath(t, "as"),
			"LD=" + b.toolPath(t, "ld"),
			"NM=" + b.toolPath(t, "nm"),
			"OBJCOPY=" + b.toolPath(t, "objcopy"),
			"OBJDUMP=" + b.toolPath(t, "objdump"),
			"RANLIB=" + b.toolPath(t, "ranlib"),
			"READELF=" + b.toolPath(t, "readelf"),
			"STRIP=" + b.toolPath(t, "strip"),
		}
		if t.OS == "gnu" {
			// The Hurd port needs the Mach interface generator.
			argv = append(argv, "MIG="+b.toolPath(t, "mig"))
		}
		argv = append(argv, b.Opts.ExtraConfigureOpts...)
		argv = append(argv, t.ConfigureOpts...)
		return Command{Argv: argv, Dir: dir}
	case StageCompile:
		return Command{Argv: []string{"make", b.jobsFlag()}, Dir: dir}
	case StageTest:
		runBuilt := "no"
		if b.Opts.RunBuiltTests {
			runBuilt = "yes"
		}
		return Command{
			Argv: []string{"make", "check", "run-built-tests=" + runBuilt, b.jobsFlag()},
			Dir:  dir,
		}
	case StageCheckABI:
		return Command{Argv: []string{"make", "check-abi", b.jobsFlag()}, Dir: dir}
	case StageUpdateABI:
		return Command{Argv: []string{"make", "update-abi", b.jobsFlag()}, Dir: dir}
	case StageBenchBuild:
		return Command{Argv: []string{"make", "bench-build", b.jobsFlag()}, Dir: dir}
	}
	panic(fmt.Sprintf("no command for stage %s", stage))
}

func (b *CommandBuilder) jobsFlag() string {
	return fmt.Sprintf("-j%d", b.Opts.BuildJobs)
}

// resolveSupportLib asks the target compiler where a runtime support
// library lives. -print-file-name echoes the bare name back when the
// library is not found, in which case the alternate name is tried. If
// nothing resolves the primary name is returned as-is and the cp command
// fails with a useful error in the stage log.
func (b *CommandBuilder) resolveSupportLib(t TargetSpec, lib, alt string) string {
	cc := b.toolPath(t, "gcc")
	for _, name := range []string{lib, alt} {
		argv := append([]string{cc}, t.CCOpts...)
		argv = append(argv, "-print-file-name="+name)
		path, err := b.printFileName(argv)
		if err != nil || path == "" {
			continue
		}
		if path != name {
			return path
		}
	}
	return lib
}

// buildTriplet reports the machine we are building on. The kernel's name
// for a few machines differs from the GNU triplet vocabulary.
func buildTriplet() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return runtime.GOARCH + "-linux-gnu"
	}
	return normalizeMachine(unix.ByteSliceToString(uts.Machine[:])) + "-linux-gnu"
}

func normalizeMachine(m string) string {
	switch m {
	case "ppc64le":
		return "powerpc64le"
	case "ppc64":
		return "powerpc64"
	case "ppc":
		return "powerpc"
	case "arm64":
		return "aarch64"
	}
	return m
}
