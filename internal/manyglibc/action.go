package manyglibc

import "fmt"

// Stage is one phase of the per-target pipeline.
type Stage int

const (
	StageCopySupportLibs Stage = iota
	StageConfigure
	StageCompile
	StageTest
	StageCheckABI
	StageUpdateABI
	StageBenchBuild
)

func (s Stage) String() string {
	switch s {
	case StageCopySupportLibs:
		return "copy-support-libs"
	case StageConfigure:
		return "configure"
	case StageCompile:
		return "compile"
	case StageTest:
		return "test"
	case StageCheckABI:
		return "check-abi"
	case StageUpdateABI:
		return "update-abi"
	case StageBenchBuild:
		return "bench-build"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Action is the terminal action requested on the command line.
type Action int

const (
	ActionConfigure Action = iota
	ActionCopySupportLibs
	ActionCompile
	ActionTest
	ActionCheckABI
	ActionUpdateABI
	ActionBenchBuild
	ActionList
)

func (a Action) String() string {
	switch a {
	case ActionConfigure:
		return "configure"
	case ActionCopySupportLibs:
		return "copy-support-libs"
	case ActionCompile:
		return "compile"
	case ActionTest:
		return "test"
	case ActionCheckABI:
		return "check-abi"
	case ActionUpdateABI:
		return "update-abi"
	case ActionBenchBuild:
		return "bench-build"
	case ActionList:
		return "list"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction maps a command-line action name to its Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "configure":
		return ActionConfigure, nil
	case "copy-support-libs":
		return ActionCopySupportLibs, nil
	case "compile":
		return ActionCompile, nil
	case "test":
		return ActionTest, nil
	case "check-abi":
		return ActionCheckABI, nil
	case "update-abi":
		return ActionUpdateABI, nil
	case "bench-build":
		return ActionBenchBuild, nil
	case "list", "ls":
		return ActionList, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Stages returns the ordered stage chain the action implies, prerequisites
// first. List runs no pipeline at all.
func (a Action) Stages() []Stage {
	switch a {
	case ActionConfigure:
		return []Stage{StageConfigure}
	case ActionCopySupportLibs:
		return []Stage{StageCopySupportLibs}
	case ActionCompile:
		return []Stage{StageConfigure, StageCompile}
	case ActionTest:
		return []Stage{StageCopySupportLibs, StageConfigure, StageCompile, StageTest}
	case ActionCheckABI:
		return []Stage{StageConfigure, StageCompile, StageCheckABI}
	case ActionUpdateABI:
		return []Stage{StageConfigure, StageCompile, StageUpdateABI}
	case ActionBenchBuild:
		return []Stage{StageConfigure, StageCompile, StageBenchBuild}
	case ActionList:
		return nil
	}
	return nil
}
