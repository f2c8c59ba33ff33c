package manyglibc

import (
	"reflect"
	"testing"
)

func TestActionStages(t *testing.T) {
	cases := []struct {
		action Action
		want   []Stage
	}{
		{ActionConfigure, []Stage{StageConfigure}},
		{ActionCopySupportLibs, []Stage{StageCopySupportLibs}},
		{ActionCompile, []Stage{StageConfigure, StageCompile}},
		{ActionTest, []Stage{StageCopySupportLibs, StageConfigure, StageCompile, StageTest}},
		{ActionCheckABI, []Stage{StageConfigure, StageCompile, StageCheckABI}},
		{ActionUpdateABI, []Stage{StageConfigure, StageCompile, StageUpdateABI}},
		{ActionBenchBuild, []Stage{StageConfigure, StageCompile, StageBenchBuild}},
		{ActionList, nil},
	}
	for _, tc := range cases {
		got := tc.action.Stages()
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.action, got, tc.want)
		}
	}
}

func TestParseAction(t *testing.T) {
	for _, name := range []string{
		"configure", "copy-support-libs", "compile", "test",
		"check-abi", "update-abi", "bench-build", "list",
	} {
		a, err := ParseAction(name)
		if err != nil {
			t.Errorf("ParseAction(%q): %v", name, err)
			continue
		}
		if a.String() != name {
			t.Errorf("ParseAction(%q).String() = %q", name, a.String())
		}
	}

	if a, err := ParseAction("ls"); err != nil || a != ActionList {
		t.Errorf("ls alias: %v, %v", a, err)
	}
	if _, err := ParseAction("installcheck"); err == nil {
		t.Error("unknown action parsed")
	}
}

func TestStageStrings(t *testing.T) {
	want := map[Stage]string{
		StageCopySupportLibs: "copy-support-libs",
		StageConfigure:       "configure",
		StageCompile:         "compile",
		StageTest:            "test",
		StageCheckABI:        "check-abi",
		StageUpdateABI:       "update-abi",
		StageBenchBuild:      "bench-build",
	}
	for stage, name := range want {
		if stage.String() != name {
			t.Errorf("%d.String() = %q, want %q", stage, stage.String(), name)
		}
	}
}
