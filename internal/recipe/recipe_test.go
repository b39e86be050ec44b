package recipe

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuiltinIsValid(t *testing.T) {
	err := Builtin().Validate()
	if err != nil {
		t.Fatal(err)
	}

	for _, target := range Targets() {
		if len(Builtin()[target]) == 0 {
			t.Errorf("target %s has an empty recipe", target)
		}

		if target.Description() == "" {
			t.Errorf("target %s has no description", target)
		}
	}
}

func TestParseTarget(t *testing.T) {
	for _, target := range Targets() {
		parsed, err := ParseTarget(target.String())
		if err != nil {
			t.Fatal(err)
		}

		if parsed != target {
			t.Errorf("expected %s but got %s", target, parsed)
		}
	}
}

func TestParseUnknownTarget(t *testing.T) {
	_, err := ParseTarget("bulid-app")
	var unknown *UnknownTargetError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected an UnknownTargetError but got %v", err)
	}

	if unknown.Name != "bulid-app" {
		t.Errorf("expected name bulid-app but got %s", unknown.Name)
	}

	if unknown.Suggestion != "build-app" {
		t.Errorf("expected suggestion build-app but got %s", unknown.Suggestion)
	}
}

func TestValidateCycle(t *testing.T) {
	table := Table{}
	for _, target := range Targets() {
		table[target] = Recipe{}
	}

	table[PackageApp] = Recipe{Invoke{Clean}}
	table[Clean] = Recipe{Invoke{MakeFolders}}
	table[MakeFolders] = Recipe{Invoke{Clean}}

	err := table.Validate()
	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected a CycleError but got %v", err)
	}

	if diff := cmp.Diff([]Target{MakeFolders, Clean, MakeFolders}, cycle.Path); diff != "" {
		t.Errorf("unexpected cycle (-want +got):\n%s", diff)
	}
}

func TestValidateMissingRecipe(t *testing.T) {
	table := Table{Clean: Recipe{Invoke{MakeFolders}}}
	if err := table.Validate(); err == nil {
		t.Error("expected an error for targets without recipe")
	}
}

func TestInvocationsFormExpectedGraph(t *testing.T) {
	tests := map[Target][]Target{
		MakeFolders:      {},
		Clean:            {MakeFolders},
		BuildApp:         {MakeFolders},
		BuildExtension:   {MakeFolders},
		StartApp:         {BuildApp},
		RunCLI:           {MakeFolders},
		PackageExtension: {Clean, BuildExtension},
		PackageApp:       {Clean, BuildApp},
	}

	for target, want := range tests {
		got := Builtin().Invocations(target)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s invocations (-want +got):\n%s", target, diff)
		}
	}
}

func TestParamsResolve(t *testing.T) {
	params := Params{PathParam: "/tmp/doc.txt"}
	got := params.Resolve([]Param{PathParam, OutputParam})
	if diff := cmp.Diff([]string{"/tmp/doc.txt", ""}, got); diff != "" {
		t.Errorf("unexpected values (-want +got):\n%s", diff)
	}
}

func TestStepString(t *testing.T) {
	run := Run{Command: "node " + CLIEntry, Params: []Param{PathParam, OutputParam}}
	if got := run.String(); got != "run node ./cli-out/cli/main.js $path $output" {
		t.Errorf("unexpected step id %s", got)
	}
}
