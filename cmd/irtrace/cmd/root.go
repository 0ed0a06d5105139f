// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd implements irtrace, a small CLI that loads a sampleir YAML
// fixture and runs it through a configurable pipeline of the demo
// passes (passes/tablehit, passes/reach), printing a colorized trace of
// what each pass changed. It exists to give the visit engine an
// end-to-end, runnable demonstration, the same role the original's
// p4test driver played for the C++ IR.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/kylelemons/godebug/diff"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/blackdragoon26/p4c-ir/ir"
	"github.com/blackdragoon26/p4c-ir/passes/reach"
	"github.com/blackdragoon26/p4c-ir/passes/tablehit"
	"github.com/blackdragoon26/p4c-ir/profile"
	"github.com/blackdragoon26/p4c-ir/sampleir"
	"github.com/blackdragoon26/p4c-ir/visit"
)

// ErrPrintedError is returned by run when a pass-reported problem has
// already been written to stderr, so Main knows not to print it again.
var ErrPrintedError = fmt.Errorf("terminating because of errors")

// pipelineFlag is a pflag.Value: a comma-separated pass list that
// rejects an unknown pass name at flag-parse time rather than after the
// fixture has already loaded.
type pipelineFlag struct {
	stages []string
}

var _ pflag.Value = (*pipelineFlag)(nil)

func (p *pipelineFlag) String() string { return strings.Join(p.stages, ",") }

func (p *pipelineFlag) Type() string { return "passList" }

func (p *pipelineFlag) Set(raw string) error {
	var stages []string
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if name != "tablehit" && name != "reach" {
			return fmt.Errorf("unknown pass %q (known passes: tablehit, reach)", name)
		}
		stages = append(stages, name)
	}
	p.stages = stages
	return nil
}

// Main runs irtrace and returns the process exit code.
func Main() int {
	if err := newRootCmd().Execute(); err != nil {
		if err != ErrPrintedError {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	pipeline := &pipelineFlag{stages: []string{"tablehit", "reach"}}
	var metrics bool
	var noColor bool

	cmd := &cobra.Command{
		Use:   "irtrace <file.yaml|->",
		Short: "irtrace runs a sampleir fixture through a pass pipeline and traces the result",
		Long: `irtrace loads a small YAML-encoded IR tree and runs it through a
pipeline of demo passes, printing what each pass changed.

Available passes:
  tablehit   rewrite "x = table.hit" into an if/else over a boolean
  reach      a reaching-constant-value analysis; prints its final state

Example:
  irtrace --pipeline tablehit,reach fixture.yaml
`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(c *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true //nolint:reassign // explicit user override
			}
			if metrics {
				profile.Enable()
			}
			return run(c.Context(), c.OutOrStdout(), args[0], pipeline.stages)
		},
	}

	cmd.Flags().VarP(pipeline, "pipeline", "p", "comma-separated pass names to run, in order")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "register per-pass Prometheus histograms")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colorized output")

	return cmd
}

// run loads root, then threads it through each named pass in turn,
// printing a trace for each stage. A panic with *visit.BugError
// (a pass-internal invariant violation, never expected from the demo
// passes but always possible from a misbehaving one) is recovered here,
// at the outermost frame, and reported as an ordinary CLI error: the
// visit engine itself never recovers from a BugError, by design.
func run(ctx context.Context, out io.Writer, path string, passes []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if bugErr, ok := r.(*visit.BugError); ok {
				fmt.Fprintf(out, "%s %v\n", color.RedString("bug:"), bugErr)
				err = ErrPrintedError
				return
			}
			panic(r)
		}
	}()

	root, err := loadFixture(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	for _, name := range passes {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		root, err = runPass(ctx, out, name, root)
		if err != nil {
			return err
		}
	}
	return nil
}

func loadFixture(path string) (ir.Node, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		return sampleir.LoadBytes(data)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return sampleir.Load(f)
}

// runPass dispatches one named pass, prints its trace, and returns the
// (possibly rewritten) root for the next stage.
func runPass(ctx context.Context, out io.Writer, name string, root ir.Node) (ir.Node, error) {
	fmt.Fprintf(out, "%s\n", color.CyanString("== "+name+" =="))

	switch name {
	case "tablehit":
		before := sampleir.Dump(root)
		result, trig := tablehit.Run(ctx, root)
		if trig != nil {
			return nil, fmt.Errorf("%s: trigger %q: %v", name, trig.TriggerKind(), trig)
		}
		printDiff(out, before, sampleir.Dump(result))
		return result, nil

	case "reach":
		r, trig := reach.Run(ctx, root)
		if trig != nil {
			return nil, fmt.Errorf("%s: trigger %q: %v", name, trig.TriggerKind(), trig)
		}
		printReachState(out, r)
		return root, nil

	default:
		return nil, fmt.Errorf("unknown pass %q", name)
	}
}

func printDiff(out io.Writer, before, after string) {
	if before == after {
		fmt.Fprintln(out, color.YellowString("  (no change)"))
		return
	}
	fmt.Fprintln(out, diff.Diff(before, after))
}

func printReachState(out io.Writer, r *reach.Reach) {
	keys := make([]string, 0, len(r.State))
	for k := range r.State {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := r.State[k]
		if v.Known {
			fmt.Fprintf(out, "  %s = %v\n", color.GreenString(k), v.Val)
		} else {
			fmt.Fprintf(out, "  %s = %s\n", k, color.YellowString("<unknown>"))
		}
	}
}
