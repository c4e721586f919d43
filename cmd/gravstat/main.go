// gravstat summarises a grav snapshot log.
//
// Usage:
//
//	go run ./cmd/gravstat <command> [-in path] [-every n] [-out path]
//
// Commands: steps, final, yaml
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gravsim/grav/internal/persist"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: gravstat <command> [-in path] [-every n] [-out path]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  steps   print one line of aggregates per step")
	fmt.Fprintln(os.Stderr, "  final   print the aggregates of the last step")
	fmt.Fprintln(os.Stderr, "  yaml    write every step's aggregates as YAML")
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if cmd == "-h" || cmd == "--help" || cmd == "help" {
		printUsage()
		return
	}

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	in := fs.String("in", "output.yaml", "snapshot log to read")
	every := fs.Int("every", 1, "only report every n-th step")
	out := fs.String("out", "", "output file for yaml (default stdout)")
	_ = fs.Parse(os.Args[2:])

	commands := map[string]func(string, int, string) error{
		"steps": cmdSteps,
		"final": cmdFinal,
		"yaml":  cmdYAML,
	}
	fn, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err := fn(*in, *every, *out); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func collect(path string, every int) ([]Summary, error) {
	if every < 1 {
		every = 1
	}
	var out []Summary
	n := 0
	err := persist.ReadSnapshotFile(path, func(r persist.Record) error {
		if n%every == 0 {
			out = append(out, Summarize(r))
		}
		n++
		return nil
	})
	return out, err
}

func cmdSteps(in string, every int, _ string) error {
	sums, err := collect(in, every)
	if err != nil {
		return err
	}
	writeTable(os.Stdout, sums)
	return nil
}

func cmdFinal(in string, _ int, _ string) error {
	var last *Summary
	err := persist.ReadSnapshotFile(in, func(r persist.Record) error {
		s := Summarize(r)
		last = &s
		return nil
	})
	if err != nil {
		return err
	}
	if last == nil {
		return fmt.Errorf("%s: no records", in)
	}
	writeTable(os.Stdout, []Summary{*last})
	return nil
}

func cmdYAML(in string, every int, outPath string) error {
	sums, err := collect(in, every)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(summaryListYAML{Steps: sums})
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if outPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	fmt.Printf("  wrote %d steps -> %s\n", len(sums), outPath)
	return nil
}

func writeTable(w io.Writer, sums []Summary) {
	fmt.Fprintf(w, "%8s %8s %14s %10s %14s %14s\n", "step", "count", "mass", "charge", "kinetic", "|momentum|")
	for _, s := range sums {
		fmt.Fprintf(w, "%8d %8d %14.6g %10.4g %14.6g %14.6g\n",
			s.Step, s.Count, s.Mass, s.Charge, s.KineticEnergy, s.MomentumMagnitude)
	}
}
