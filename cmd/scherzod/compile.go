package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scherzo/codegen"
	"scherzo/gcode"
)

var compileCmd = &cobra.Command{
	Use:   "compile FILE",
	Short: "Compile a G-code file into a motion program and print its summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	body, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	stmts, err := gcode.Parse(string(body))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	program := codegen.Compile(stmts, cfg)

	counts := make(map[codegen.OpKind]int)
	for _, op := range program.Ops {
		counts[op.Kind]++
	}

	fmt.Printf("%s: %d statements compiled to %d operations\n", args[0], len(stmts), len(program.Ops))
	fmt.Printf("  moves:        %d\n", counts[codegen.OpMove])
	fmt.Printf("  homes:        %d\n", counts[codegen.OpHome])
	fmt.Printf("  set-position: %d\n", counts[codegen.OpSetPosition])
	fmt.Printf("  temperature:  %d\n", counts[codegen.OpSetTemperature])

	return nil
}
