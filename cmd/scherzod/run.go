package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"scherzo/codegen"
	"scherzo/config"
	"scherzo/gcode"
	"scherzo/mcusim"
	"scherzo/planner"
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Compile a G-code file and run it against the in-process step simulator",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
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

	sim := mcusim.New()
	pl, err := planner.New[*mcusim.MCU](cfg, func(name string, oid uint32) *mcusim.MCU {
		return sim
	})
	if err != nil {
		return fmt.Errorf("building planner: %w", err)
	}

	program := codegen.Compile(stmts, cfg)
	end, err := codegen.Run[*mcusim.MCU](program, pl, cfg, extruderStepperName(cfg), 0.0)
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	if end > 0 {
		if err := pl.Tick(end+cfg.Scheduler.ClearHistory, 0.0); err != nil {
			return fmt.Errorf("flushing final tick: %w", err)
		}
	}

	fmt.Printf("%s: ran to print time %.4fs\n\n", args[0], end)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Stepper", "OID", "Final step position"})
	for _, st := range pl.Steppers() {
		table.Append([]string{st.Name, fmt.Sprintf("%d", st.OID), fmt.Sprintf("%d", sim.Stepper(st.OID).Position())})
	}
	table.Render()

	return nil
}

// extruderStepperName returns the name of the configured extruder stepper,
// or "" if the machine has none.
func extruderStepperName(cfg *config.MachineConfig) string {
	names := make([]string, 0, len(cfg.Steppers))
	for name := range cfg.Steppers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if cfg.Steppers[name].Kinematics == "extruder" {
			return name
		}
	}
	return ""
}
