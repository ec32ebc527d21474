package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scherzo/mcusim"
	"scherzo/planner"
	"scherzo/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP job API, running uploaded jobs against the step simulator",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	srv := server.New(cfg, extruderStepperName(cfg), func() (*planner.Planner[*mcusim.MCU], error) {
		sim := mcusim.New()
		return planner.New[*mcusim.MCU](cfg, func(name string, oid uint32) *mcusim.MCU {
			return sim
		})
	})

	fmt.Printf("scherzod listening on %s\n", serveAddr)
	return srv.Engine.Run(serveAddr)
}
