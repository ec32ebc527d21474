package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"scherzo/host/mcu"
)

var dictDevice string

// dictCmd replaces the teacher's host/cmd/gopper-host interactive shell:
// connect to a real MCU over serial, retrieve its command dictionary, and
// accept a handful of raw diagnostic commands. This is the one place this
// module talks to physical hardware; everything else runs against the
// in-process simulator.
var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Connect to a real MCU over serial and inspect its command dictionary",
	RunE:  runDict,
}

func init() {
	dictCmd.Flags().StringVar(&dictDevice, "device", "/dev/ttyACM0", "serial device path")
}

func runDict(cmd *cobra.Command, args []string) error {
	conn := mcu.NewMCU()

	fmt.Printf("Connecting to MCU on %s...\n", dictDevice)
	if err := conn.Connect(dictDevice); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	if err := conn.RetrieveDictionary(); err != nil {
		return fmt.Errorf("failed to retrieve dictionary: %w", err)
	}
	conn.PrintDictionary()

	fmt.Println("Enter a command name to send it with no arguments, 'raw' to dump the dictionary bytes, or 'quit' to exit:")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "quit", "exit", "q":
			return nil
		case "raw":
			raw := conn.GetDictionaryRaw()
			fmt.Printf("Raw dictionary data (%d bytes):\n%s\n", len(raw), string(raw))
		default:
			if err := conn.SendCommand(line, nil); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			fmt.Println("Command sent; waiting briefly for a response to land in the MCU's response handler...")
			time.Sleep(100 * time.Millisecond)
		}
	}
	return scanner.Err()
}
