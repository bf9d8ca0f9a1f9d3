// Command queuectl is the CLI entry point for the durable job queue.
package main

import (
	"os"

	"github.com/queuectl/queuectl/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
