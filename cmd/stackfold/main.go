// Command stackfold profiles Go programs by sampling goroutine stacks and
// serves a dashboard for browsing the results as flame graphs.
package main

import "github.com/stackfold/stackfold/cmd/stackfold/cmd"

func main() {
	cmd.Execute()
}
