// The main package for the team-extractor executable.
package main

import (
	"github.com/firasmosbehi/about-us-team-extractor/cmd"
)

func main() {
	cmd.Execute()
}
