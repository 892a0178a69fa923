// The main package for the portfolio executable.
package main

import (
	"github.com/Zachkp/portfolio/cmd"
)

func main() {
	cmd.Execute()
}
