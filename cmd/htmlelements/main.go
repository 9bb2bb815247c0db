// Command htmlelements serves the HTML elements showcase and exports static
// snapshots of it.
package main

import (
	"os"

	"github.com/livetemplate/htmlelements/cmd/htmlelements/commands"
)

func main() {
	os.Exit(commands.Main())
}
