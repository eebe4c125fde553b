// Command palmares builds chess tournament prize lists from published
// standings pages.
package main

import "github.com/pfrederiksen/palmares/internal/cli"

func main() {
	cli.Execute()
}
