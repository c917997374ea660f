// Command miniql runs the query engine's command-line front end.
package main

import "github.com/Dicklesworthstone/miniql/internal/cli"

func main() {
	cli.Execute()
}
