// Command recpool collects company recommendations for the next program
// cycle. See `recpool --help`.
package main

import (
	"context"
	"os"

	"github.com/minwook-byun/recpool/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
