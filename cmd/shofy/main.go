package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Skotchmaster/shofy/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "shofy:", err)
		os.Exit(1)
	}
}
