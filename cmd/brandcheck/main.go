package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"brandcheck/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
