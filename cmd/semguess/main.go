package main

import "github.com/mcoot/semanticguess/internal/cli"

func main() {
	cli.Execute()
}
