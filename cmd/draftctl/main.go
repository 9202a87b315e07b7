package main

import "github.com/mcoot/draftboard/internal/cli"

func main() {
	cli.Execute()
}
