package main

import "github.com/nhle/campus-pocket/internal/cli"

func main() {
	cli.Execute()
}
