package main

import "github.com/ingestd/ingestd/internal/cli"

func main() {
	cli.Execute()
}
