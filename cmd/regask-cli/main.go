package main

import "github.com/kailas-cloud/regask/internal/cli"

func main() {
	cli.Execute()
}
