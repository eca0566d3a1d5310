package main

import "github.com/testzen-dev/testzen-runner/pkg/cli"

func main() {
	cli.Execute()
}
