package main

import "github.com/pravsels/deepwork/internal/cli"

func main() {
	cli.Execute()
}
