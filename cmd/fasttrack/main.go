package main

import "github.com/askiada/go-fasttrack/internal/cli"

func main() {
	cli.Execute()
}
