package main

import "github.com/brcap/uwscan/internal/cli"

func main() {
	cli.Execute()
}
