package main

import "github.com/sudo-init-do/stagebook/internal/cli"

func main() {
	cli.Execute()
}
