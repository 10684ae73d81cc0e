package main

import "github.com/Ethernal-Tech/cip68-lifecycle/cli"

func main() {
	cli.NewRootCommand().Execute()
}
