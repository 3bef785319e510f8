package main

import "github.com/teamtrust/tctl/pkg/cli"

func main() {
	cli.Execute()
}
