package main

import "github.com/securevault/cli/cmd"

func main() {
	cmd.Execute()
}
