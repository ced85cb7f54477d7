package main

import "github.com/kozaktomas/bookpress/cmd"

func main() {
	cmd.Execute()
}
