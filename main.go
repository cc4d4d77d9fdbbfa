package main

import "raven/cmd"

func main() {
	cmd.Execute()
}
