package main

import "appointly/cmd"

func main() {
	cmd.Execute()
}
