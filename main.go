package main

import "nanolang/cmd"

func main() {
	cmd.Execute()
}
