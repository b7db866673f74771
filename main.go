package main

import "sanket/cmd"

func main() {
	cmd.Execute()
}
