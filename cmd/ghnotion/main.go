package main

import "ghnotion/internal/cmd"

func main() {
	cmd.Execute()
}
