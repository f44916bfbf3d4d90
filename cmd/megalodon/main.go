package main

import "megalodon/internal/cmd"

func main() {
	cmd.Run()
}
