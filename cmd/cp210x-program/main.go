package main

import "github.com/moffa90/go-cp210x/cmd/cp210x-program/cmd"

func main() {
	cmd.Execute()
}
