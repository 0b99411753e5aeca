package main

import "github.com/aweris/dstore/cmd/dstore/cmd"

func main() {
	cmd.Execute()
}
