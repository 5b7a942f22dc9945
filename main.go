package main

import "fastcat.org/go/excise/cmd"

func main() {
	cmd.Main()
}
