package main

import "github.com/hhcho/sell-assoc/cmd"

func main() {
	cmd.Execute()
}
