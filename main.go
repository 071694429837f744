package main

import "thoreinstein.com/skinscout/cmd"

func main() {
	cmd.Execute()
}
