package main

import "github.com/periodicmedia/guidewave/cmd"

func main() {
	cmd.Execute()
}
