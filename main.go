package main

import "github.com/c0depwn/jmmc/cmd"

func main() {
	cmd.Exec()
}
