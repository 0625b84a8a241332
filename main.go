package main

import "github.com/spimgo/spimgo/cmd"

func main() {
	cmd.Execute()
}
