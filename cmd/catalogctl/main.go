package main

import "library-catalog/cmd/catalogctl/commands"

func main() {
	commands.Execute()
}
