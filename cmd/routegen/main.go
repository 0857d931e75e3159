package main

import "github.com/abdul-hamid-achik/routegen/cmd/routegen/commands"

func main() {
	commands.Execute()
}
