package main

import "sitecontent/cmd/sitecontent/commands"

func main() {
	commands.Execute()
}
