package main

import "chefbot/cmd"

func main() {
	cmd.Execute()
}
