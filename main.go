package main

import "stock-marketplace/cmd"

func main() {
	cmd.Execute()
}
