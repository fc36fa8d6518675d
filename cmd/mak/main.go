package main

import "mak/cmd/mak/root"

func main() {
	root.Execute()
}
