package main

import "github.com/frahmantamala/bengkelku/cmd"

func main() {
	cmd.Execute()
}
