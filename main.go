package main

import "github.com/ngophulan456hn/alice-assignment/cmd"

func main() {
	cmd.Execute()
}
