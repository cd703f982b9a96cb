package main

import "github.com/kringleapp/kringle/internal/cli"

func main() {
	cli.Execute()
}
