package main

import "github.com/vietddude/headlines/internal/cli"

func main() {
	cli.Execute()
}
