package main

import "keywordscan/internal/cli"

func main() {
	cli.Execute()
}
