package main

import "officepages/app/internal/cli"

func main() {
	cli.Execute()
}
