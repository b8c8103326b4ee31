package main

import "github.com/shubh-37/linkedin-autoposter/internal/cli"

func main() {
	cli.Execute()
}
