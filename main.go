package main

import "github.com/ecemunal/planline/internal/cli"

func main() {
	cli.Execute()
}
