package main

import "github.com/nacharyadev/db-schema-visualizer/internal/cli"

func main() {
	cli.Execute()
}
