package main

import "github.com/youmna-rabie/tebex-gateway/internal/cli"

func main() {
	cli.Execute()
}
