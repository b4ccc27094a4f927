package main

import "i18n-extract/internal/cli"

func main() {
	cli.Execute()
}
