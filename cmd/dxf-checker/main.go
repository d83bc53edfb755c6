package main

import (
	"github.com/checkmateLL/dxf-checker/internal/cli"
)

func main() {
	cli.Execute()
}
