package main

import (
	"os"

	"github.com/idilsaglam/todo-inline/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
