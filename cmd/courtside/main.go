package main

import (
	"context"
	"os"

	"github.com/okian/courtside/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background()))
}
