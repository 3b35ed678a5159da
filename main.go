package main

import (
	"github.com/kaustubhkharvi/stock-trader/internal/cli"
)

func main() {
	cli.Run()
}
