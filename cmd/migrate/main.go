package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	Execute()
}

func fatal(msg string, err error) {
	color.New(color.FgRed).Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

func success(format string, args ...interface{}) {
	color.Green(format, args...)
}

func info(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}
