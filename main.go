package main

import (
	"fmt"

	"oracle/cmd"
)

var (
	version string
	commit  string
)

func main() {
	version := fmt.Sprintf("%s-%s", version, commit)

	cmd.Execute(version)
}
