package main

import "github.com/nfrund/authform/cmd/authform-cli/cmd"

func main() {
	cmd.Execute()
}
