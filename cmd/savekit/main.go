package main

import "github.com/rawbytedev/savekit/cmd/savekit/cmd"

func main() {
	cmd.Execute()
}
