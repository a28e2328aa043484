package main

import "github.com/imessage-tools/imessage-session/cmd"

func main() {
	cmd.Execute()
}
