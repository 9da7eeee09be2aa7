package main

import (
	"apstramcp/cmd"
)

func main() {
	cmd.Execute()
}
