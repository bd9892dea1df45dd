package main

import "chatlytics/cmd"

func main() {
	cmd.Execute()
}
