package main

import "travel-journal-backend/cmd"

func main() {
	cmd.Run()
}
