package main

import "dms-storage/cmd"

func main() {
	cmd.Execute()
}
