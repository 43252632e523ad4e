// Package main is the entry point for the hive dashboard server.
package main

import "hivewatch/cmd/hivewatch/cmd"

func main() {
	cmd.Execute()
}
