package main

import (
	"os"

	"github.com/msto63/alarmview/cmd/alarmview/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
