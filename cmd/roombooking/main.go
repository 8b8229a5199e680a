package main

import (
	"fmt"
	"os"

	"room-booking-backend/internal/cli"
)

func main() {
	if err := cli.NewRoot().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
