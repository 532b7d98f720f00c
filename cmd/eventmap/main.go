package main

import (
	"context"
	"os"
)

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	if env != nil {
		env.close()
	}
	if err != nil {
		os.Exit(1)
	}
}
