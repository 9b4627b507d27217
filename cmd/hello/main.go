// Command hello prints "Hello, world!".
package main

import (
	"os"

	"github.com/woxQAQ/hello-wasm/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
