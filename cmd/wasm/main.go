//go:build js && wasm

package main

import (
	"github.com/lk16/mines/internal/wasm"
)

func main() {
	wasm.Register(wasm.NewAdapter())

	// Keep the program running
	select {}
}
