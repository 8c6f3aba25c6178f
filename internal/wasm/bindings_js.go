//go:build js && wasm

package wasm

import (
	"log/slog"
	"syscall/js"
)

// Register exposes the adapter as functions on the JavaScript global object.
func Register(adapter *Adapter) {
	global := js.Global()

	global.Set("getWidth", js.FuncOf(func(js.Value, []js.Value) any {
		return adapter.GetWidth()
	}))

	global.Set("getHeight", js.FuncOf(func(js.Value, []js.Value) any {
		return adapter.GetHeight()
	}))

	global.Set("toggleFlag", js.FuncOf(func(_ js.Value, args []js.Value) any {
		x, y, ok := intArgs("toggleFlag", args, 2)
		if !ok {
			return false
		}
		return adapter.ToggleFlag(x, y)
	}))

	global.Set("openCell", js.FuncOf(func(_ js.Value, args []js.Value) any {
		x, y, ok := intArgs("openCell", args, 2)
		if !ok {
			return false
		}
		return adapter.OpenCell(x, y)
	}))

	global.Set("getCells", js.FuncOf(func(js.Value, []js.Value) any {
		cells := adapter.GetCells()
		values := make([]any, len(cells))
		for i, code := range cells {
			values[i] = code
		}
		return values
	}))

	global.Set("getStatus", js.FuncOf(func(js.Value, []js.Value) any {
		return adapter.GetStatus()
	}))

	global.Set("restart", js.FuncOf(func(js.Value, []js.Value) any {
		adapter.Restart()
		return nil
	}))

	global.Set("newBoard", js.FuncOf(func(_ js.Value, args []js.Value) any {
		if !checkNumbers("newBoard", args, 3) {
			return false
		}
		return adapter.NewBoard(args[0].Int(), args[1].Int(), args[2].Int())
	}))
}

func intArgs(name string, args []js.Value, want int) (int, int, bool) {
	if !checkNumbers(name, args, want) {
		return 0, 0, false
	}
	return args[0].Int(), args[1].Int(), true
}

func checkNumbers(name string, args []js.Value, want int) bool {
	if len(args) != want {
		slog.Warn("called with wrong number of args", "function", name, "got", len(args), "want", want)
		return false
	}

	for i, arg := range args {
		if arg.Type() != js.TypeNumber {
			slog.Warn("called with wrong type of arg", "function", name, "arg", i)
			return false
		}
	}

	return true
}
