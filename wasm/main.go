//go:build wasm

package main

import (
	"syscall/js"
)

func main() {
	// Export functions to JavaScript
	js.Global().Set("LintelNewLinter", js.FuncOf(newLinter))
	js.Global().Set("LintelLint", js.FuncOf(lint))
	js.Global().Set("LintelLintBatch", js.FuncOf(lintBatch))
	js.Global().Set("LintelCloseLinter", js.FuncOf(closeLinter))
	js.Global().Set("LintelGetRules", js.FuncOf(getRules))

	// Keep WASM running
	<-make(chan struct{})
}
