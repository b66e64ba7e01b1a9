package main

import (
	"os"
	"runtime"

	"github.com/xlab/closer"
)

// GLFW and GL calls must stay on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	defer closer.Close()

	if err := newApp().Run(os.Args); err != nil {
		closer.Fatalln(err)
	}
}
