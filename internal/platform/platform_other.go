//go:build !linux

package platform

import "os"

// Non-Linux platforms have no cheap, portable syscall for the calling
// thread's kernel id; fall back to the process id, which is still
// useful for grouping a process's log lines together.
func tid() int {
	return os.Getpid()
}
