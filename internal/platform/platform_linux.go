//go:build linux

package platform

import "golang.org/x/sys/unix"

func tid() int {
	return unix.Gettid()
}
