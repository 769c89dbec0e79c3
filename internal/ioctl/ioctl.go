//go:build unix

// Package ioctl wraps the ioctl system call.
package ioctl

import (
	"fmt"
	"syscall"
	"unsafe"
)

// Mode is the IOCTL direction.
type Mode uint8

// Modes
const (
	None Mode = iota
	Write
	Read
)

// Command to be sent over ioctl.
type Command uintptr

func (c Command) String() string {
	var (
		mode = Mode(c >> 30 & 0x03)
		size = c >> 16 & 0x3fff
		cmd  = c & 0xffff
		str  string
	)
	if mode&Write > 0 {
		str += " write"
	}
	if mode&Read > 0 {
		str += " read"
	}
	return fmt.Sprintf("ioctl%s (%d bytes) 0x%04x", str, size, uintptr(cmd))
}

// Encode an ioctl command.
func Encode(mode Mode, size uint16, cmd uintptr) Command {
	return Command(mode)<<30 | Command(size)<<16 | Command(cmd)
}

// Call issues command on fd with arg pointing at the request structure.
func Call(fd, command uintptr, arg unsafe.Pointer) error {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, command, uintptr(arg))
	if errno != 0 {
		return &CallError{Command: Command(command), Err: errno}
	}
	return nil
}

// CallError is returned when an ioctl call fails.
type CallError struct {
	Command Command
	Err     syscall.Errno
}

func (err *CallError) Error() string {
	return fmt.Sprintf("%s failed: %v", err.Command, err.Err)
}

func (err *CallError) Unwrap() error {
	return err.Err
}
