package errors

import "errors"

var (
	// Version graph errors 🗂️
	ErrVersionNotFound = errors.New("❌ version descriptor not found")
	ErrCycleDetected   = errors.New("❌ version inheritance cycle detected")

	// Acquisition errors 📥
	ErrIntegrityMismatch = errors.New("❌ artifact integrity mismatch")
	ErrTransport         = errors.New("❌ artifact transfer failed")

	// Runtime errors ☕
	ErrUnsupportedRuntime = errors.New("❌ no compatible java runtime")
	ErrBinaryNotFound     = errors.New("❌ java binary not found after install")

	// Launch errors 🚀
	ErrSpawn = errors.New("❌ game process spawn failed")
)
