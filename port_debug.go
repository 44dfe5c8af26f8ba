//go:build debug

package zephpost

// DefaultPort is an unprivileged port for local development.
const DefaultPort = 2525
