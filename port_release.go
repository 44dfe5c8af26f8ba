//go:build !debug

package zephpost

// DefaultPort is the standard SMTP port.
const DefaultPort = 25
