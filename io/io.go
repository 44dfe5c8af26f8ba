package io

import (
	"bufio"
	"errors"
)

var (
	ErrLineTooLong   = errors.New("smtp: line too long")
	ErrBadLineEnding = errors.New("smtp: line not terminated by CRLF")
)

// ReadLine reads a single command line and returns it without its terminator.
// max bounds the line length including the terminator (0 = unlimited).
// With strict set, a line ending in a bare LF is rejected with ErrBadLineEnding;
// otherwise both CRLF and LF are accepted.
func ReadLine(reader *bufio.Reader, max int, strict bool) (string, error) {
	// FAST PATH: the whole line fits in the bufio buffer.
	line, err := reader.ReadSlice('\n')
	if err == nil {
		return validateAndConvert(line, max, strict)
	}

	if err != bufio.ErrBufferFull {
		return "", err
	}

	// SLOW PATH: the line is larger than the bufio buffer.
	// Copy the first chunk, the next ReadSlice overwrites it.
	buf := append([]byte(nil), line...)

	for {
		line, err = reader.ReadSlice('\n')

		if max > 0 && len(buf)+len(line) > max {
			if err == nil {
				return "", ErrLineTooLong
			}
			// Drain the rest of the line so the next read starts fresh
			drainLine(reader)
			return "", ErrLineTooLong
		}

		buf = append(buf, line...)

		if err == nil {
			break
		}

		if err != bufio.ErrBufferFull {
			return "", err
		}
	}

	return validateAndConvert(buf, max, strict)
}

// validateAndConvert checks length and terminator, then converts to string.
// b must end in '\n'.
func validateAndConvert(b []byte, max int, strict bool) (string, error) {
	if max > 0 && len(b) > max {
		return "", ErrLineTooLong
	}

	n := len(b) - 1
	if n > 0 && b[n-1] == '\r' {
		return string(b[:n-1]), nil
	}
	if strict {
		return "", ErrBadLineEnding
	}
	return string(b[:n]), nil
}

// drainLine discards the rest of the current line to recover protocol synchronization.
func drainLine(reader *bufio.Reader) {
	for {
		_, err := reader.ReadSlice('\n')
		if err == nil {
			return
		}
		if err != bufio.ErrBufferFull {
			return
		}
	}
}
