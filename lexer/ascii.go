package lexer

import (
	"bufio"
	"fmt"
	"io"
	"unicode"
)

func isWhitespace(char byte) bool {
	return char == ' ' || char == '\t' || char == '\n' || char == '\r'
}

func readASCIIChar(src *bufio.Reader) (byte, error) {
	utf8Char, _, err := src.ReadRune()
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("could not read character from source: %v", err)
	}
	if err == io.EOF {
		return 0, nil
	}

	// IR text is ASCII, method and class names of the source language are too
	if utf8Char > unicode.MaxASCII {
		return 0, fmt.Errorf("invalid input: '%c' is not a valid ASCII character", utf8Char)
	}

	return byte(utf8Char), nil
}
