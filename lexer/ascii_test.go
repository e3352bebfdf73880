package lexer

import (
	"bufio"
	"strconv"
	"strings"
	"testing"
)

// TestLexer_acceptASCII ensures all ascii characters are accepted by the Lexer.
func TestLexer_acceptASCII(t *testing.T) {
	for i := byte(0); i < 1<<7; i++ {
		i := i
		t.Run(strconv.Itoa(int(i)), func(t *testing.T) {
			t.Parallel()

			reader := bufio.NewReader(strings.NewReader(string([]byte{i})))
			if _, err := readASCIIChar(reader); err != nil {
				t.Fatalf("expected no error got: %v", err)
			}
		})
	}
}

// TestLexer_rejectUnicode ensures that no unicode characters are accepted.
func TestLexer_rejectUnicode(t *testing.T) {
	for _, input := range []string{"ä", "⌘", "λ"} {
		t.Run(input, func(t *testing.T) {
			r := bufio.NewReader(strings.NewReader(input))
			if _, err := readASCIIChar(r); err == nil {
				t.Fatal("expected error but got none")
			}
		})
	}
}

func TestIsWhitespace(t *testing.T) {
	for _, c := range []byte{' ', '\t', '\n', '\r'} {
		if !isWhitespace(c) {
			t.Fatalf("expected %q to be whitespace", c)
		}
	}
	if isWhitespace('a') {
		t.Fatal("'a' is not whitespace")
	}
}
