// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt reads validated answers from an interactive console.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter asks questions on W and reads answers line by line from R.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// New returns a Prompter reading from r and writing prompts to w.
func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(r), out: w}
}

// readLine prints label and returns the next input line. It returns io.EOF
// when the input ends before a line is read.
func (p *Prompter) readLine(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.in.Text(), nil
}

// PositiveInt asks until the answer parses as an integer greater than zero.
func (p *Prompter) PositiveInt(label string) (int, error) {
	for {
		line, err := p.readLine(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintln(p.out, "Please enter a valid number.")
			continue
		}
		if n <= 0 {
			fmt.Fprintln(p.out, "Please enter a positive number.")
			continue
		}
		return n, nil
	}
}

// NonEmpty asks until the answer holds something other than whitespace,
// printing retryMsg after each blank answer. The answer is returned as typed.
func (p *Prompter) NonEmpty(label, retryMsg string) (string, error) {
	for {
		line, err := p.readLine(label)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) != "" {
			return line, nil
		}
		fmt.Fprintln(p.out, retryMsg)
	}
}

// Text asks once and returns the answer as typed, which may be empty.
func (p *Prompter) Text(label string) (string, error) {
	return p.readLine(label)
}
