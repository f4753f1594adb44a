package iocli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal reads from in and writes prompts and output to out.
// Если in - терминал, пароль читается без эха.
type Terminal struct {
	in     *bufio.Reader
	out    io.Writer
	fd     int
	hasTTY bool
}

var _ IO = (*Terminal)(nil)

// NewTerminal creates a Terminal over the given streams.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{
		in:  bufio.NewReader(in),
		out: out,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.fd = int(f.Fd())
		t.hasTTY = true
	}
	return t
}

// NewStdio creates a Terminal over the process stdin and stdout.
func NewStdio() *Terminal {
	return NewTerminal(os.Stdin, os.Stdout)
}

func (t *Terminal) Println(a ...any) {
	_, _ = fmt.Fprintln(t.out, a...)
}

func (t *Terminal) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(t.out, format, a...)
}

func (t *Terminal) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

// ReadInput печатает prompt и читает строку без пробелов по краям
func (t *Terminal) ReadInput(prompt string) (string, error) {
	t.Printf("%s", prompt)
	line, err := t.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadPassword печатает prompt и читает пароль.
// Пробелы в пароле значимы, обрезается только перевод строки.
func (t *Terminal) ReadPassword(prompt string) (string, error) {
	t.Printf("%s", prompt)
	if t.hasTTY {
		pw, err := term.ReadPassword(t.fd)
		t.Println()
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}

	line, err := t.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readLine accepts a final line without a trailing newline.
func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		return "", err
	}
	return line, nil
}
