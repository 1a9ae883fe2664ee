package player

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ErrNoRawMode is returned by RawMode where single-key input is not
// implemented.
var ErrNoRawMode = errors.New("raw terminal mode not supported on this platform")

// Keys steps once per key press. In line mode each line counts as one
// press and its first character decides. 'q' or end of input stops.
//
// The reader goroutine lives until the input ends, so Keys is meant for
// process-lifetime inputs such as stdin.
type Keys struct {
	keys chan byte
	err  error
}

func NewKeys(r io.Reader, raw bool) *Keys {
	k := &Keys{keys: make(chan byte)}
	go k.read(bufio.NewReader(r), raw)
	return k
}

func (k *Keys) read(r *bufio.Reader, raw bool) {
	defer close(k.keys)
	for {
		if raw {
			b, err := r.ReadByte()
			if err != nil {
				k.err = err
				return
			}
			k.keys <- b
			continue
		}
		line, err := r.ReadString('\n')
		if line != "" {
			k.keys <- firstKey(line)
		}
		if err != nil {
			k.err = err
			return
		}
	}
}

func firstKey(line string) byte {
	line = strings.TrimSpace(line)
	if line == "" {
		return '\n'
	}
	return line[0]
}

func (k *Keys) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case b, ok := <-k.keys:
		if !ok {
			if k.err != nil && !errors.Is(k.err, io.EOF) {
				return k.err
			}
			return ErrStopped
		}
		switch b {
		case 'q', 'Q', 0x04:
			return ErrStopped
		}
		return nil
	}
}

// StdinKeys reads key presses from stdin, in raw mode when stdin is a
// terminal that supports it. The returned restore func is never nil.
func StdinKeys() (*Keys, func(), error) {
	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) {
		return NewKeys(os.Stdin, false), func() {}, nil
	}
	restore, err := RawMode(int(fd))
	if errors.Is(err, ErrNoRawMode) {
		return NewKeys(os.Stdin, false), func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return NewKeys(os.Stdin, true), func() { _ = restore() }, nil
}
