package tui

import (
	"os"
	"time"
)

type keyKind int

const (
	keyChar keyKind = iota
	keyEnter
	keyEscape
	keyBackspace
	keyDelete
	keyUp
	keyDown
	keyLeft
	keyRight
	keyHome
	keyEnd
	keyCtrlC
	keyCtrlQ
	keyCtrlS
	keyEOF
)

type key struct {
	kind keyKind
	ch   byte
}

type byteEvent struct {
	b   byte
	err error
}

// input pumps raw bytes from the terminal on a goroutine and decodes them
// into keys, including the escape sequences for arrows, home, end, and
// delete.
type input struct {
	events chan byteEvent
}

func newInput(in *os.File) *input {
	i := &input{events: make(chan byteEvent, 128)}
	go func() {
		defer close(i.events)
		buf := make([]byte, 1)
		for {
			n, err := in.Read(buf)
			if n > 0 {
				i.events <- byteEvent{b: buf[0]}
			}
			if err != nil {
				i.events <- byteEvent{err: err}
				return
			}
		}
	}()
	return i
}

func (i *input) readKey() key {
	ev, ok := <-i.events
	if !ok || ev.err != nil {
		return key{kind: keyEOF}
	}
	switch ev.b {
	case '\r', '\n':
		return key{kind: keyEnter}
	case 0x03:
		return key{kind: keyCtrlC}
	case 0x11:
		return key{kind: keyCtrlQ}
	case 0x13:
		return key{kind: keyCtrlS}
	case 0x7f, 0x08:
		return key{kind: keyBackspace}
	case 0x1b:
		return i.readEscape()
	}
	if ev.b >= 0x20 {
		return key{kind: keyChar, ch: ev.b}
	}
	return i.readKey()
}

// readEscape decodes the tail of an escape sequence; a lone escape byte is
// reported as keyEscape.
func (i *input) readEscape() key {
	next, ok := i.readByteWithTimeout(10 * time.Millisecond)
	if !ok {
		return key{kind: keyEscape}
	}
	if next != '[' && next != 'O' {
		return key{kind: keyEscape}
	}
	code, ok := i.readByteWithTimeout(10 * time.Millisecond)
	if !ok {
		return key{kind: keyEscape}
	}
	switch code {
	case 'A':
		return key{kind: keyUp}
	case 'B':
		return key{kind: keyDown}
	case 'C':
		return key{kind: keyRight}
	case 'D':
		return key{kind: keyLeft}
	case 'H':
		return key{kind: keyHome}
	case 'F':
		return key{kind: keyEnd}
	case '3':
		if tail, ok := i.readByteWithTimeout(10 * time.Millisecond); ok && tail == '~' {
			return key{kind: keyDelete}
		}
	}
	return key{kind: keyEscape}
}

func (i *input) readByteWithTimeout(timeout time.Duration) (byte, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ev, ok := <-i.events:
		if !ok || ev.err != nil {
			return 0, false
		}
		return ev.b, true
	case <-timer.C:
		return 0, false
	}
}
