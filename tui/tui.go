package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"reckon/sheet"
)

const cellWidth = 9

// TUI is the terminal front-end: a grid view over a Sheet with cursor
// movement, in-place editing, and save. It drives the engine exclusively
// through TryUpdate and the getters, like any other front-end.
type TUI struct {
	sheet  *sheet.Sheet
	in     *os.File
	out    io.Writer
	cursor sheet.Position
	status string
}

func New(s *sheet.Sheet) *TUI {
	return &TUI{
		sheet:  s,
		in:     os.Stdin,
		out:    os.Stdout,
		status: "arrows move - enter edits - del clears - ctrl+s saves - ctrl+q quits",
	}
}

// Run takes the terminal raw and loops until quit.
func (t *TUI) Run() error {
	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("standard input is not a terminal")
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return errors.Wrap(err, "enter raw mode")
	}
	defer func() {
		_ = term.Restore(fd, state)
		fmt.Fprint(t.out, "\r\n")
	}()

	in := newInput(t.in)
	for {
		t.render()
		k := in.readKey()
		switch k.kind {
		case keyEOF, keyCtrlC, keyCtrlQ:
			return nil
		case keyUp:
			t.move(-1, 0)
		case keyDown:
			t.move(1, 0)
		case keyLeft:
			t.move(0, -1)
		case keyRight:
			t.move(0, 1)
		case keyHome:
			t.cursor.Col = 0
		case keyEnd:
			t.cursor.Col = t.sheet.Columns() - 1
		case keyDelete:
			t.update("")
		case keyCtrlS:
			t.save(in)
		case keyEnter:
			raw, _ := t.sheet.RawContent(t.cursor.Row, t.cursor.Col)
			t.edit(in, raw)
		case keyChar:
			t.edit(in, string(k.ch))
		}
	}
}

func (t *TUI) move(dr, dc int) {
	r, c := t.cursor.Row+dr, t.cursor.Col+dc
	if r >= 0 && r < t.sheet.Rows() {
		t.cursor.Row = r
	}
	if c >= 0 && c < t.sheet.Columns() {
		t.cursor.Col = c
	}
}

// edit runs the line editor for the current cell and commits on enter.
func (t *TUI) edit(in *input, initial string) {
	prompt := t.cursor.Name() + " = "
	entered, ok := t.readLine(in, prompt, initial)
	if !ok {
		t.status = "edit cancelled"
		return
	}
	t.update(entered)
}

// update pushes raw content through the engine and reports the outcome on
// the status line.
func (t *TUI) update(raw string) {
	changed, err := t.sheet.TryUpdate(t.cursor.Row, t.cursor.Col, raw)
	if err != nil {
		t.status = fmt.Sprintf("%s: %v", sheet.Classify(err), err)
		return
	}
	if raw == "" {
		t.status = fmt.Sprintf("%s cleared", t.cursor.Name())
		return
	}
	t.status = fmt.Sprintf("%d cell(s) updated", len(changed))
}

// save prompts for a path and exports.
func (t *TUI) save(in *input) {
	path, ok := t.readLine(in, "save to: ", "")
	if !ok || strings.TrimSpace(path) == "" {
		t.status = "save cancelled"
		return
	}
	if err := t.sheet.Save(strings.TrimSpace(path)); err != nil {
		t.status = fmt.Sprintf("save failed: %v", err)
		return
	}
	t.status = "saved " + strings.TrimSpace(path)
}

// readLine is a minimal raw-mode line editor: insert, backspace, delete,
// left/right/home/end, enter accepts, escape cancels.
func (t *TUI) readLine(in *input, prompt, initial string) (string, bool) {
	line := []byte(initial)
	cursor := len(line)
	t.drawEditLine(prompt, line, cursor)
	for {
		k := in.readKey()
		switch k.kind {
		case keyEOF, keyCtrlC, keyEscape:
			return "", false
		case keyEnter:
			return string(line), true
		case keyBackspace:
			if cursor > 0 {
				line = append(line[:cursor-1], line[cursor:]...)
				cursor--
			}
		case keyDelete:
			if cursor < len(line) {
				line = append(line[:cursor], line[cursor+1:]...)
			}
		case keyLeft:
			if cursor > 0 {
				cursor--
			}
		case keyRight:
			if cursor < len(line) {
				cursor++
			}
		case keyHome:
			cursor = 0
		case keyEnd:
			cursor = len(line)
		case keyChar:
			line = append(line, 0)
			copy(line[cursor+1:], line[cursor:])
			line[cursor] = k.ch
			cursor++
		}
		t.drawEditLine(prompt, line, cursor)
	}
}

func (t *TUI) drawEditLine(prompt string, line []byte, cursor int) {
	fmt.Fprintf(t.out, "\r\x1b[K%s%s", prompt, string(line))
	if moveLeft := len(line) - cursor; moveLeft > 0 {
		fmt.Fprintf(t.out, "\x1b[%dD", moveLeft)
	}
}

// render repaints the whole screen: header, column names, grid, status.
func (t *TUI) render() {
	var b strings.Builder
	b.WriteString("\x1b[H\x1b[2J")

	raw, _ := t.sheet.RawContent(t.cursor.Row, t.cursor.Col)
	display := ""
	if v, ok := t.sheet.Value(t.cursor.Row, t.cursor.Col); ok {
		display = v.String()
	}
	fmt.Fprintf(&b, "reckon - %s  raw: %s  value: %s\r\n\r\n", t.cursor.Name(), raw, display)

	// Column header row.
	b.WriteString(strings.Repeat(" ", 4))
	for c := 0; c < t.sheet.Columns(); c++ {
		name := strings.TrimRight(sheet.Position{Col: c}.Name(), "0123456789")
		b.WriteString(center(name, cellWidth))
	}
	b.WriteString("\r\n")

	for r := 0; r < t.sheet.Rows(); r++ {
		fmt.Fprintf(&b, "%3d ", r+1)
		for c := 0; c < t.sheet.Columns(); c++ {
			text := ""
			if v, ok := t.sheet.Value(r, c); ok {
				text = v.String()
			}
			if len(text) > cellWidth-1 {
				text = text[:cellWidth-1]
			}
			field := fmt.Sprintf("%-*s", cellWidth, " "+text)
			if r == t.cursor.Row && c == t.cursor.Col {
				field = "\x1b[7m" + field + "\x1b[0m"
			}
			b.WriteString(field)
		}
		b.WriteString("\r\n")
	}
	fmt.Fprintf(&b, "\r\n%s\r\n", t.status)
	fmt.Fprint(t.out, b.String())
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}
