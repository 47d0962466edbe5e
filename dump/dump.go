// Package dump renders a machine's memory range as a structured XML
// document, one cell element per address.
package dump

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/ezrec/uvm/translate"
	"github.com/ezrec/uvm/vm"
)

var f = translate.From

// Cell is one address/value pair of the dump document.
type Cell struct {
	Address int   `xml:"address,attr" json:"address"`
	Value   int64 `xml:"value,attr" json:"value"`
}

// Memory is the dump document for an inclusive address range.
type Memory struct {
	XMLName xml.Name `xml:"memory" json:"-"`
	Cells   []Cell   `xml:"cell" json:"cells"`
}

// New builds the dump document for mem[start..end] inclusive.
func New(m *vm.Machine, start, end int) (doc *Memory, err error) {
	cells, err := m.MemoryRange(start, end)
	if err != nil {
		return
	}

	doc = &Memory{
		Cells: make([]Cell, len(cells)),
	}
	for n, value := range cells {
		doc.Cells[n] = Cell{Address: start + n, Value: value}
	}

	return
}

// WriteTo serializes the document with an XML header and indentation.
func (doc *Memory) WriteTo(w io.Writer) (n int64, err error) {
	cw := &countWriter{w: w}

	_, err = io.WriteString(cw, xml.Header)
	if err != nil {
		n = cw.n
		return
	}

	enc := xml.NewEncoder(cw)
	enc.Indent("", "  ")
	err = enc.Encode(doc)
	n = cw.n

	return
}

type countWriter struct {
	w io.Writer
	n int64
}

func (cw *countWriter) Write(p []byte) (n int, err error) {
	n, err = cw.w.Write(p)
	cw.n += int64(n)
	return
}

// ErrRangeSyntax reports a range argument that is not 'start-end'.
type ErrRangeSyntax string

func (err ErrRangeSyntax) Error() string {
	return f("'%v' is not a start-end range", string(err))
}

// ParseRange parses an inclusive 'start-end' range, e.g. "100-220".
func ParseRange(s string) (start, end int, err error) {
	a, b, ok := strings.Cut(s, "-")
	if !ok {
		err = ErrRangeSyntax(s)
		return
	}

	start, err = strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		err = ErrRangeSyntax(s)
		return
	}
	end, err = strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		err = ErrRangeSyntax(s)
		return
	}

	return
}
