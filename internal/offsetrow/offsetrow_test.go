package offsetrow

import (
	"bytes"
	"testing"

	"github.com/rbtoolkit/rbdb/pkg/devicesql"
)

func TestTailAppendAndReadBack(t *testing.T) {
	const base = 10
	tail := NewTail(base)

	off1, err := tail.Append(devicesql.New("Artist One"))
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	off2, err := tail.Append(devicesql.New("Artist Two"))
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if off1 != base {
		t.Fatalf("off1 = %d, want %d", off1, base)
	}

	row := make([]byte, base)
	row = append(row, tail.Bytes()...)

	s1, err := ReadStringAt(row, off1)
	if err != nil {
		t.Fatalf("ReadStringAt(off1) error = %v", err)
	}
	if s1.Text != "Artist One" {
		t.Fatalf("s1.Text = %q", s1.Text)
	}

	s2, err := ReadStringAt(row, off2)
	if err != nil {
		t.Fatalf("ReadStringAt(off2) error = %v", err)
	}
	if s2.Text != "Artist Two" {
		t.Fatalf("s2.Text = %q", s2.Text)
	}
}

func TestReadStringAtOutOfBounds(t *testing.T) {
	row := bytes.Repeat([]byte{0}, 4)
	if _, err := ReadStringAt(row, 100); err == nil {
		t.Fatal("ReadStringAt() expected an error for an out-of-bounds offset")
	}
}
