package devicesql

import (
	"bytes"
	"testing"
)

func TestDecodeShortASCII(t *testing.T) {
	// "AB" -> length 2, lead byte = (2+1)*2|1 = 7
	data := []byte{0x07, 'A', 'B'}
	s, err := Decode(bytes.NewReader(data), 0)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if s.Text != "AB" {
		t.Errorf("Text = %q, want %q", s.Text, "AB")
	}
	if s.Kind != KindShortASCII {
		t.Errorf("Kind = %v, want KindShortASCII", s.Kind)
	}
}

func TestShortASCIIRoundTrip(t *testing.T) {
	original := []byte{0x07, 'A', 'B'}
	s, err := Decode(bytes.NewReader(original), 0)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	var buf bytes.Buffer
	if _, err := s.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.Equal(buf.Bytes(), original) {
		t.Errorf("round trip = % x, want % x", buf.Bytes(), original)
	}
}

func TestDecodeShortASCIIEmpty(t *testing.T) {
	// "" -> length 0, lead byte = (0+1)*2|1 = 3
	data := []byte{0x03}
	s, err := Decode(bytes.NewReader(data), 0)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if s.Text != "" {
		t.Errorf("Text = %q, want empty", s.Text)
	}
}

func TestDecodeShortASCIIEvenLeadByte(t *testing.T) {
	data := []byte{0x06, 'A', 'B'}
	if _, err := Decode(bytes.NewReader(data), 0); err == nil {
		t.Fatal("Decode() expected error for even lead byte, got nil")
	}
}

func TestDecodeLongUTF16RoundTrip(t *testing.T) {
	// "Hi" in UTF-16LE + null terminator: header(0x90, len=4+3*2=10, unknown=0)
	original := []byte{
		0x90, 0x0a, 0x00, 0x00,
		'H', 0x00, 'i', 0x00, 0x00, 0x00,
	}
	s, err := Decode(bytes.NewReader(original), 0)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if s.Text != "Hi" {
		t.Errorf("Text = %q, want %q", s.Text, "Hi")
	}
	var buf bytes.Buffer
	if _, err := s.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.Equal(buf.Bytes(), original) {
		t.Errorf("round trip = % x, want % x", buf.Bytes(), original)
	}
}

func TestDecodeLongUTF16OddBody(t *testing.T) {
	data := []byte{0x90, 0x07, 0x00, 0x00, 'H', 0x00, 'i'}
	if _, err := Decode(bytes.NewReader(data), 0); err == nil {
		t.Fatal("Decode() expected error for odd-length utf16 body, got nil")
	}
}

func TestNewChoosesShortForASCII(t *testing.T) {
	s := New("hello")
	var buf bytes.Buffer
	if _, err := s.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, err := Decode(bytes.NewReader(buf.Bytes()), 0)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if decoded.Kind != KindShortASCII {
		t.Errorf("Kind = %v, want KindShortASCII", decoded.Kind)
	}
	if decoded.Text != "hello" {
		t.Errorf("Text = %q, want %q", decoded.Text, "hello")
	}
}

func TestNewChoosesUTF16ForNonASCII(t *testing.T) {
	s := New("café")
	var buf bytes.Buffer
	if _, err := s.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, err := Decode(bytes.NewReader(buf.Bytes()), 0)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if decoded.Kind != KindLongUTF16 {
		t.Errorf("Kind = %v, want KindLongUTF16", decoded.Kind)
	}
	if decoded.Text != "café" {
		t.Errorf("Text = %q, want %q", decoded.Text, "café")
	}
}

func TestNewChoosesUTF16ForLongASCII(t *testing.T) {
	long := bytes.Repeat([]byte("a"), 200)
	s := New(string(long))
	var buf bytes.Buffer
	if _, err := s.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, err := Decode(bytes.NewReader(buf.Bytes()), 0)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if decoded.Kind != KindLongUTF16 {
		t.Errorf("Kind = %v, want KindLongUTF16 for strings over 126 bytes", decoded.Kind)
	}
}
