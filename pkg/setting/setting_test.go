package setting

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rbtoolkit/rbdb/internal/rberr"
)

func buildFixture(t *testing.T, filename string, payload Payload) []byte {
	t.Helper()
	f := &File{Header: newDefaultHeader(filename), Payload: payload}
	var buf bytes.Buffer
	if err := WriteFile(&buf, f); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return buf.Bytes()
}

func TestMySettingRoundTrip(t *testing.T) {
	def, err := DefaultMySetting()
	if err != nil {
		t.Fatalf("DefaultMySetting() error = %v", err)
	}
	original := buildFixture(t, FilenameMySetting, def.Payload)

	parsed, err := ReadFile(bytes.NewReader(original))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	var out bytes.Buffer
	if err := WriteFile(&out, parsed); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if !bytes.Equal(out.Bytes(), original) {
		t.Errorf("round trip mismatch:\n got % x\nwant % x", out.Bytes(), original)
	}
}

func TestMySetting2RoundTrip(t *testing.T) {
	def, err := DefaultMySetting2()
	if err != nil {
		t.Fatalf("DefaultMySetting2() error = %v", err)
	}
	original := buildFixture(t, FilenameMySetting2, def.Payload)

	parsed, err := ReadFile(bytes.NewReader(original))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var out bytes.Buffer
	if err := WriteFile(&out, parsed); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if !bytes.Equal(out.Bytes(), original) {
		t.Errorf("round trip mismatch")
	}
}

func TestDjmMySettingRoundTrip(t *testing.T) {
	def, err := DefaultDjmMySetting()
	if err != nil {
		t.Fatalf("DefaultDjmMySetting() error = %v", err)
	}
	original := buildFixture(t, FilenameDjmMySetting, def.Payload)

	parsed, err := ReadFile(bytes.NewReader(original))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var out bytes.Buffer
	if err := WriteFile(&out, parsed); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if !bytes.Equal(out.Bytes(), original) {
		t.Errorf("round trip mismatch")
	}
}

func TestDevSettingRoundTrip(t *testing.T) {
	def, err := DefaultDevSetting()
	if err != nil {
		t.Fatalf("DefaultDevSetting() error = %v", err)
	}
	original := buildFixture(t, FilenameDevSetting, def.Payload)

	parsed, err := ReadFile(bytes.NewReader(original))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var out bytes.Buffer
	if err := WriteFile(&out, parsed); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if !bytes.Equal(out.Bytes(), original) {
		t.Errorf("round trip mismatch")
	}
}

func TestReadDetectsCRCMismatch(t *testing.T) {
	def, err := DefaultDevSetting()
	if err != nil {
		t.Fatalf("DefaultDevSetting() error = %v", err)
	}
	original := buildFixture(t, FilenameDevSetting, def.Payload)
	// Corrupt the CRC bytes (second-to-last two bytes before the tail).
	corrupted := append([]byte(nil), original...)
	corrupted[len(corrupted)-3] ^= 0xff

	parsed, err := ReadFile(bytes.NewReader(corrupted))
	if parsed == nil {
		t.Fatalf("ReadFile() should still return the parsed structure on CRC mismatch")
	}
	var crcErr *rberr.ChecksumError
	if !errors.As(err, &crcErr) {
		t.Fatalf("ReadFile() error = %v, want *rberr.ChecksumError", err)
	}
}

func TestUnrecognizedEnumByteIsError(t *testing.T) {
	def, err := DefaultDevSetting()
	if err != nil {
		t.Fatalf("DefaultDevSetting() error = %v", err)
	}
	original := buildFixture(t, FilenameDevSetting, def.Payload)
	// Payload starts right after header(104) + length(4).
	payloadStart := headerSize + 4
	corrupted := append([]byte(nil), original...)
	corrupted[payloadStart+8] = 0xFF // Overview field slot, not a documented value

	if _, err := ReadFile(bytes.NewReader(corrupted)); err == nil {
		t.Fatal("ReadFile() expected an enum error for unrecognized Overview byte")
	}
}
