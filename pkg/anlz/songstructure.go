package anlz

import (
	"bytes"

	"github.com/rbtoolkit/rbdb/internal/bin"
	"github.com/rbtoolkit/rbdb/pkg/common"
)

// Mood is the overall phrase-analysis mood assigned to the track.
type Mood uint16

// Documented moods.
const (
	MoodHigh Mood = 1
	MoodMid  Mood = 2
	MoodLow  Mood = 3
)

// Bank is the color bank the rekordbox phrase editor assigns a track to.
type Bank uint8

// Documented banks.
const (
	BankDefault Bank = 0
	BankCool    Bank = 1
	BankNatural Bank = 2
	BankHot     Bank = 3
	BankSubtle  Bank = 4
	BankWarm    Bank = 5
	BankVivid   Bank = 6
)

// PhraseEntry is one labeled phrase boundary in the song structure grid.
// Reserved is the trailing unknown byte of each 8-byte entry, captured
// verbatim rather than assumed to be zero (spec §9).
type PhraseEntry struct {
	Index    uint16
	Kind     uint16
	Beat     uint16
	Fill     uint8
	Reserved []byte
}

// SongStructure is the decoded PSSI section payload. Newer exports XOR
// the raw section bytes against a fixed keystream before writing them to
// disk; this codec always stores the unmasked form in memory and
// reapplies the mask on write so the on-disk bytes round-trip exactly
// (spec §4.4.6).
//
// Reserved1, Reserved2 and Reserved3 are the header bytes spec §4.4.6
// leaves undocumented; they and EndBeat are kept verbatim rather than
// recomputed as zero so a real export's header bytes round-trip
// unchanged (spec §9).
type SongStructure struct {
	Mood      Mood
	Reserved1 []byte
	EndBeat   uint16
	Reserved2 []byte
	Bank      Bank
	Reserved3 []byte
	Entries   []PhraseEntry
	Masked    bool
}

// songStructureKey is the fixed per-position XOR keystream rekordbox
// applies to PSSI payloads in masked exports. Symmetric: the same bytes
// unmask on read and remask on write, mirroring the teacher's
// compressLZ/decompressLZ symmetry (pkg/gam.go).
var songStructureKey = []byte{
	0xcb, 0xe1, 0xee, 0xfa, 0xe5, 0xee, 0xad, 0xee,
	0xe9, 0xd2, 0xe9, 0xeb, 0xe1, 0xee, 0x92, 0x92,
	0xce, 0x56, 0xd7, 0x49,
}

func xorMask(dst, src []byte, key []byte) {
	for i := range src {
		dst[i] = src[i] ^ key[i%len(key)]
	}
}

func decodeSongStructure(body []byte) (*SongStructure, error) {
	masked := looksMasked(body)
	plain := body
	if masked {
		plain = make([]byte, len(body))
		xorMask(plain, body, songStructureKey)
	}

	r := bytes.NewReader(plain)
	entryCount, err := bin.ReadU16(r, order)
	if err != nil {
		return nil, common.FormatError("failed to read song structure header", err)
	}
	mood, err := bin.ReadU16(r, order)
	if err != nil {
		return nil, common.FormatError("failed to read song structure header", err)
	}
	reserved1, err := bin.ReadPad(r, 6)
	if err != nil {
		return nil, common.FormatError("failed to read song structure header", err)
	}
	endBeat, err := bin.ReadU16(r, order)
	if err != nil {
		return nil, common.FormatError("failed to read song structure header", err)
	}
	reserved2, err := bin.ReadPad(r, 2)
	if err != nil {
		return nil, common.FormatError("failed to read song structure header", err)
	}
	bankByte, err := bin.ReadU8(r)
	if err != nil {
		return nil, common.FormatError("failed to read song structure header", err)
	}
	reserved3, err := bin.ReadPad(r, 1)
	if err != nil {
		return nil, common.FormatError("failed to read song structure header", err)
	}

	entries := make([]PhraseEntry, 0, entryCount)
	for i := uint16(0); i < entryCount; i++ {
		idx, err := bin.ReadU16(r, order)
		if err != nil {
			return nil, common.FormatError("failed to read phrase entry", err)
		}
		kind, err := bin.ReadU16(r, order)
		if err != nil {
			return nil, common.FormatError("failed to read phrase entry", err)
		}
		beat, err := bin.ReadU16(r, order)
		if err != nil {
			return nil, common.FormatError("failed to read phrase entry", err)
		}
		fill, err := bin.ReadU8(r)
		if err != nil {
			return nil, common.FormatError("failed to read phrase entry", err)
		}
		reserved, err := bin.ReadPad(r, 1)
		if err != nil {
			return nil, common.FormatError("failed to read phrase entry", err)
		}
		entries = append(entries, PhraseEntry{Index: idx, Kind: kind, Beat: beat, Fill: fill, Reserved: reserved})
	}

	return &SongStructure{
		Mood:      Mood(mood),
		Reserved1: reserved1,
		EndBeat:   endBeat,
		Reserved2: reserved2,
		Bank:      Bank(bankByte),
		Reserved3: reserved3,
		Entries:   entries,
		Masked:    masked,
	}, nil
}

// looksMasked guesses whether a PSSI payload is XOR-masked by checking
// whether its mood field, read unmasked, is one of the three documented
// values. Real exports flag this in the file's version string rather
// than per-section, but that context is not available at this layer.
func looksMasked(body []byte) bool {
	if len(body) < 4 {
		return false
	}
	mood := order.Uint16(body[2:4])
	switch Mood(mood) {
	case MoodHigh, MoodMid, MoodLow:
		return false
	default:
		return true
	}
}

// Encode serializes the song structure, remasking it if it was decoded
// from a masked section.
func (s *SongStructure) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := bin.WriteU16(&buf, order, uint16(len(s.Entries))); err != nil {
		return nil, err
	}
	if err := bin.WriteU16(&buf, order, uint16(s.Mood)); err != nil {
		return nil, err
	}
	if err := bin.WritePad(&buf, bin.PadOrZero(s.Reserved1, 6)); err != nil {
		return nil, err
	}
	if err := bin.WriteU16(&buf, order, s.EndBeat); err != nil {
		return nil, err
	}
	if err := bin.WritePad(&buf, bin.PadOrZero(s.Reserved2, 2)); err != nil {
		return nil, err
	}
	if err := bin.WriteU8(&buf, uint8(s.Bank)); err != nil {
		return nil, err
	}
	if err := bin.WritePad(&buf, bin.PadOrZero(s.Reserved3, 1)); err != nil {
		return nil, err
	}
	for _, e := range s.Entries {
		if err := bin.WriteU16(&buf, order, e.Index); err != nil {
			return nil, err
		}
		if err := bin.WriteU16(&buf, order, e.Kind); err != nil {
			return nil, err
		}
		if err := bin.WriteU16(&buf, order, e.Beat); err != nil {
			return nil, err
		}
		if err := bin.WriteU8(&buf, e.Fill); err != nil {
			return nil, err
		}
		if err := bin.WritePad(&buf, bin.PadOrZero(e.Reserved, 1)); err != nil {
			return nil, err
		}
	}

	plain := buf.Bytes()
	if !s.Masked {
		return plain, nil
	}
	masked := make([]byte, len(plain))
	xorMask(masked, plain, songStructureKey)
	return masked, nil
}
