package setting

import (
	"github.com/rbtoolkit/rbdb/internal/rberr"
)

// Filename constants recognized as payload-variant tags (spec §3.1).
const (
	FilenameDevSetting    = "DEVSETTING.DAT"
	FilenameDjmMySetting  = "DJMMYSETTING.DAT"
	FilenameMySetting     = "MYSETTING.DAT"
	FilenameMySetting2    = "MYSETTING2.DAT"
)

// Payload-size constants (spec §3.1).
const (
	devSettingSize   = 32
	djmMySettingSize = 52
	mySettingSize    = 40
	mySetting2Size   = 40
)

// Payload is implemented by each of the four fixed-layout payload variants
// plus the UnknownPayload fallback (spec §4.5: unknown tag values are
// preserved, not discarded).
type Payload interface {
	// Bytes serializes the payload to its exact on-disk form.
	Bytes() ([]byte, error)
	// Size returns the on-disk payload length.
	Size() int
}

// DevSetting is the DEVSETTING.DAT payload (spec §3.1): 32 bytes.
type DevSetting struct {
	Unknown1 [8]byte
	Overview Field
	AutoCue  Field
	Unknown2 [22]byte
}

func decodeDevSetting(data []byte) (*DevSetting, error) {
	if len(data) != devSettingSize {
		return nil, rberr.NewStructural(0, "devsetting payload has wrong length", nil)
	}
	p := &DevSetting{}
	copy(p.Unknown1[:], data[0:8])
	var err error
	if p.Overview, err = overviewSpec.parse(data[8]); err != nil {
		return nil, err
	}
	if p.AutoCue, err = autoCueSpec.parse(data[9]); err != nil {
		return nil, err
	}
	copy(p.Unknown2[:], data[10:32])
	return p, nil
}

func (p *DevSetting) Size() int { return devSettingSize }

func (p *DevSetting) Bytes() ([]byte, error) {
	buf := make([]byte, devSettingSize)
	copy(buf[0:8], p.Unknown1[:])
	buf[8] = p.Overview.Value
	buf[9] = p.AutoCue.Value
	copy(buf[10:32], p.Unknown2[:])
	return buf, nil
}

// MySetting is the MYSETTING.DAT payload (spec §3.1): 40 bytes.
type MySetting struct {
	Unknown1             [4]byte
	OnAirDisplay         Field
	LCDBrightness        Field
	Quantize             Field
	AutoCueLevel         Field
	Language             Field
	JogRingBrightness    Field
	JogRingIndicator     Field
	JogDisplayMode       Field
	SlipFlashing         Field
	DiscSlotIllumination Field
	EjectLock            Field
	Sync                 Field
	PlayMode             Field
	QuantizeBeatValue    Field
	HotCueAutoLoad       Field
	HotCueColor          Field
	NeedleLock           Field
	TimeMode             Field
	AutoCue              Field
	MasterTempo          Field
	TempoRange           Field
	JogMode              Field
	VinylSpeedAdjust     Field
	Unknown2             [13]byte
}

var mySettingFieldSpecs = []*spec{
	onAirDisplaySpec, lcdBrightnessSpec, quantizeSpec, autoCueLevelSpec, languageSpec,
	jogRingBrightnessSpec, jogRingIndicatorSpec, jogDisplayModeSpec, slipFlashingSpec,
	discSlotIlluminationSpec, ejectLockSpec, syncSpec, playModeSpec, quantizeBeatValueSpec,
	hotCueAutoLoadSpec, hotCueColorSpec, needleLockSpec, timeModeSpec, autoCueSpec,
	masterTempoSpec, tempoRangeSpec, jogModeSpec, vinylSpeedAdjustSpec,
}

func decodeMySetting(data []byte) (*MySetting, error) {
	if len(data) != mySettingSize {
		return nil, rberr.NewStructural(0, "mysetting payload has wrong length", nil)
	}
	p := &MySetting{}
	copy(p.Unknown1[:], data[0:4])
	fields := make([]*Field, len(mySettingFieldSpecs))
	fields[0], fields[1], fields[2], fields[3], fields[4] = &p.OnAirDisplay, &p.LCDBrightness, &p.Quantize, &p.AutoCueLevel, &p.Language
	fields[5], fields[6], fields[7], fields[8] = &p.JogRingBrightness, &p.JogRingIndicator, &p.JogDisplayMode, &p.SlipFlashing
	fields[9], fields[10], fields[11], fields[12], fields[13] = &p.DiscSlotIllumination, &p.EjectLock, &p.Sync, &p.PlayMode, &p.QuantizeBeatValue
	fields[14], fields[15], fields[16], fields[17], fields[18] = &p.HotCueAutoLoad, &p.HotCueColor, &p.NeedleLock, &p.TimeMode, &p.AutoCue
	fields[19], fields[20], fields[21], fields[22] = &p.MasterTempo, &p.TempoRange, &p.JogMode, &p.VinylSpeedAdjust

	for i, s := range mySettingFieldSpecs {
		v, err := s.parse(data[4+i])
		if err != nil {
			return nil, err
		}
		*fields[i] = v
	}
	copy(p.Unknown2[:], data[4+len(mySettingFieldSpecs):mySettingSize])
	return p, nil
}

func (p *MySetting) Size() int { return mySettingSize }

func (p *MySetting) Bytes() ([]byte, error) {
	buf := make([]byte, mySettingSize)
	copy(buf[0:4], p.Unknown1[:])
	values := []Field{
		p.OnAirDisplay, p.LCDBrightness, p.Quantize, p.AutoCueLevel, p.Language,
		p.JogRingBrightness, p.JogRingIndicator, p.JogDisplayMode, p.SlipFlashing,
		p.DiscSlotIllumination, p.EjectLock, p.Sync, p.PlayMode, p.QuantizeBeatValue,
		p.HotCueAutoLoad, p.HotCueColor, p.NeedleLock, p.TimeMode, p.AutoCue,
		p.MasterTempo, p.TempoRange, p.JogMode, p.VinylSpeedAdjust,
	}
	for i, f := range values {
		buf[4+i] = f.Value
	}
	copy(buf[4+len(values):mySettingSize], p.Unknown2[:])
	return buf, nil
}

// MySetting2 is the MYSETTING2.DAT payload (spec §3.1): 40 bytes.
type MySetting2 struct {
	Unknown1            [4]byte
	JogDisplayColor     Field
	PadButtonBrightness Field
	JogLCDBrightness    Field
	WaveformDivisions   Field
	Waveform            Field
	BeatJumpBeatValue   Field
	PhaseMeter          Field
	Unknown2            [29]byte
}

var mySetting2FieldSpecs = []*spec{
	jogDisplayColorSpec, padButtonBrightnessSpec, jogLCDBrightnessSpec,
	waveformDivisionsSpec, waveformSpec, beatJumpBeatValueSpec, phaseMeterSpec,
}

func decodeMySetting2(data []byte) (*MySetting2, error) {
	if len(data) != mySetting2Size {
		return nil, rberr.NewStructural(0, "mysetting2 payload has wrong length", nil)
	}
	p := &MySetting2{}
	copy(p.Unknown1[:], data[0:4])
	fields := []*Field{
		&p.JogDisplayColor, &p.PadButtonBrightness, &p.JogLCDBrightness,
		&p.WaveformDivisions, &p.Waveform, &p.BeatJumpBeatValue, &p.PhaseMeter,
	}
	for i, s := range mySetting2FieldSpecs {
		v, err := s.parse(data[4+i])
		if err != nil {
			return nil, err
		}
		*fields[i] = v
	}
	copy(p.Unknown2[:], data[4+len(mySetting2FieldSpecs):mySetting2Size])
	return p, nil
}

func (p *MySetting2) Size() int { return mySetting2Size }

func (p *MySetting2) Bytes() ([]byte, error) {
	buf := make([]byte, mySetting2Size)
	copy(buf[0:4], p.Unknown1[:])
	values := []Field{
		p.JogDisplayColor, p.PadButtonBrightness, p.JogLCDBrightness,
		p.WaveformDivisions, p.Waveform, p.BeatJumpBeatValue, p.PhaseMeter,
	}
	for i, f := range values {
		buf[4+i] = f.Value
	}
	copy(buf[4+len(values):mySetting2Size], p.Unknown2[:])
	return buf, nil
}

// DjmMySetting is the DJMMYSETTING.DAT payload (spec §3.1): 52 bytes.
type DjmMySetting struct {
	Unknown1             [4]byte
	ChannelFaderCurve    Field
	CrossfaderCurve      Field
	HeadphonesPreEQ      Field
	HeadphonesMonoSplit  Field
	BeatFXQuantize       Field
	MicLowCut            Field
	TalkOverMode         Field
	TalkOverLevel        Field
	MidiChannel          Field
	MidiButtonType       Field
	BrightnessLCD        Field
	BrightnessIndicator  Field
	Unknown2             [36]byte
}

var djmMySettingFieldSpecs = []*spec{
	channelFaderCurveSpec, crossfaderCurveSpec, headphonesPreEQSpec, headphonesMonoSplitSpec,
	beatFXQuantizeSpec, micLowCutSpec, talkOverModeSpec, talkOverLevelSpec,
	midiChannelSpec, midiButtonTypeSpec, brightnessLCDSpec, brightnessIndicatorSpec,
}

func decodeDjmMySetting(data []byte) (*DjmMySetting, error) {
	if len(data) != djmMySettingSize {
		return nil, rberr.NewStructural(0, "djmmysetting payload has wrong length", nil)
	}
	p := &DjmMySetting{}
	copy(p.Unknown1[:], data[0:4])
	fields := []*Field{
		&p.ChannelFaderCurve, &p.CrossfaderCurve, &p.HeadphonesPreEQ, &p.HeadphonesMonoSplit,
		&p.BeatFXQuantize, &p.MicLowCut, &p.TalkOverMode, &p.TalkOverLevel,
		&p.MidiChannel, &p.MidiButtonType, &p.BrightnessLCD, &p.BrightnessIndicator,
	}
	for i, s := range djmMySettingFieldSpecs {
		v, err := s.parse(data[4+i])
		if err != nil {
			return nil, err
		}
		*fields[i] = v
	}
	copy(p.Unknown2[:], data[4+len(djmMySettingFieldSpecs):djmMySettingSize])
	return p, nil
}

func (p *DjmMySetting) Size() int { return djmMySettingSize }

func (p *DjmMySetting) Bytes() ([]byte, error) {
	buf := make([]byte, djmMySettingSize)
	copy(buf[0:4], p.Unknown1[:])
	values := []Field{
		p.ChannelFaderCurve, p.CrossfaderCurve, p.HeadphonesPreEQ, p.HeadphonesMonoSplit,
		p.BeatFXQuantize, p.MicLowCut, p.TalkOverMode, p.TalkOverLevel,
		p.MidiChannel, p.MidiButtonType, p.BrightnessLCD, p.BrightnessIndicator,
	}
	for i, f := range values {
		buf[4+i] = f.Value
	}
	copy(buf[4+len(values):djmMySettingSize], p.Unknown2[:])
	return buf, nil
}

// UnknownPayload preserves the raw bytes of a payload whose filename tag
// did not match any of the four documented variants (spec §4.5).
type UnknownPayload struct {
	Raw []byte
}

func (p *UnknownPayload) Size() int { return len(p.Raw) }

func (p *UnknownPayload) Bytes() ([]byte, error) {
	out := make([]byte, len(p.Raw))
	copy(out, p.Raw)
	return out, nil
}

// decodePayload dispatches on the header's filename tag (spec §4.5).
func decodePayload(filename string, data []byte) (Payload, error) {
	switch filename {
	case FilenameDevSetting:
		return decodeDevSetting(data)
	case FilenameMySetting:
		return decodeMySetting(data)
	case FilenameMySetting2:
		return decodeMySetting2(data)
	case FilenameDjmMySetting:
		return decodeDjmMySetting(data)
	default:
		return &UnknownPayload{Raw: append([]byte(nil), data...)}, nil
	}
}
