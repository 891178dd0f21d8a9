package setting

import "github.com/rbtoolkit/rbdb/internal/rberr"

// spec is a table-driven enumeration descriptor: a field name (used in
// error messages) plus the documented byte value -> variant name mapping.
// Grounded on the table-driven PageType.String() switch in the tinySQL
// pager example, generalized from a switch statement to a map because the
// setting payloads carry roughly forty-five such enumerations and a
// dedicated Go type per field would mostly duplicate this same shape.
type spec struct {
	field string
	names map[uint8]string
}

// Field is a single enumerated byte value, carrying enough information to
// render its name or fail with rberr.EnumError if the documented payload
// slot holds a byte no known Rekordbox build produces.
type Field struct {
	spec  *spec
	Value uint8
}

// String renders the documented variant name.
func (f Field) String() string {
	if f.spec == nil {
		return "unset"
	}
	if name, ok := f.spec.names[f.Value]; ok {
		return name
	}
	return "unknown"
}

func (s *spec) parse(b uint8) (Field, error) {
	if _, ok := s.names[b]; !ok {
		return Field{}, rberr.NewEnum(s.field, b)
	}
	return Field{spec: s, Value: b}, nil
}

func (s *spec) byName(name string) Field {
	for b, n := range s.names {
		if n == name {
			return Field{spec: s, Value: b}
		}
	}
	panic("setting: unknown default variant name " + name + " for field " + s.field)
}

// The named enumerations spec.md §6.3 calls out explicitly, plus the rest
// of the documented setting-payload fields. Byte values follow the
// observed 0x80+n convention.
var (
	playModeSpec = &spec{"PlayMode", map[uint8]string{0x80: "single", 0x81: "continue"}}

	quantizeSpec = &spec{"Quantize", map[uint8]string{0x80: "off", 0x81: "on"}}

	quantizeBeatValueSpec = &spec{"QuantizeBeatValue", map[uint8]string{
		0x80: "1/8", 0x81: "1/4", 0x82: "1/2", 0x83: "1",
	}}

	syncSpec = &spec{"Sync", map[uint8]string{0x80: "off", 0x81: "on"}}

	tempoRangeSpec = &spec{"TempoRange", map[uint8]string{
		0x80: "6", 0x81: "10", 0x82: "16", 0x83: "wide",
	}}

	languageSpec = &spec{"Language", map[uint8]string{
		0x81: "english", 0x83: "french", 0x84: "german", 0x85: "italian",
		0x86: "dutch", 0x87: "spanish", 0x88: "russian", 0x89: "korean",
		0x8a: "chinese-simplified", 0x8b: "chinese-traditional",
		0x8c: "japanese", 0x8d: "portuguese", 0x8e: "swedish", 0x8f: "czech",
		0x90: "hungarian", 0x91: "danish", 0x92: "greek", 0x93: "turkish",
	}}

	lcdBrightnessSpec = &spec{"LCDBrightness", map[uint8]string{
		0x81: "1", 0x82: "2", 0x83: "3", 0x84: "4", 0x85: "5",
	}}

	hotCueAutoLoadSpec = &spec{"HotCueAutoLoad", map[uint8]string{
		0x80: "off", 0x81: "on", 0x82: "rekordbox-setting",
	}}

	hotCueColorSpec = &spec{"HotCueColor", map[uint8]string{0x80: "off", 0x81: "on"}}

	crossfaderCurveSpec = &spec{"CrossfaderCurve", map[uint8]string{
		0x80: "constant-power", 0x81: "slow-cut", 0x82: "fast-cut",
	}}

	micLowCutSpec = &spec{"MicLowCut", map[uint8]string{0x80: "off", 0x81: "on"}}

	midiChannelSpec = &spec{"MidiChannel", map[uint8]string{
		0x80: "1", 0x81: "2", 0x82: "3", 0x83: "4", 0x84: "5", 0x85: "6",
		0x86: "7", 0x87: "8", 0x88: "9", 0x89: "10", 0x8a: "11", 0x8b: "12",
		0x8c: "13", 0x8d: "14", 0x8e: "15", 0x8f: "16",
	}}

	autoCueLevelSpec = &spec{"AutoCueLevel", map[uint8]string{
		0x80: "-36db", 0x81: "-42db", 0x82: "-48db", 0x83: "-54db",
		0x84: "-60db", 0x85: "-66db", 0x86: "-72db", 0x87: "-78db", 0x88: "memory",
	}}

	jogRingBrightnessSpec = &spec{"JogRingBrightness", map[uint8]string{
		0x80: "off", 0x81: "dark", 0x82: "bright",
	}}

	jogRingIndicatorSpec = &spec{"JogRingIndicator", map[uint8]string{0x80: "off", 0x81: "on"}}

	jogDisplayModeSpec = &spec{"JogDisplayMode", map[uint8]string{
		0x80: "auto", 0x81: "info", 0x82: "simple", 0x83: "artwork",
	}}

	slipFlashingSpec = &spec{"SlipFlashing", map[uint8]string{0x80: "off", 0x81: "on"}}

	discSlotIlluminationSpec = &spec{"DiscSlotIllumination", map[uint8]string{
		0x80: "off", 0x81: "dark", 0x82: "bright",
	}}

	ejectLockSpec = &spec{"EjectLock", map[uint8]string{0x80: "unlock", 0x81: "lock"}}

	timeModeSpec = &spec{"TimeMode", map[uint8]string{0x80: "elapsed", 0x81: "remain"}}

	autoCueSpec = &spec{"AutoCue", map[uint8]string{0x80: "off", 0x81: "on"}}

	masterTempoSpec = &spec{"MasterTempo", map[uint8]string{0x80: "off", 0x81: "on"}}

	jogModeSpec = &spec{"JogMode", map[uint8]string{0x80: "vinyl", 0x81: "cdj"}}

	vinylSpeedAdjustSpec = &spec{"VinylSpeedAdjust", map[uint8]string{
		0x80: "touch", 0x81: "touch-release", 0x82: "release",
	}}

	onAirDisplaySpec       = &spec{"OnAirDisplay", map[uint8]string{0x80: "off", 0x81: "on"}}
	needleLockSpec         = &spec{"NeedleLock", map[uint8]string{0x80: "unlock", 0x81: "lock"}}
	jogDisplayColorSpec    = &spec{"JogDisplayColor", map[uint8]string{0x81: "default", 0x82: "blue", 0x83: "white", 0x84: "yellow"}}
	padButtonBrightnessSpec = &spec{"PadButtonBrightness", map[uint8]string{
		0x81: "1", 0x82: "2", 0x83: "3", 0x84: "4",
	}}
	jogLCDBrightnessSpec = &spec{"JogLCDBrightness", map[uint8]string{0x81: "1", 0x82: "2", 0x83: "3"}}
	waveformDivisionsSpec = &spec{"WaveformDivisions", map[uint8]string{0x80: "time-scale", 0x81: "phrase"}}
	waveformSpec          = &spec{"Waveform", map[uint8]string{0x80: "waveform", 0x81: "phase-meter"}}
	beatJumpBeatValueSpec = &spec{"BeatJumpBeatValue", map[uint8]string{
		0x80: "1/2", 0x81: "1", 0x82: "2", 0x83: "4", 0x84: "8", 0x85: "16", 0x86: "32", 0x87: "64",
	}}
	phaseMeterSpec = &spec{"PhaseMeter", map[uint8]string{0x80: "type1", 0x81: "type2"}}

	channelFaderCurveSpec = &spec{"ChannelFaderCurve", map[uint8]string{
		0x80: "steep-top", 0x81: "linear", 0x82: "steep-bottom",
	}}
	headphonesPreEQSpec    = &spec{"HeadphonesPreEQ", map[uint8]string{0x80: "post-eq", 0x81: "pre-eq"}}
	headphonesMonoSplitSpec = &spec{"HeadphonesMonoSplit", map[uint8]string{0x80: "stereo", 0x81: "mono-split"}}
	beatFXQuantizeSpec     = &spec{"BeatFXQuantize", map[uint8]string{0x80: "off", 0x81: "on"}}
	talkOverModeSpec       = &spec{"TalkOverMode", map[uint8]string{0x80: "advanced", 0x81: "normal"}}
	talkOverLevelSpec      = &spec{"TalkOverLevel", map[uint8]string{
		0x80: "-24db", 0x81: "-18db", 0x82: "-12db", 0x83: "-6db",
	}}
	midiButtonTypeSpec = &spec{"MidiButtonType", map[uint8]string{0x80: "toggle", 0x81: "trigger"}}
	brightnessLCDSpec  = &spec{"BrightnessLCD", map[uint8]string{
		0x81: "1", 0x82: "2", 0x83: "3", 0x84: "4", 0x85: "5",
	}}
	brightnessIndicatorSpec = &spec{"BrightnessIndicator", map[uint8]string{
		0x81: "1", 0x82: "2", 0x83: "3",
	}}
	overviewSpec = &spec{"Overview", map[uint8]string{0x80: "off", 0x81: "on"}}
)
