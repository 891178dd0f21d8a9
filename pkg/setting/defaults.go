package setting

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// defaultsYAML is the documented Rekordbox factory-reset variant name for
// each field (mapped to its byte value through the field's enum table),
// embedded so defaults are constructible without reading a file from disk
// (spec §6.3). Parsed the same way the teacher's WFMFileEncoder parses
// dialogue YAML (pkg/encoders.go), just loaded via go:embed instead of
// os.ReadFile.
//
//go:embed defaults.yaml
var defaultsYAML []byte

type defaultsDoc struct {
	MySetting    map[string]string `yaml:"mysetting"`
	MySetting2   map[string]string `yaml:"mysetting2"`
	DjmMySetting map[string]string `yaml:"djmmysetting"`
	DevSetting   map[string]string `yaml:"devsetting"`
}

var (
	defaultsOnce sync.Once
	defaults     defaultsDoc
	defaultsErr  error
)

func loadDefaults() (defaultsDoc, error) {
	defaultsOnce.Do(func() {
		defaultsErr = yaml.Unmarshal(defaultsYAML, &defaults)
	})
	return defaults, defaultsErr
}

func newDefaultHeader(filename string) Header {
	h := Header{}
	copy(h.Brand[:], "PIONEER DJ")
	copy(h.Software[:], "rekordbox")
	copy(h.Filename[:], filename)
	return h
}

// DefaultMySetting constructs the factory-reset MYSETTING.DAT contents.
func DefaultMySetting() (*File, error) {
	d, err := loadDefaults()
	if err != nil {
		return nil, fmt.Errorf("setting: failed to load embedded defaults: %w", err)
	}
	p := &MySetting{}
	fields := []*Field{
		&p.OnAirDisplay, &p.LCDBrightness, &p.Quantize, &p.AutoCueLevel, &p.Language,
		&p.JogRingBrightness, &p.JogRingIndicator, &p.JogDisplayMode, &p.SlipFlashing,
		&p.DiscSlotIllumination, &p.EjectLock, &p.Sync, &p.PlayMode, &p.QuantizeBeatValue,
		&p.HotCueAutoLoad, &p.HotCueColor, &p.NeedleLock, &p.TimeMode, &p.AutoCue,
		&p.MasterTempo, &p.TempoRange, &p.JogMode, &p.VinylSpeedAdjust,
	}
	for i, s := range mySettingFieldSpecs {
		name, ok := d.MySetting[s.field]
		if !ok {
			return nil, fmt.Errorf("setting: no default documented for MySetting field %q", s.field)
		}
		*fields[i] = s.byName(name)
	}
	return &File{Header: newDefaultHeader(FilenameMySetting), Payload: p}, nil
}

// DefaultMySetting2 constructs the factory-reset MYSETTING2.DAT contents.
func DefaultMySetting2() (*File, error) {
	d, err := loadDefaults()
	if err != nil {
		return nil, fmt.Errorf("setting: failed to load embedded defaults: %w", err)
	}
	p := &MySetting2{}
	fields := []*Field{
		&p.JogDisplayColor, &p.PadButtonBrightness, &p.JogLCDBrightness,
		&p.WaveformDivisions, &p.Waveform, &p.BeatJumpBeatValue, &p.PhaseMeter,
	}
	for i, s := range mySetting2FieldSpecs {
		name, ok := d.MySetting2[s.field]
		if !ok {
			return nil, fmt.Errorf("setting: no default documented for MySetting2 field %q", s.field)
		}
		*fields[i] = s.byName(name)
	}
	return &File{Header: newDefaultHeader(FilenameMySetting2), Payload: p}, nil
}

// DefaultDjmMySetting constructs the factory-reset DJMMYSETTING.DAT contents.
func DefaultDjmMySetting() (*File, error) {
	d, err := loadDefaults()
	if err != nil {
		return nil, fmt.Errorf("setting: failed to load embedded defaults: %w", err)
	}
	p := &DjmMySetting{}
	fields := []*Field{
		&p.ChannelFaderCurve, &p.CrossfaderCurve, &p.HeadphonesPreEQ, &p.HeadphonesMonoSplit,
		&p.BeatFXQuantize, &p.MicLowCut, &p.TalkOverMode, &p.TalkOverLevel,
		&p.MidiChannel, &p.MidiButtonType, &p.BrightnessLCD, &p.BrightnessIndicator,
	}
	for i, s := range djmMySettingFieldSpecs {
		name, ok := d.DjmMySetting[s.field]
		if !ok {
			return nil, fmt.Errorf("setting: no default documented for DjmMySetting field %q", s.field)
		}
		*fields[i] = s.byName(name)
	}
	return &File{Header: newDefaultHeader(FilenameDjmMySetting), Payload: p}, nil
}

// DefaultDevSetting constructs the factory-reset DEVSETTING.DAT contents.
func DefaultDevSetting() (*File, error) {
	d, err := loadDefaults()
	if err != nil {
		return nil, fmt.Errorf("setting: failed to load embedded defaults: %w", err)
	}
	p := &DevSetting{}
	name, ok := d.DevSetting[overviewSpec.field]
	if !ok {
		return nil, fmt.Errorf("setting: no default documented for DevSetting field %q", overviewSpec.field)
	}
	p.Overview = overviewSpec.byName(name)
	name, ok = d.DevSetting[autoCueSpec.field]
	if !ok {
		return nil, fmt.Errorf("setting: no default documented for DevSetting field %q", autoCueSpec.field)
	}
	p.AutoCue = autoCueSpec.byName(name)
	return &File{Header: newDefaultHeader(FilenameDevSetting), Payload: p}, nil
}
