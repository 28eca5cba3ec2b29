// Package hostcfg holds the command-line configuration shared by the grain
// delay hosts.
package hostcfg

import (
	"flag"

	"github.com/dietcv/GrainDelay/grain"
	"github.com/dietcv/GrainDelay/preset"
)

// Flags are the engine parameter flags. Values only override the preset
// when set explicitly on the command line.
type Flags struct {
	Preset         *string
	TriggerRate    *float64
	TriggerRateEnd *float64
	Overlap        *float64
	DelayTime      *float64
	GrainRate      *float64
	Mix            *float64
	Feedback       *float64
	Damping        *float64
	Freeze         *bool
	Voices         *int
	MaxDelay       *float64
}

// Register defines the parameter flags on fs.
func Register(fs *flag.FlagSet) *Flags {
	d := grain.NewDefaultParams()
	return &Flags{
		Preset:         fs.String("preset", "", "Preset JSON file path (optional)"),
		TriggerRate:    fs.Float64("trigger-rate", float64(d.TriggerRate), "Grain trigger rate in Hz"),
		TriggerRateEnd: fs.Float64("trigger-rate-end", float64(d.TriggerRateEnd), "Trigger rate at the end of a linear sweep in Hz (0 = no sweep)"),
		Overlap:        fs.Float64("overlap", float64(d.Overlap), "Grain overlap (grain duration in trigger periods)"),
		DelayTime:      fs.Float64("delay-time", float64(d.DelayTime), "Delay time in seconds"),
		GrainRate:      fs.Float64("grain-rate", float64(d.GrainRate), "Grain playback rate (1 = original pitch)"),
		Mix:            fs.Float64("mix", float64(d.Mix), "Dry/wet mix (0..1)"),
		Feedback:       fs.Float64("feedback", float64(d.Feedback), "Feedback amount (0..0.99)"),
		Damping:        fs.Float64("damping", float64(d.Damping), "Feedback damping (0..1)"),
		Freeze:         fs.Bool("freeze", d.Freeze, "Freeze the delay buffer"),
		Voices:         fs.Int("voices", d.Voices, "Grain voice pool size"),
		MaxDelay:       fs.Float64("max-delay", float64(d.MaxDelaySeconds), "Delay buffer length in seconds"),
	}
}

// Params loads the preset named by -preset, or the defaults, and applies
// every parameter flag that was set on fs. Call it after fs.Parse.
func (f *Flags) Params(fs *flag.FlagSet) (*grain.Params, error) {
	p := grain.NewDefaultParams()
	if *f.Preset != "" {
		var err error
		if p, err = preset.LoadJSON(*f.Preset); err != nil {
			return nil, err
		}
	}
	if err := preset.ApplyFile(p, f.overrides(fs)); err != nil {
		return nil, err
	}
	return p, nil
}

func (f *Flags) overrides(fs *flag.FlagSet) *preset.File {
	var o preset.File
	f32 := func(v *float64) *float32 {
		x := float32(*v)
		return &x
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "trigger-rate":
			o.TriggerRate = f32(f.TriggerRate)
		case "trigger-rate-end":
			o.TriggerRateEnd = f32(f.TriggerRateEnd)
		case "overlap":
			o.Overlap = f32(f.Overlap)
		case "delay-time":
			o.DelayTime = f32(f.DelayTime)
		case "grain-rate":
			o.GrainRate = f32(f.GrainRate)
		case "mix":
			o.Mix = f32(f.Mix)
		case "feedback":
			o.Feedback = f32(f.Feedback)
		case "damping":
			o.Damping = f32(f.Damping)
		case "freeze":
			o.Freeze = f.Freeze
		case "voices":
			o.Voices = f.Voices
		case "max-delay":
			o.MaxDelayTime = f32(f.MaxDelay)
		}
	})
	return &o
}
