package preset

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/dietcv/GrainDelay/grain"
)

// File is the JSON schema for grain delay presets. Every field is optional;
// absent fields keep their default value.
type File struct {
	TriggerRate    *float32 `json:"trigger_rate"`
	TriggerRateEnd *float32 `json:"trigger_rate_end"`
	Overlap        *float32 `json:"overlap"`
	DelayTime      *float32 `json:"delay_time"`
	GrainRate      *float32 `json:"grain_rate"`
	Mix            *float32 `json:"mix"`
	Feedback       *float32 `json:"feedback"`
	Damping        *float32 `json:"damping"`
	Freeze         *bool    `json:"freeze"`
	Voices         *int     `json:"voices"`
	MaxDelayTime   *float32 `json:"max_delay_time"`
}

// LoadJSON loads a preset JSON file and applies it on top of default params.
func LoadJSON(path string) (*grain.Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	p := grain.NewDefaultParams()
	if err := ApplyFile(p, &f); err != nil {
		return nil, fmt.Errorf("preset %s: %w", path, err)
	}
	return p, nil
}

// ApplyFile applies a parsed preset file onto an existing params object.
// Values must lie inside the ranges the engine clips to.
func ApplyFile(dst *grain.Params, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination params")
	}
	if f == nil {
		return nil
	}

	if f.MaxDelayTime != nil {
		if !finite(*f.MaxDelayTime) || *f.MaxDelayTime <= 0 {
			return fmt.Errorf("max_delay_time must be > 0")
		}
		dst.MaxDelaySeconds = *f.MaxDelayTime
	}
	if f.Voices != nil {
		if *f.Voices < 1 {
			return fmt.Errorf("voices must be >= 1")
		}
		dst.Voices = *f.Voices
	}
	if f.TriggerRate != nil {
		if !finite(*f.TriggerRate) || *f.TriggerRate < 0 {
			return fmt.Errorf("trigger_rate must be >= 0")
		}
		dst.TriggerRate = *f.TriggerRate
	}
	if f.TriggerRateEnd != nil {
		if !finite(*f.TriggerRateEnd) || *f.TriggerRateEnd < 0 {
			return fmt.Errorf("trigger_rate_end must be >= 0")
		}
		dst.TriggerRateEnd = *f.TriggerRateEnd
	}
	if f.Overlap != nil {
		if !finite(*f.Overlap) || *f.Overlap < grain.MinOverlap || *f.Overlap > float32(dst.Voices) {
			return fmt.Errorf("overlap must be in [%g,%d]", grain.MinOverlap, dst.Voices)
		}
		dst.Overlap = *f.Overlap
	}
	if f.DelayTime != nil {
		if !finite(*f.DelayTime) || *f.DelayTime <= 0 || *f.DelayTime > dst.MaxDelaySeconds {
			return fmt.Errorf("delay_time must be in (0,%g]", dst.MaxDelaySeconds)
		}
		dst.DelayTime = *f.DelayTime
	}
	if f.GrainRate != nil {
		if !finite(*f.GrainRate) || *f.GrainRate < grain.MinGrainRate || *f.GrainRate > grain.MaxGrainRate {
			return fmt.Errorf("grain_rate must be in [%g,%g]", grain.MinGrainRate, grain.MaxGrainRate)
		}
		dst.GrainRate = *f.GrainRate
	}
	if f.Mix != nil {
		if !finite(*f.Mix) || *f.Mix < 0 || *f.Mix > 1 {
			return fmt.Errorf("mix must be in [0,1]")
		}
		dst.Mix = *f.Mix
	}
	if f.Feedback != nil {
		if !finite(*f.Feedback) || *f.Feedback < 0 || *f.Feedback > grain.MaxFeedback {
			return fmt.Errorf("feedback must be in [0,%g]", grain.MaxFeedback)
		}
		dst.Feedback = *f.Feedback
	}
	if f.Damping != nil {
		if !finite(*f.Damping) || *f.Damping < 0 || *f.Damping > 1 {
			return fmt.Errorf("damping must be in [0,1]")
		}
		dst.Damping = *f.Damping
	}
	if f.Freeze != nil {
		dst.Freeze = *f.Freeze
	}
	return nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
