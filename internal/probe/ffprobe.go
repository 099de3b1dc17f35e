package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// FFProbeOutput defines the part of the ffprobe JSON output we read.
type FFProbeOutput struct {
	Format struct {
		Duration   string `json:"duration"`
		FormatName string `json:"format_name"`
		BitRate    string `json:"bit_rate"`
	} `json:"format"`
}

// Info is the audio metadata reported to the player.
type Info struct {
	Duration float64 `json:"duration_seconds"`
	Format   string  `json:"format,omitempty"`
	BitRate  int64   `json:"bit_rate,omitempty"`
}

// Binary is the ffprobe executable; tests and deployments may point it elsewhere.
var Binary = "ffprobe"

// Probe runs ffprobe on a local path or URL.
func Probe(ctx context.Context, source string) (*Info, error) {
	// ffprobe -v quiet -print_format json -show_format <source>
	cmd := exec.CommandContext(ctx, Binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		source,
	)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %v\nStderr: %s", err, stderr.String())
	}
	return ParseOutput(out.Bytes())
}

// ParseOutput decodes ffprobe JSON output.
func ParseOutput(raw []byte) (*Info, error) {
	var ffprobeOutput FFProbeOutput
	if err := json.Unmarshal(raw, &ffprobeOutput); err != nil {
		return nil, fmt.Errorf("error unmarshalling ffprobe output: %v\nOutput: %s", err, string(raw))
	}

	if ffprobeOutput.Format.Duration == "" {
		return nil, fmt.Errorf("could not retrieve duration from ffprobe output\nOutput: %s", string(raw))
	}

	duration, err := strconv.ParseFloat(ffprobeOutput.Format.Duration, 64)
	if err != nil {
		return nil, fmt.Errorf("error parsing duration string '%s': %v", ffprobeOutput.Format.Duration, err)
	}

	info := &Info{Duration: duration, Format: ffprobeOutput.Format.FormatName}
	if ffprobeOutput.Format.BitRate != "" {
		if br, err := strconv.ParseInt(ffprobeOutput.Format.BitRate, 10, 64); err == nil {
			info.BitRate = br
		}
	}
	return info, nil
}
