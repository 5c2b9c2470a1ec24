// Package progress translates yt-dlp output lines into structured events.
package progress

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Event kinds
type Kind int

const (
	// KindUpdate is a percent/size/speed/ETA snapshot
	KindUpdate Kind = iota

	// KindDestination reports the filename the tool started writing
	KindDestination

	// KindMerging marks the stream-combining phase near completion
	KindMerging
)

// Merging phase constants
const (
	MergingPercent = 99
)

// Output line cues
const (
	MergerTag         = "[Merger]"
	MergingFormatsCue = "Merging formats"
)

// Unit multipliers: binary (KiB family) and decimal (KB family)
var unitMultipliers = map[string]float64{
	"B":   1,
	"KiB": 1 << 10,
	"MiB": 1 << 20,
	"GiB": 1 << 30,
	"KB":  1e3,
	"MB":  1e6,
	"GB":  1e9,
}

// Recognized yt-dlp output patterns
var (
	// Example: [download]  45.2% of 156.78MiB at  5.23MiB/s ETA 00:15
	progressPattern = regexp.MustCompile(`\[download\]\s+(\d+\.?\d*)%\s+of\s+~?([\d.]+)(\w+)\s+at\s+([\d.]+)(\w+)/s\s+ETA\s+(\d+:\d+)`)

	// Example: [download] Destination: /home/user/Downloads/My Video.f137.mp4
	destinationPattern = regexp.MustCompile(`\[(?:download|Merger)\]\s+Destination:\s+(.+)$`)
)

// Event is the structured translation of one output line. Exactly the
// fields relevant to its Kind are set.
type Event struct {
	Kind       Kind
	DownloadID string

	// KindUpdate and KindMerging
	Percent float64

	// KindUpdate only; sizes in bytes, speed in bytes/second, ETA in seconds
	Downloaded float64
	Total      float64
	Speed      float64
	ETASeconds int

	// KindDestination only; base filename, directories stripped
	Filename string
}

// Parse extracts a progress event from one line of combined yt-dlp output.
// It is a pure function of its inputs and returns nil for the common case
// of a line matching no recognized pattern. Units outside the recognized
// vocabulary also yield nil.
func Parse(line, downloadID string) *Event {
	if m := progressPattern.FindStringSubmatch(line); m != nil {
		return parseUpdate(m, downloadID)
	}

	if m := destinationPattern.FindStringSubmatch(line); m != nil {
		return &Event{
			Kind:       KindDestination,
			DownloadID: downloadID,
			Filename:   filepath.Base(strings.TrimSpace(m[1])),
		}
	}

	if strings.Contains(line, MergerTag) || strings.Contains(line, MergingFormatsCue) {
		return &Event{
			Kind:       KindMerging,
			DownloadID: downloadID,
			Percent:    MergingPercent,
		}
	}

	return nil
}

// parseUpdate converts the captured progress groups, normalizing sizes to
// bytes and the ETA to seconds. Downloaded bytes are derived from total and
// percent rather than read from the line.
func parseUpdate(m []string, downloadID string) *Event {
	percent, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	totalSize, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil
	}
	totalUnit, ok := unitMultipliers[m[3]]
	if !ok {
		return nil
	}
	speedSize, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return nil
	}
	speedUnit, ok := unitMultipliers[m[5]]
	if !ok {
		return nil
	}
	etaSeconds, ok := parseETA(m[6])
	if !ok {
		return nil
	}

	total := totalSize * totalUnit
	return &Event{
		Kind:       KindUpdate,
		DownloadID: downloadID,
		Percent:    percent,
		Downloaded: total * (percent / 100),
		Total:      total,
		Speed:      speedSize * speedUnit,
		ETASeconds: etaSeconds,
	}
}

// parseETA converts a minutes:seconds string to total seconds.
func parseETA(eta string) (int, bool) {
	parts := strings.Split(eta, ":")
	if len(parts) != 2 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return minutes*60 + seconds, true
}
