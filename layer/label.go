package layer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// LabelAlpha is the fourth field written into every label. The mask itself
// lives in the frame's alpha channel, so the value is informational only.
const LabelAlpha = 255

var ErrMalformedLabel = errors.New("malformed layer label")

var labelColorPattern = regexp.MustCompile(`^\((\d{1,3}), (\d{1,3}), (\d{1,3}), (\d{1,3})\)$`)

// FormatLabel renders the per-frame label "<name>/(<R>, <G>, <B>, 255)".
func FormatLabel(name string, color Color) string {
	return fmt.Sprintf("%s/(%d, %d, %d, %d)", name, color.R, color.G, color.B, LabelAlpha)
}

// ParseLabel is the strict inverse of FormatLabel. The name is everything
// before the last '/', so names containing '/' survive a round trip.
func ParseLabel(label string) (string, Color, error) {
	sep := strings.LastIndexByte(label, '/')
	if sep < 0 {
		return "", Color{}, fmt.Errorf("%w: no '/' in %q", ErrMalformedLabel, label)
	}
	name := label[:sep]
	if !ValidName(name) {
		return "", Color{}, fmt.Errorf("%w: empty or invalid name in %q", ErrMalformedLabel, label)
	}

	groups := labelColorPattern.FindStringSubmatch(label[sep+1:])
	if groups == nil {
		return "", Color{}, fmt.Errorf("%w: bad colour %q", ErrMalformedLabel, label[sep+1:])
	}
	var channels [4]uint8
	for i := range channels {
		v, err := strconv.ParseUint(groups[i+1], 10, 8)
		if err != nil {
			return "", Color{}, fmt.Errorf("%w: channel %d of %q out of range", ErrMalformedLabel, i, label)
		}
		channels[i] = uint8(v)
	}

	// channels[3] is the informational alpha and is ignored
	return name, Color{R: channels[0], G: channels[1], B: channels[2]}, nil
}
