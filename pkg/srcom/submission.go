package srcom

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/sjson"

	"github.com/fivetwenty-io/srcom-client/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrCategoryRequired = errors.New("category is required")
	ErrPlatformRequired = errors.New("platform is required")
)

// RunSubmission describes a run to submit.
type RunSubmission struct {
	CategoryID string
	LevelID    string
	PlatformID string
	RegionID   string
	Date       *time.Time

	// Verify marks the run verified on submission; moderators only.
	Verify bool

	RealTime             time.Duration
	RealTimeWithoutLoads time.Duration
	GameTime             time.Duration

	Emulated bool
	VideoURI string
	Comment  string

	// SplitsIOURI may be a splits.io URL or a bare splits.io ID.
	SplitsIOURI string

	Values []*VariableValue

	// Simulate asks the server to validate without storing the run.
	Simulate bool
}

// Validate checks the fields the server always requires.
func (s *RunSubmission) Validate() error {
	if s.CategoryID == "" {
		return ErrCategoryRequired
	}

	if s.PlatformID == "" {
		return ErrPlatformRequired
	}

	if s.RealTime <= 0 && s.RealTimeWithoutLoads <= 0 && s.GameTime <= 0 {
		return ErrNoRunTime
	}

	return nil
}

// Body builds the JSON request body.
func (s *RunSubmission) Body() ([]byte, error) {
	err := s.Validate()
	if err != nil {
		return nil, err
	}

	body := []byte(`{"run":{}}`)

	set := func(path string, value interface{}) {
		if err != nil {
			return
		}

		body, err = sjson.SetBytes(body, path, value)
	}

	set("run.category", s.CategoryID)
	set("run.platform", s.PlatformID)

	if s.LevelID != "" {
		set("run.level", s.LevelID)
	}

	if s.Date != nil {
		set("run.date", s.Date.UTC().Format(constants.DateFormat))
	}

	if s.RegionID != "" {
		set("run.region", s.RegionID)
	}

	if s.Verify {
		set("run.verified", true)
	}

	if s.RealTime > 0 {
		set("run.times.realtime", s.RealTime.Seconds())
	}

	if s.RealTimeWithoutLoads > 0 {
		set("run.times.realtime_noloads", s.RealTimeWithoutLoads.Seconds())
	}

	if s.GameTime > 0 {
		set("run.times.ingame", s.GameTime.Seconds())
	}

	if s.Emulated {
		set("run.emulated", true)
	}

	if s.VideoURI != "" {
		set("run.video", s.VideoURI)
	}

	if s.Comment != "" {
		set("run.comment", s.Comment)
	}

	if s.SplitsIOURI != "" {
		set("run.splitsio", linkID(strings.TrimRight(s.SplitsIOURI, "/")))
	}

	for _, value := range s.Values {
		if value == nil {
			continue
		}

		prefix := "run.variables." + escapePath(value.VariableID)

		if value.IsCustom() {
			set(prefix+".type", "user-defined")
			set(prefix+".value", value.custom)
		} else {
			set(prefix+".type", "pre-defined")
			set(prefix+".value", value.ID)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("building run submission: %w", err)
	}

	return body, nil
}

// escapePath escapes sjson path syntax in a single key.
func escapePath(key string) string {
	replacer := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)

	return replacer.Replace(key)
}
