package srcom_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

func TestRunSubmission_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		submission srcom.RunSubmission
		wantErr    error
	}{
		{
			name:       "missing category",
			submission: srcom.RunSubmission{PlatformID: "p1", RealTime: time.Minute},
			wantErr:    srcom.ErrCategoryRequired,
		},
		{
			name:       "missing platform",
			submission: srcom.RunSubmission{CategoryID: "c1", RealTime: time.Minute},
			wantErr:    srcom.ErrPlatformRequired,
		},
		{
			name:       "no times",
			submission: srcom.RunSubmission{CategoryID: "c1", PlatformID: "p1"},
			wantErr:    srcom.ErrNoRunTime,
		},
		{
			name:       "game time only",
			submission: srcom.RunSubmission{CategoryID: "c1", PlatformID: "p1", GameTime: time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.submission.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				_, err = tt.submission.Body()
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestRunSubmission_Body(t *testing.T) {
	t.Parallel()

	date := time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)

	custom, err := (&srcom.Variable{ID: "v.custom", Name: "Seed", UserDefined: true}).CreateCustomValue("1234")
	require.NoError(t, err)

	submission := &srcom.RunSubmission{
		CategoryID:           "c1",
		LevelID:              "l1",
		PlatformID:           "p1",
		RegionID:             "r1",
		Date:                 &date,
		Verify:               true,
		RealTime:             90*time.Second + 500*time.Millisecond,
		RealTimeWithoutLoads: 80 * time.Second,
		Emulated:             true,
		VideoURI:             "https://example.test/v",
		Comment:              "gg",
		SplitsIOURI:          "https://splits.io/abc1/",
		Values: []*srcom.VariableValue{
			{ID: "x1", VariableID: "v1"},
			custom,
		},
	}

	body, err := submission.Body()
	require.NoError(t, err)

	assert.JSONEq(t, `{"run":{
		"category":"c1",
		"platform":"p1",
		"level":"l1",
		"date":"2021-01-02",
		"region":"r1",
		"verified":true,
		"times":{"realtime":90.5,"realtime_noloads":80},
		"emulated":true,
		"video":"https://example.test/v",
		"comment":"gg",
		"splitsio":"abc1",
		"variables":{
			"v1":{"type":"pre-defined","value":"x1"},
			"v.custom":{"type":"user-defined","value":"1234"}
		}
	}}`, string(body))
}

func TestRunSubmission_MinimalBody(t *testing.T) {
	t.Parallel()

	submission := &srcom.RunSubmission{CategoryID: "c1", PlatformID: "p1", GameTime: 3 * time.Minute, SplitsIOURI: "xyz9"}

	body, err := submission.Body()
	require.NoError(t, err)
	assert.JSONEq(t, `{"run":{"category":"c1","platform":"p1","times":{"ingame":180},"splitsio":"xyz9"}}`, string(body))
}

func TestVariable_CreateCustomValue(t *testing.T) {
	t.Parallel()

	_, err := (&srcom.Variable{ID: "v1", Name: "Difficulty"}).CreateCustomValue("hard")
	require.ErrorIs(t, err, srcom.ErrCustomValueNotSupported)

	value, err := (&srcom.Variable{ID: "v2", UserDefined: true}).CreateCustomValue("hard")
	require.NoError(t, err)
	assert.True(t, value.IsCustom())
	assert.Equal(t, "v2", value.VariableID)
}
