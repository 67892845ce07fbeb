// Package builtin provides demo tools for the reference tool server.
package builtin

import (
	"context"
	"time"
	_ "time/tzdata" // embedded zone database for current_time

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/tools"
)

const (
	EchoToolName        = "echo"
	CurrentTimeToolName = "current_time"
)

// EchoRequest is the input of the echo tool
type EchoRequest struct {
	Text string `json:"text" jsonschema:"title=Text,description=The text to echo back."`
}

// EchoResult is the output of the echo tool
type EchoResult struct {
	Text string `json:"text"`
}

// CurrentTimeRequest is the input of the current_time tool
type CurrentTimeRequest struct {
	Timezone string `json:"timezone,omitempty" jsonschema:"title=Timezone,description=IANA time zone name, for example America/New_York. Defaults to UTC."`
}

// CurrentTimeResult is the output of the current_time tool
type CurrentTimeResult struct {
	Timezone string `json:"timezone"`
	Time     string `json:"time"`
}

// Now is the clock used by the current_time tool
var Now = time.Now

func echo(_ context.Context, req *EchoRequest) (*EchoResult, error) {
	if req.Text == "" {
		return nil, errors.New("invalid request: empty text")
	}
	return &EchoResult{Text: req.Text}, nil
}

func currentTime(_ context.Context, req *CurrentTimeRequest) (*CurrentTimeResult, error) {
	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid timezone: %s", tz)
	}
	return &CurrentTimeResult{
		Timezone: tz,
		Time:     Now().In(loc).Format(time.RFC3339),
	}, nil
}

// Tools returns the demo tools
func Tools() ([]tools.ITool, error) {
	e, err := tools.NewFunc(EchoToolName, "Echoes the provided text.", echo)
	if err != nil {
		return nil, err
	}
	ct, err := tools.NewFunc(CurrentTimeToolName, "Returns the current time in the requested time zone.", currentTime)
	if err != nil {
		return nil, err
	}
	return []tools.ITool{e, ct}, nil
}
