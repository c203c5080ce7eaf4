package toon

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ProgramEntry is one block of the weekly heating program.
type ProgramEntry struct {
	WeekDay     int // 0 = Sunday
	Start       int // seconds since midnight
	End         int // seconds since midnight
	TargetState ActiveState
}

// StartClock formats the start offset as HH:MM.
func (e ProgramEntry) StartClock() string {
	return clock(e.Start)
}

// EndClock formats the end offset as HH:MM.
func (e ProgramEntry) EndClock() string {
	return clock(e.End)
}

func clock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/3600, seconds%3600/60)
}

// Program is the weekly heating program, ordered by weekday and start time.
type Program []ProgramEntry

// pseudoJSONReplacer repairs the getWeeklyList response. The firmware emits
// a JavaScript object literal with bare keys and single quotes rather than
// JSON, so the known keys have to be quoted before decoding.
var pseudoJSONReplacer = strings.NewReplacer(
	"targetState", `"targetState"`,
	"weekDay", `"weekDay"`,
	"startTimeT", `"startTimeT"`,
	"endTimeT", `"endTimeT"`,
	"result", `"result"`,
	"programs", `"programs"`,
	"'", `"`,
)

type weeklyListPayload struct {
	Result   string `json:"result"`
	Programs []struct {
		TargetState value `json:"targetState"`
		WeekDay     value `json:"weekDay"`
		StartTimeT  value `json:"startTimeT"`
		EndTimeT    value `json:"endTimeT"`
	} `json:"programs"`
}

func parseWeeklyList(data []byte) (Program, error) {
	repaired := pseudoJSONReplacer.Replace(string(data))

	var payload weeklyListPayload
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return nil, fmt.Errorf("decode weekly program: %w", err)
	}
	if payload.Result != "" && payload.Result != "ok" {
		return nil, fmt.Errorf("%w: weekly program result %q", ErrInvalidResponse, payload.Result)
	}

	program := make(Program, 0, len(payload.Programs))
	for _, entry := range payload.Programs {
		program = append(program, ProgramEntry{
			WeekDay:     int(entry.WeekDay.Float),
			Start:       int(entry.StartTimeT.Float),
			End:         int(entry.EndTimeT.Float),
			TargetState: entry.TargetState.activeState(),
		})
	}

	sort.Slice(program, func(i, j int) bool {
		if program[i].WeekDay != program[j].WeekDay {
			return program[i].WeekDay < program[j].WeekDay
		}
		return program[i].Start < program[j].Start
	})

	return program, nil
}
