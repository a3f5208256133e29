package trace

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrUnknownAction = errors.New("trace: unknown action")

// Actions a script can apply to a player.
const (
	ActionPlay    = "play"
	ActionPause   = "pause"
	ActionForward = "forward"
	ActionBack    = "back"
	ActionSeek    = "seek"
	ActionReset   = "reset"
)

// Command is a user action applied at a point in virtual time.
type Command struct {
	AtMs   int64  `yaml:"at_ms" json:"at_ms"`
	Action string `yaml:"action" json:"action"`
	Index  int    `yaml:"index,omitempty" json:"index,omitempty"`
}

func (c Command) String() string {
	if c.Action == ActionSeek {
		return fmt.Sprintf("%d:%s=%d", c.AtMs, c.Action, c.Index)
	}
	return fmt.Sprintf("%d:%s", c.AtMs, c.Action)
}

// Script is a recorded session: which diagram to play and what to press when.
type Script struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Topic       string    `yaml:"topic"`
	Diagram     string    `yaml:"diagram"`
	Loop        bool      `yaml:"loop"`
	UntilMs     int64     `yaml:"until_ms"`
	Commands    []Command `yaml:"commands"`
}

// LoadScript reads a YAML script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}
	for i, c := range script.Commands {
		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("command %d: %w", i+1, err)
		}
	}
	sortCommands(script.Commands)
	return &script, nil
}

// ParseScript parses the compact form "0:play,600:pause,900:play,1500:seek=2".
func ParseScript(s string) ([]Command, error) {
	var cmds []Command
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		at, action, ok := strings.Cut(field, ":")
		if !ok {
			return nil, fmt.Errorf("%q: expected <ms>:<action>", field)
		}
		ms, err := strconv.ParseInt(at, 10, 64)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("%q: bad time %q", field, at)
		}

		cmd := Command{AtMs: ms, Action: action}
		if name, arg, ok := strings.Cut(action, "="); ok {
			cmd.Action = name
			if cmd.Index, err = strconv.Atoi(arg); err != nil {
				return nil, fmt.Errorf("%q: bad index %q", field, arg)
			}
		}
		if err := cmd.validate(); err != nil {
			return nil, fmt.Errorf("%q: %w", field, err)
		}
		cmds = append(cmds, cmd)
	}
	sortCommands(cmds)
	return cmds, nil
}

// FormatScript is the inverse of ParseScript.
func FormatScript(cmds []Command) string {
	parts := make([]string, len(cmds))
	for i, c := range cmds {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

func (c Command) validate() error {
	switch c.Action {
	case ActionPlay, ActionPause, ActionForward, ActionBack, ActionSeek, ActionReset:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, c.Action)
	}
	if c.AtMs < 0 {
		return fmt.Errorf("negative at_ms %d", c.AtMs)
	}
	return nil
}

func sortCommands(cmds []Command) {
	sort.SliceStable(cmds, func(i, j int) bool { return cmds[i].AtMs < cmds[j].AtMs })
}
