/*
Package config holds the persisted application configuration.

PURPOSE:

	One Config value drives the whole application: the pay-period
	anchor, the weekly work schedule, the global duration constants, and
	the settings of the notification planner and the ADP portal client.

LIFECYCLE:

	Created with defaults on first run, loaded once at startup, mutated
	only through explicit user action, and persisted synchronously on
	every mutation. The engine receives read-only snapshots derived from
	it (WorkSchedule), never the Config itself.

VALIDATION:

	The weekday-indexed schedule map is validated at load time into a
	fixed seven-entry engine.WorkSchedule; runtime shape is never
	trusted.
*/
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tempo/punch-engine/engine"
)

// =============================================================================
// CONFIG MODEL
// =============================================================================

// Durations are the global duration constants. Only Lunch feeds the
// engine today (through each weekday's schedule); the limits are kept
// for the manual-punch validations of the settings screens.
type Durations struct {
	Lunch    engine.Duration `json:"lunch"`
	MaxLunch engine.Duration `json:"maxLunch"`
	MaxShift engine.Duration `json:"maxShift"`
	MaxWork  engine.Duration `json:"maxWork"`
}

// Notification configures the local-notification planner.
type Notification struct {
	Enabled      bool            `json:"enabled"`
	EndOfDayLead engine.Duration `json:"endOfDayLead"`
}

// ADP configures the portal client. The password lives here because
// the portal offers no token flow; the config file is device-local.
type ADP struct {
	Activated bool   `json:"activated"`
	BaseURL   string `json:"baseUrl"`
	User      string `json:"user"`
	Password  string `json:"password"`
}

// Config is the process-wide persisted configuration.
type Config struct {
	FirstDayOfMonth int                                   `json:"firstDayOfMonth"`
	HoursToWork     map[engine.Weekday]engine.ScheduleDay `json:"hoursToWork"`
	Durations       Durations                             `json:"durations"`
	Notification    Notification                          `json:"notification"`
	ADP             ADP                                   `json:"adp"`
}

// Default returns the first-run configuration: the canonical
// 07:45-12:00-13:10-16:55 shape Monday through Friday, weekends off.
func Default() *Config {
	workday := engine.ScheduleDay{
		Punches: []engine.ClockTime{
			engine.MustClock("07:45"),
			engine.MustClock("12:00"),
			engine.MustClock("13:10"),
			engine.MustClock("16:55"),
		},
		Durations: []engine.Duration{
			engine.MustISO("PT4H15M"),
			engine.MustISO("PT1H10M"),
			engine.MustISO("PT3H45M"),
		},
	}

	hours := make(map[engine.Weekday]engine.ScheduleDay, 7)
	for w := engine.Monday; w <= engine.Friday; w++ {
		hours[w] = workday
	}
	hours[engine.Saturday] = engine.ScheduleDay{}
	hours[engine.Sunday] = engine.ScheduleDay{}

	return &Config{
		FirstDayOfMonth: 16,
		HoursToWork:     hours,
		Durations: Durations{
			Lunch:    engine.MustISO("PT1H10M"),
			MaxLunch: engine.MustISO("PT2H"),
			MaxShift: engine.MustISO("PT6H"),
			MaxWork:  engine.MustISO("PT10H"),
		},
		Notification: Notification{
			Enabled:      true,
			EndOfDayLead: engine.MustISO("PT10M"),
		},
		ADP: ADP{
			BaseURL: "https://expert.brasil.adp.com",
		},
	}
}

// Validate checks the parts of the config the engine depends on.
func (c *Config) Validate() error {
	if c.FirstDayOfMonth < 1 || c.FirstDayOfMonth > 31 {
		return fmt.Errorf("firstDayOfMonth %d out of range 1..31", c.FirstDayOfMonth)
	}
	if _, err := engine.NewWorkSchedule(c.HoursToWork); err != nil {
		return err
	}
	return nil
}

// Schedule converts the weekday map into the validated fixed-shape
// schedule the engine consumes. Call only after Validate.
func (c *Config) Schedule() engine.WorkSchedule {
	ws, err := engine.NewWorkSchedule(c.HoursToWork)
	if err != nil {
		panic(err)
	}
	return ws
}

// =============================================================================
// PERSISTENCE - JSON file, defaults on first run
// =============================================================================

// Load reads the config file. A missing file is first run: defaults
// are written and returned. A present but invalid file is an error;
// it is never silently replaced.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Save persists the config. Mutations must call Save before the
// mutation is considered done.
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
