package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// File is an optional TOML configuration file holding site defaults
// (atlas location, Slicer install, history database). Flags and
// environment variables take precedence over file values.
type File struct {
	Pipeline struct {
		Output       string `toml:"output"`
		Atlas        string `toml:"atlas"`
		Transform    string `toml:"transform"`
		Registration string `toml:"registration"`
		Threads      int    `toml:"threads"`
		Cleanup      int    `toml:"cleanup"`
		LocationFile string `toml:"cluster_location_file"`
	} `toml:"pipeline"`

	Slicer struct {
		Path         string `toml:"path"`
		Xvfb         bool   `toml:"xvfb"`
		Measurements bool   `toml:"measurements"`
		Module       string `toml:"module"`
	} `toml:"slicer"`

	History struct {
		DB string `toml:"db"`
	} `toml:"history"`
}

// LoadFile parses a TOML configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}
	return &f, nil
}

// IsSet reports whether a flag was set explicitly (flag or env var).
type IsSet func(name string) bool

// Apply fills configuration values not set on the command line from
// the file.
func (f *File) Apply(isSet IsSet, p *Pipeline, s *Slicer, h *History) {
	if !isSet("output") && f.Pipeline.Output != "" {
		p.Output = f.Pipeline.Output
	}
	if !isSet("atlas") && f.Pipeline.Atlas != "" {
		p.Atlas = f.Pipeline.Atlas
	}
	if !isSet("transform") && f.Pipeline.Transform != "" {
		p.Transform = f.Pipeline.Transform
	}
	if !isSet("registration") && f.Pipeline.Registration != "" {
		p.Registration = f.Pipeline.Registration
	}
	if !isSet("threads") && f.Pipeline.Threads > 0 {
		p.Threads = f.Pipeline.Threads
	}
	if !isSet("cleanup") && f.Pipeline.Cleanup > 0 {
		p.Cleanup = f.Pipeline.Cleanup
	}
	if !isSet("cluster-location-file") && f.Pipeline.LocationFile != "" {
		p.LocationFile = f.Pipeline.LocationFile
	}

	if !isSet("slicer") && f.Slicer.Path != "" {
		s.Path = f.Slicer.Path
	}
	if !isSet("xvfb") && f.Slicer.Xvfb {
		s.Xvfb = true
	}
	if !isSet("measurements") && f.Slicer.Measurements {
		s.Measurements = true
	}
	if !isSet("measurements-module") && f.Slicer.Module != "" {
		s.Module = f.Slicer.Module
	}

	if !isSet("history-db") && f.History.DB != "" {
		h.DB = f.History.DB
	}
}
