// Package load reads compilation session parameters from project
// configuration files.
package load

import (
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/syssam/typegraph/compiler/core"
	"github.com/syssam/typegraph/host"
)

// Config is the on-disk project configuration: one file declaring the
// typegraphs of a project.
type Config struct {
	Typegraphs []core.InitParams `yaml:"typegraphs"`
}

// Params reads a single session configuration from a YAML file. The
// Path defaults to the file's directory, so a bare config keeps
// endpoint discovery rooted next to it.
func Params(h host.ABI, path string) (core.InitParams, error) {
	var p core.InitParams
	content, err := h.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(content, &p); err != nil {
		return p, fmt.Errorf("load: parse %q: %w", path, err)
	}
	if p.Name == "" {
		return p, fmt.Errorf("load: %q declares no typegraph name", path)
	}
	if p.Path == "" {
		p.Path = filepath.Dir(path)
	}
	return p, nil
}

// ProjectConfig reads a project configuration declaring one or more
// typegraphs. Relative paths are resolved against the file's directory.
func ProjectConfig(h host.ABI, path string) (*Config, error) {
	content, err := h.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(content, &c); err != nil {
		return nil, fmt.Errorf("load: parse %q: %w", path, err)
	}
	if len(c.Typegraphs) == 0 {
		return nil, fmt.Errorf("load: %q declares no typegraphs", path)
	}
	dir := filepath.Dir(path)
	for i := range c.Typegraphs {
		tg := &c.Typegraphs[i]
		if tg.Name == "" {
			return nil, fmt.Errorf("load: %q: typegraph %d has no name", path, i)
		}
		switch {
		case tg.Path == "":
			tg.Path = dir
		case !filepath.IsAbs(tg.Path):
			tg.Path = filepath.Join(dir, tg.Path)
		}
	}
	return &c, nil
}
