package config

import (
	"testing"

	"github.com/matryer/is"
)

func TestConfigDefaults(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load(nil))
	is.Equal(c.Algorithm, "AStar")
	is.Equal(c.Level, 1)
	is.Equal(c.Runs, 1)
	is.Equal(c.Debug, false)
}

func TestConfigLoad(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	err := c.Load([]string{
		"-algorithm", "BFS",
		"-level", "0",
		"-runs", "5",
		"-stats-path", "/tmp/st",
		"-debug",
	})
	is.NoErr(err)
	is.Equal(c.Algorithm, "BFS")
	is.Equal(c.Level, 0)
	is.Equal(c.Runs, 5)
	is.Equal(c.StatsPath, "/tmp/st")
	is.Equal(c.Debug, true)
}

func TestConfigBadFlag(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.True(c.Load([]string{"-no-such-flag"}) != nil)
}
