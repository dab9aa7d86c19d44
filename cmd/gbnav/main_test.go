package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (*app, string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	a := newApp(buf)
	cmd := a.command()
	cmd.SetErr(buf)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return a, buf.String(), err
}

func TestPlanCommand(t *testing.T) {
	_, out, err := run(t, "plan", "--level", "two_patches.json", "--agent", "hopper.yaml", "--to", "10.5,0,1.5")
	require.NoError(t, err, out)

	var doc struct {
		Status    string `yaml:"status"`
		Jumps     int    `yaml:"jumps"`
		Waypoints []struct {
			Type string `yaml:"type"`
		} `yaml:"waypoints"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "complete", doc.Status)
	assert.Equal(t, 1, doc.Jumps)
	assert.NotEmpty(t, doc.Waypoints)
}

func TestPlanCommandNoPath(t *testing.T) {
	_, out, err := run(t, "plan", "--level", "two_patches.json", "--from", "0.5,0,1.5", "--to", "10.5,0,1.5")
	assert.ErrorIs(t, err, errNoPath)
	assert.Contains(t, out, "status: invalid")

	// the same request succeeds once jumps reach across the gap
	_, out, err = run(t, "plan", "--level", "two_patches.json", "--from", "0.5,0,1.5", "--to", "10.5,0,1.5",
		"--jump-distance", "5")
	require.NoError(t, err, out)
	assert.Contains(t, out, "status: complete")
}

func TestPlanCommandFlags(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"missing_to", []string{"plan", "--level", "two_patches.json"}},
		{"bad_to", []string{"plan", "--level", "two_patches.json", "--to", "1,2"}},
		{"bad_from", []string{"plan", "--level", "two_patches.json", "--from", "a,b,c", "--to", "1,0,1"}},
		{"bad_behaviour", []string{"plan", "--level", "two_patches.json", "--to", "1,0,1", "--behaviour", "fly"}},
		{"missing_level", []string{"plan", "--level", "nowhere.json", "--to", "1,0,1"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := run(t, c.args...)
			assert.Error(t, err)
		})
	}
}

func TestSimulateCommand(t *testing.T) {
	_, out, err := run(t, "simulate", "--level", "two_patches.json", "--agent", "hopper.yaml", "--to", "10.5,0,1.5")
	require.NoError(t, err, out)

	var doc simulationDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "hopper", doc.Agent)
	assert.Equal(t, "idle", doc.State)
	assert.InDelta(t, 10.5, doc.Position.X, 0.011)
	assert.InDelta(t, 1.5, doc.Position.Z, 0.011)

	kinds := make([]string, 0, len(doc.Events))
	for _, e := range doc.Events {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []string{"path_started", "jump_started", "jump_landed", "path_completed"}, kinds)
}

func TestSimulateCommandGivesUp(t *testing.T) {
	_, out, err := run(t, "simulate", "--level", "two_patches.json", "--agent", "hopper.yaml",
		"--to", "10.5,0,1.5", "--max-frames", "3")
	assert.ErrorContains(t, err, "still moving after 3 frames")
	assert.Contains(t, out, "state: has_path")
}

func TestListCommand(t *testing.T) {
	_, out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "two_patches.json")
	assert.Contains(t, out, "hopper.yaml")
}

func TestEnvironmentOverridesFlags(t *testing.T) {
	t.Setenv("GBNAV_LEVEL", "two_patches.json")
	buf := new(bytes.Buffer)
	a := newApp(buf)
	cmd := a.command()
	cmd.SetArgs([]string{"list"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "two_patches.json", a.v.GetString("level"))
}

func TestParseVec(t *testing.T) {
	v, err := parseVec(" 1.5, 0 ,-2")
	require.NoError(t, err)
	assert.Equal(t, 1.5, v.X)
	assert.Equal(t, -2.0, v.Z)

	_, err = parseVec("1,2,3,4")
	assert.Error(t, err)
}
