package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/movietracker/internal/domain"
)

func TestParseItemArgs(t *testing.T) {
	id, kind, err := parseItemArgs(flag.NewFlagSet("details", flag.ContinueOnError), []string{"-kind", "tv", "1396"})
	require.NoError(t, err)
	assert.Equal(t, int64(1396), id)
	assert.Equal(t, domain.KindSeries, kind)

	id, kind, err = parseItemArgs(flag.NewFlagSet("details", flag.ContinueOnError), []string{"438631"})
	require.NoError(t, err)
	assert.Equal(t, int64(438631), id)
	assert.Equal(t, domain.KindFilm, kind)

	_, _, err = parseItemArgs(flag.NewFlagSet("details", flag.ContinueOnError), []string{"abc"})
	assert.Error(t, err)

	_, _, err = parseItemArgs(flag.NewFlagSet("details", flag.ContinueOnError), nil)
	assert.Error(t, err)

	_, _, err = parseItemArgs(flag.NewFlagSet("details", flag.ContinueOnError), []string{"-kind", "person", "1"})
	assert.Error(t, err)
}

func TestKeyPromptHiddenOnTerminal(t *testing.T) {
	var out bytes.Buffer
	inputs := []string{"  ", " secret-key "}
	p := &keyPrompt{
		out:    &out,
		hidden: true,
		readPassword: func() ([]byte, error) {
			next := inputs[0]
			inputs = inputs[1:]
			return []byte(next), nil
		},
	}

	key, err := p.read("Key: ")
	require.NoError(t, err)
	assert.Equal(t, "secret-key", key)
	assert.Empty(t, inputs)
	assert.NotContains(t, out.String(), "secret-key")
	assert.Contains(t, out.String(), "API key cannot be empty")
}

func TestKeyPromptHiddenReadError(t *testing.T) {
	boom := errors.New("not a tty")
	p := &keyPrompt{
		out:          &bytes.Buffer{},
		hidden:       true,
		readPassword: func() ([]byte, error) { return nil, boom },
	}

	_, err := p.read("Key: ")
	assert.ErrorIs(t, err, boom)
}

func TestKeyPromptLineFallback(t *testing.T) {
	p := &keyPrompt{
		out:    &bytes.Buffer{},
		reader: bufio.NewReader(strings.NewReader("\npiped-key")),
	}
	key, err := p.read("Key: ")
	require.NoError(t, err)
	assert.Equal(t, "piped-key", key)

	p = &keyPrompt{out: &bytes.Buffer{}, reader: bufio.NewReader(strings.NewReader(""))}
	_, err = p.read("Key: ")
	assert.Error(t, err)
}
