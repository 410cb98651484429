package adapter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name string
	args []string
	err  error
}

func (r *recorder) start(name string, args ...string) error {
	r.name = name
	r.args = args
	return r.err
}

func TestOpenerConfiguredCommand(t *testing.T) {
	rec := &recorder{}
	o := NewOpener(&BrowserConfig{Command: "firefox", Args: []string{"--new-tab"}}, NullLogger())
	o.start = rec.start

	require.NoError(t, o.Open("https://www.themoviedb.org/movie/438631"))
	assert.Equal(t, "firefox", rec.name)
	assert.Equal(t, []string{"--new-tab", "https://www.themoviedb.org/movie/438631"}, rec.args)

	// Configured args are not mutated between calls
	require.NoError(t, o.Open("https://example.com/b"))
	assert.Equal(t, []string{"--new-tab", "https://example.com/b"}, rec.args)
}

func TestOpenerSystemDefault(t *testing.T) {
	rec := &recorder{}
	o := NewOpener(nil, NullLogger())
	o.start = rec.start

	require.NoError(t, o.Open("https://example.com"))
	assert.NotEmpty(t, rec.name)
	assert.Equal(t, "https://example.com", rec.args[len(rec.args)-1])
}

func TestOpenerErrors(t *testing.T) {
	rec := &recorder{err: errors.New("not found")}
	o := NewOpener(&BrowserConfig{Command: "nope"}, NullLogger())
	o.start = rec.start

	assert.Error(t, o.Open(""))
	assert.ErrorIs(t, o.Open("https://example.com"), rec.err)
}

func TestDefaultHandler(t *testing.T) {
	name, args := defaultHandler("darwin", "u")
	assert.Equal(t, "open", name)
	assert.Equal(t, []string{"u"}, args)

	name, args = defaultHandler("windows", "u")
	assert.Equal(t, "cmd", name)
	assert.Equal(t, []string{"/c", "start", "", "u"}, args)

	name, _ = defaultHandler("linux", "u")
	assert.Equal(t, "xdg-open", name)
}
