package rejectlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "plain", body: "Welcome to MoMo", want: "Welcome to MoMo"},
		{name: "newline", body: "line one\nline two", want: `line one\nline two`},
		{name: "carriage return", body: "a\r\nb", want: `a\r\nb`},
		{name: "backslash kept verbatim", body: `Ref\AB-12 \ pending`, want: `Ref\AB-12 \ pending`},
		{name: "empty", body: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Escape(tt.body)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.body, Unescape(got))
		})
	}
}

func TestEscape_SingleLineBodyVerbatim(t *testing.T) {
	body := `You have received 500 RWF from C:\Shop\Till. Ref \\ 42`
	assert.Equal(t, body, Escape(body))

	// A literal backslash-n reads back as a line break.
	assert.Equal(t, `a\nb`, Escape(`a\nb`))
	assert.Equal(t, "a\nb", Unescape(Escape(`a\nb`)))
}

func TestFile_AppendsInOrder(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "logs", "unprocessed.log")

	log, err := Open(path, false)
	require.NoError(t, err)
	require.NoError(t, log.Reject(ctx, 0, "first"))
	require.NoError(t, log.Reject(ctx, 3, "second\nwith break"))
	require.NoError(t, log.Close())
	require.NoError(t, log.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\\nwith break\n", string(raw))

	bodies, err := ReadAll(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second\nwith break"}, bodies)
}

func TestFile_AppendAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rejects.log")

	for _, body := range []string{"a", "b"} {
		log, err := Open(path, false)
		require.NoError(t, err)
		require.NoError(t, log.Reject(ctx, 0, body))
		require.NoError(t, log.Close())
	}

	bodies, err := ReadAll(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, bodies)

	log, err := Open(path, true)
	require.NoError(t, err)
	require.NoError(t, log.Reject(ctx, 0, "c"))
	require.NoError(t, log.Close())

	bodies, err = ReadAll(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, bodies)
}

func TestFile_RejectAfterClose(t *testing.T) {
	log, err := Open(filepath.Join(t.TempDir(), "r.log"), false)
	require.NoError(t, err)
	require.NoError(t, log.Close())

	assert.ErrorIs(t, log.Reject(context.Background(), 0, "late"), ErrClosed)
}

func TestMemory(t *testing.T) {
	var m Memory
	require.NoError(t, m.Reject(context.Background(), 0, "x"))
	require.NoError(t, m.Reject(context.Background(), 1, "y"))
	assert.Equal(t, []string{"x", "y"}, m.Bodies)
}
