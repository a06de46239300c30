package nats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjects(t *testing.T) {
	assert.Equal(t, "planr.family-week.>", SubjectForSession("family-week"))
	assert.Equal(t, "planr.family-week.nav", SubjectForEvent("family-week", EventTypeNav))

	tests := []struct {
		subject string
		want    string
		ok      bool
	}{
		{subject: "planr.family-week.draft", want: "family-week", ok: true},
		{subject: "planr.family-week", ok: false},
		{subject: "other.family-week.draft", ok: false},
		{subject: "planr.a.b.c", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			got, ok := SessionFromSubject(tt.subject)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenAndClose(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	conn, err := Open(ctx, dir)
	require.NoError(t, err)

	info, err := conn.Stream.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, streamName, info.Config.Name)
	assert.Equal(t, []string{"planr.>"}, info.Config.Subjects)

	require.NoError(t, conn.Close())

	// Reopening the same directory finds the existing stream.
	conn, err = Open(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, conn.Close())
}
