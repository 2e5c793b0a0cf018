package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"umate/app/service/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	storeSvc, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = storeSvc.Shutdown()
	})

	return &Service{db: storeSvc.DB}
}

func TestAppendAndLoadRecent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		role := RoleUser
		if i%2 == 0 {
			role = RoleAssistant
		}

		require.NoError(t, svc.Append(ctx, "kim@umate.co.kr", role, fmt.Sprintf("msg-%d", i), nil, ""))
	}

	turns, err := svc.LoadRecent(ctx, "kim@umate.co.kr", 20)
	require.NoError(t, err)
	require.Len(t, turns, 20)

	// the window keeps the newest turns, oldest first
	assert.Equal(t, "msg-6", turns[0].Text)
	assert.Equal(t, "msg-25", turns[len(turns)-1].Text)

	for i := 1; i < len(turns); i++ {
		assert.Greater(t, turns[i].ID, turns[i-1].ID)
	}

	assert.Equal(t, RoleAssistant, turns[0].Role)
	assert.Equal(t, RoleUser, turns[1].Role)
}

func TestAppendGuestRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.Error(t, svc.Append(ctx, "", RoleUser, "hello", nil, ""))

	turns, err := svc.LoadRecent(ctx, "", 20)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestAudioRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	audio := []byte{0x00, 0x01, 0xfe, 0xff, 0x7f, 0x80}

	require.NoError(t, svc.Append(ctx, "kim@umate.co.kr", RoleUser, "", audio, ""))

	turns, err := svc.LoadRecent(ctx, "kim@umate.co.kr", 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)

	assert.Equal(t, audio, turns[0].Audio)
	assert.Empty(t, turns[0].Text)
}

func TestContextInfoStored(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Append(ctx, "kim@umate.co.kr", RoleUser, "요금제 문의", nil, "plan search results"))

	turns, err := svc.LoadRecent(ctx, "kim@umate.co.kr", 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)

	assert.Equal(t, "plan search results", turns[0].ContextInfo)
}

func TestOwnersAreIsolated(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Append(ctx, "kim@umate.co.kr", RoleUser, "first", nil, ""))
	require.NoError(t, svc.Append(ctx, "lee@umate.co.kr", RoleUser, "second", nil, ""))

	turns, err := svc.LoadRecent(ctx, "kim@umate.co.kr", 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "first", turns[0].Text)
}

func TestReset(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Append(ctx, "kim@umate.co.kr", RoleUser, "one", nil, ""))
	require.NoError(t, svc.Append(ctx, "kim@umate.co.kr", RoleAssistant, "two", nil, ""))
	require.NoError(t, svc.Append(ctx, "lee@umate.co.kr", RoleUser, "keep", nil, ""))

	require.NoError(t, svc.Reset(ctx, "kim@umate.co.kr"))

	turns, err := svc.LoadRecent(ctx, "kim@umate.co.kr", 10)
	require.NoError(t, err)
	assert.Empty(t, turns)

	kept, err := svc.LoadRecent(ctx, "lee@umate.co.kr", 10)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	// resetting a guest or unknown owner is a no-op
	assert.NoError(t, svc.Reset(ctx, ""))
	assert.NoError(t, svc.Reset(ctx, "nobody@umate.co.kr"))
}
