package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/stepup"
)

func TestOtpStore_CreateIsAtomicPerTransaction(t *testing.T) {
	client, _ := testClient(t)
	store := NewOtpStore(client)
	ctx := context.Background()

	txID := uuid.New()
	session := stepup.NewSession(txID, "user-1", stepup.HashCode("123456"), time.Now(), 5*time.Minute, 3)

	created, err := store.Create(ctx, session)
	require.NoError(t, err)
	assert.True(t, created)

	again := stepup.NewSession(txID, "user-1", stepup.HashCode("654321"), time.Now(), 5*time.Minute, 3)
	created, err = store.Create(ctx, again)
	require.NoError(t, err)
	assert.False(t, created, "second create for the same transaction must lose")

	got, err := store.Get(ctx, txID)
	require.NoError(t, err)
	assert.True(t, got.Matches("123456"), "the first session's code must survive")
}

func TestOtpStore_GetUnknownTransaction(t *testing.T) {
	client, _ := testClient(t)
	store := NewOtpStore(client)

	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, stepup.ErrSessionNotFound)
}

func TestOtpStore_UpdateRoundTrip(t *testing.T) {
	client, _ := testClient(t)
	store := NewOtpStore(client)
	ctx := context.Background()

	txID := uuid.New()
	session := stepup.NewSession(txID, "user-1", stepup.HashCode("123456"), time.Now(), 5*time.Minute, 3)
	_, err := store.Create(ctx, session)
	require.NoError(t, err)

	session.AttemptsRemaining = 1
	session.Status = stepup.StatusPending
	require.NoError(t, store.Update(ctx, session))

	got, err := store.Get(ctx, txID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AttemptsRemaining)
}

func TestOtpStore_ExpiredSessionStaysReadableWithinGrace(t *testing.T) {
	client, mr := testClient(t)
	store := NewOtpStore(client)
	ctx := context.Background()

	txID := uuid.New()
	session := stepup.NewSession(txID, "user-1", stepup.HashCode("123456"), time.Now(), 5*time.Minute, 3)
	_, err := store.Create(ctx, session)
	require.NoError(t, err)

	// Past expiry but inside the retention grace: Verify must still find
	// the session and report it expired rather than not-found.
	mr.FastForward(10 * time.Minute)

	got, err := store.Get(ctx, txID)
	require.NoError(t, err)
	assert.True(t, got.ExpiredAt(time.Now().Add(10*time.Minute)))
}
