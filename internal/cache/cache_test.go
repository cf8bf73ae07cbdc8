package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, "key", &Entry{ETag: `W/"abc"`, Body: []byte(`{"x":1}`)})

	got, ok := c.Get(ctx, "key")
	require.True(t, ok)
	assert.Equal(t, `W/"abc"`, got.ETag)
	assert.Equal(t, []byte(`{"x":1}`), got.Body)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10 * time.Millisecond)

	c.Set(ctx, "key", &Entry{ETag: `W/"abc"`, Body: []byte("body")})
	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get(ctx, "key")
	assert.False(t, ok)
}

func TestMemoryCache_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	c.Set(ctx, "key", &Entry{ETag: `W/"abc"`})

	first, ok := c.Get(ctx, "key")
	require.True(t, ok)
	first.ETag = "mutated"

	second, ok := c.Get(ctx, "key")
	require.True(t, ok)
	assert.Equal(t, `W/"abc"`, second.ETag)
}

func TestFingerprint_Deterministic(t *testing.T) {
	locationID := uuid.MustParse("7e57ab1e-0000-4000-8000-000000000001")
	serviceA := uuid.MustParse("7e57ab1e-0000-4000-8000-00000000000a")
	serviceB := uuid.MustParse("7e57ab1e-0000-4000-8000-00000000000b")

	services := []FingerprintService{
		{ServiceID: serviceA, Order: 1},
		{ServiceID: serviceB, Order: 2},
	}

	first := Fingerprint("2026-03-15", locationID, services)
	second := Fingerprint("2026-03-15", locationID, services)
	assert.Equal(t, first, second)
	assert.Regexp(t, `^W/"[0-9a-f]{16}"$`, first)
}

func TestFingerprint_CanonicalizesOrder(t *testing.T) {
	locationID := uuid.MustParse("7e57ab1e-0000-4000-8000-000000000001")
	serviceA := uuid.MustParse("7e57ab1e-0000-4000-8000-00000000000a")
	serviceB := uuid.MustParse("7e57ab1e-0000-4000-8000-00000000000b")

	inOrder := Fingerprint("2026-03-15", locationID, []FingerprintService{
		{ServiceID: serviceA, Order: 1},
		{ServiceID: serviceB, Order: 2},
	})
	shuffled := Fingerprint("2026-03-15", locationID, []FingerprintService{
		{ServiceID: serviceB, Order: 2},
		{ServiceID: serviceA, Order: 1},
	})

	assert.Equal(t, inOrder, shuffled)
}

func TestFingerprint_SensitiveToInputs(t *testing.T) {
	locationID := uuid.MustParse("7e57ab1e-0000-4000-8000-000000000001")
	serviceA := uuid.MustParse("7e57ab1e-0000-4000-8000-00000000000a")
	staffID := uuid.MustParse("7e57ab1e-0000-4000-8000-0000000000ff")

	base := Fingerprint("2026-03-15", locationID, []FingerprintService{
		{ServiceID: serviceA, Order: 1},
	})

	otherDate := Fingerprint("2026-03-16", locationID, []FingerprintService{
		{ServiceID: serviceA, Order: 1},
	})
	assert.NotEqual(t, base, otherDate)

	pinned := Fingerprint("2026-03-15", locationID, []FingerprintService{
		{ServiceID: serviceA, StaffID: &staffID, Order: 1},
	})
	assert.NotEqual(t, base, pinned)
}
