package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
)

func newCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	r := miniredis.RunT(t)
	c, err := NewRedisCache(context.Background(), fmt.Sprintf("redis://%s", r.Addr()))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c, r
}

func TestSetGet(t *testing.T) {
	cache, _ := newCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "test", "test", 0); err != nil {
		t.Error(err)
	}
	value, ok, err := cache.Get(ctx, "test")
	if err != nil {
		t.Error(err)
	}
	if !ok || value != "test" {
		t.Errorf("expected test, got %s", value)
	}

	if _, ok, err := cache.Get(ctx, "missing"); ok || err != nil {
		t.Errorf("expected a miss, got %v (%v)", ok, err)
	}

	if err := cache.Delete(ctx, "test"); err != nil {
		t.Error(err)
	}
	if _, ok, _ := cache.Get(ctx, "test"); ok {
		t.Error("expected key to be deleted")
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not a url"); err == nil {
		t.Error("expected an error")
	}
}

func TestSetGetJSON(t *testing.T) {
	cache, _ := newCache(t)
	ctx := context.Background()

	type Test struct {
		Name string
		Age  int
	}
	test := Test{Name: "jsontest", Age: 10}
	if err := cache.SetJSON(ctx, "jsontest", test, 0); err != nil {
		t.Error(err)
	}

	// Confirm the value is stored in the cache as a JSON string
	js, _, err := cache.Get(ctx, "jsontest")
	if err != nil {
		t.Error(err)
	}
	if js != `{"Name":"jsontest","Age":10}` {
		t.Errorf("expected `{\"Name\":\"jsontest\",\"Age\":10}`, got %s", js)
	}

	var test2 Test
	ok, err := cache.GetJSON(ctx, "jsontest", &test2)
	if err != nil || !ok {
		t.Errorf("expected a hit, got %v (%v)", ok, err)
	}
	if test2 != test {
		t.Errorf("expected %v, got %v", test, test2)
	}

	if err := cache.Set(ctx, "broken", "{", 0); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.GetJSON(ctx, "broken", &test2); err == nil {
		t.Error("expected an unmarshal error")
	}
}

func TestSessionStore(t *testing.T) {
	cache, r := newCache(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(cache)
	store.now = func() time.Time { return now }

	a := &Artifacts{
		AthleteID: 1234,
		Token:     "jwt",
		CSRFParam: "authenticity_token",
		CSRFToken: "tok",
		Expires:   now.Add(time.Hour).Truncate(time.Second),
	}
	if err := store.Save(ctx, "ada@example.com", a); err != nil {
		t.Fatal(err)
	}
	if ttl := r.TTL(artifactPrefix + "ada@example.com"); ttl != time.Hour {
		t.Errorf("expected the entry to expire with the token, got %s", ttl)
	}

	got, err := store.Load(ctx, "ada@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, got); diff != "" {
		t.Errorf("artifacts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"authenticity_token": "tok"}, got.CSRF()); diff != "" {
		t.Errorf("csrf mismatch (-want +got):\n%s", diff)
	}

	if got, err := store.Load(ctx, "bob@example.com"); got != nil || err != nil {
		t.Errorf("expected nothing for another user, got %v (%v)", got, err)
	}

	now = now.Add(2 * time.Hour)
	if got, err := store.Load(ctx, "ada@example.com"); got != nil || err != nil {
		t.Errorf("expected expired artifacts to be ignored, got %v (%v)", got, err)
	}
	if err := store.Save(ctx, "ada@example.com", a); err != nil {
		t.Fatal(err)
	}
	if r.Exists(artifactPrefix + "ada@example.com") {
		t.Error("saving expired artifacts should drop the entry")
	}
}

func TestSessionStoreForget(t *testing.T) {
	cache, r := newCache(t)
	ctx := context.Background()
	store := NewSessionStore(cache)

	if err := store.Save(ctx, "ada", &Artifacts{Token: "jwt"}); err != nil {
		t.Fatal(err)
	}
	if ttl := r.TTL(artifactPrefix + "ada"); ttl != 0 {
		t.Errorf("expected no ttl without an expiry, got %s", ttl)
	}
	if err := store.Forget(ctx, "ada"); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Load(ctx, "ada"); got != nil {
		t.Errorf("expected forgotten artifacts, got %v", got)
	}
}
