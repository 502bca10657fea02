package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/boltdb/bolt"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bizlink/partner-portal/internal/core/domain"
	"github.com/bizlink/partner-portal/internal/core/ports"
	"github.com/bizlink/partner-portal/internal/pkg/config"
)

var sampleUser = domain.User{
	ID:          "1",
	Email:       "vendor1@techcorp.com",
	Role:        domain.RoleVendor,
	Name:        "V One",
	CompanyName: "TechCorp",
}

func openTestBolt(t *testing.T) (*Bolt, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "creds.db")
	s, err := OpenBolt(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

// exerciseRoundTrip runs the slot contract against any backend.
func exerciseRoundTrip(t *testing.T, s ports.CredentialStore) {
	t.Helper()
	ctx := context.Background()

	if _, ok := s.Token(ctx); ok {
		t.Fatalf("expected empty token slot")
	}
	if _, ok := s.User(ctx); ok {
		t.Fatalf("expected empty user slot")
	}

	if err := s.SetToken(ctx, "tok-123"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if got, ok := s.Token(ctx); !ok || got != "tok-123" {
		t.Fatalf("token round trip: got %q ok=%v", got, ok)
	}

	if err := s.SetUser(ctx, sampleUser); err != nil {
		t.Fatalf("set user: %v", err)
	}
	got, ok := s.User(ctx)
	if !ok || !reflect.DeepEqual(*got, sampleUser) {
		t.Fatalf("user round trip: got %+v ok=%v", got, ok)
	}

	if err := s.RemoveToken(ctx); err != nil {
		t.Fatalf("remove token: %v", err)
	}
	if _, ok := s.Token(ctx); ok {
		t.Fatalf("token should be removed")
	}

	if err := s.Save(ctx, "tok-456", sampleUser); err != nil {
		t.Fatalf("save: %v", err)
	}
	if tok, ok := s.Token(ctx); !ok || tok != "tok-456" {
		t.Fatalf("save did not write token: %q", tok)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := s.Token(ctx); ok {
		t.Fatalf("token should be cleared")
	}
	if _, ok := s.User(ctx); ok {
		t.Fatalf("user should be cleared")
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	exerciseRoundTrip(t, NewMemory(zerolog.Nop()))
}

func TestBolt_RoundTrip(t *testing.T) {
	s, _ := openTestBolt(t)
	exerciseRoundTrip(t, s)
}

func TestBolt_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.db")
	s, err := OpenBolt(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Save(context.Background(), "persisted", sampleUser); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = s.Close()

	s2, err := OpenBolt(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if tok, ok := s2.Token(context.Background()); !ok || tok != "persisted" {
		t.Fatalf("token not persisted: %q", tok)
	}
	if u, ok := s2.User(context.Background()); !ok || u.Email != sampleUser.Email {
		t.Fatalf("user not persisted: %+v", u)
	}
}

func TestBolt_MalformedUserReadsAsMissing(t *testing.T) {
	s, _ := openTestBolt(t)
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(credentialsBucket).Put([]byte(KeyUser), []byte("{not json"))
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if u, ok := s.User(context.Background()); ok || u != nil {
		t.Fatalf("expected malformed user to read as missing, got %+v", u)
	}
}

func TestMemory_InvalidRoleReadsAsMissing(t *testing.T) {
	var logs bytes.Buffer
	m := NewMemory(zerolog.New(&logs))
	m.SetRaw(KeyUser, []byte(`{"id":"1","email":"a@b.com","role":"admin"}`))
	if _, ok := m.User(context.Background()); ok {
		t.Fatalf("user with unknown role must not be returned")
	}
	if !strings.Contains(logs.String(), `"level":"warn"`) || !strings.Contains(logs.String(), "discarding malformed stored user") {
		t.Fatalf("expected a warn line for the malformed user, got %q", logs.String())
	}
}

func TestNop_DropsWrites(t *testing.T) {
	ctx := context.Background()
	var s Nop
	if err := s.Save(ctx, "tok", sampleUser); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok := s.Token(ctx); ok {
		t.Fatalf("nop store must not return a token")
	}
	if _, ok := s.User(ctx); ok {
		t.Fatalf("nop store must not return a user")
	}
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()

	mem, err := Open(ctx, config.StoreConfig{Backend: "memory"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := mem.(*Memory); !ok {
		t.Fatalf("expected *Memory, got %T", mem)
	}

	none, err := Open(ctx, config.StoreConfig{Backend: "none"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("none: %v", err)
	}
	if _, ok := none.(Nop); !ok {
		t.Fatalf("expected Nop, got %T", none)
	}

	file, err := Open(ctx, config.StoreConfig{Backend: "file", Path: filepath.Join(t.TempDir(), "c.db")}, zerolog.Nop())
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	defer file.Close()
	if _, ok := file.(*Bolt); !ok {
		t.Fatalf("expected *Bolt, got %T", file)
	}

	if _, err := Open(ctx, config.StoreConfig{Backend: "floppy"}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestOpen_UnusableFileDegradesToNop(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := Open(context.Background(), config.StoreConfig{
		Backend: "file",
		Path:    filepath.Join(blocker, "nested", "c.db"),
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := s.(Nop); !ok {
		t.Fatalf("expected Nop fallback, got %T", s)
	}
}

func TestOpen_UnreachableRedisDegradesToNop(t *testing.T) {
	s, err := Open(context.Background(), config.StoreConfig{
		Backend: "redis",
		Redis:   config.RedisConfig{Addr: "127.0.0.1:1"},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := s.(Nop); !ok {
		t.Fatalf("expected Nop fallback, got %T", s)
	}
}

// testRedis connects to the server named by PORTAL_TEST_REDIS_ADDR and
// returns a client plus a key prefix private to the test.
func testRedis(t *testing.T) (*redis.Client, string) {
	t.Helper()
	addr := os.Getenv("PORTAL_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PORTAL_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Fatalf("redis %s: %v", addr, err)
	}
	prefix := "portal-test:" + t.Name() + ":" + time.Now().Format("150405.000000000")
	t.Cleanup(func() {
		_ = client.Del(context.Background(), prefix+":"+KeyToken, prefix+":"+KeyUser).Err()
	})
	return client, prefix
}

func TestRedis_RoundTrip(t *testing.T) {
	client, prefix := testRedis(t)
	s := NewRedis(client, prefix, 0, zerolog.Nop())
	t.Cleanup(func() { _ = s.Close() })

	exerciseRoundTrip(t, s)
}

func TestRedis_SaveAppliesTTLToBothKeys(t *testing.T) {
	client, prefix := testRedis(t)
	s := NewRedis(client, prefix, time.Minute, zerolog.Nop())
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	if err := s.Save(ctx, "tok", sampleUser); err != nil {
		t.Fatalf("save: %v", err)
	}
	for _, slot := range []string{KeyToken, KeyUser} {
		ttl, err := client.TTL(ctx, prefix+":"+slot).Result()
		if err != nil {
			t.Fatalf("ttl %s: %v", slot, err)
		}
		if ttl <= 0 || ttl > time.Minute {
			t.Fatalf("expected %s to expire within a minute, ttl=%v", slot, ttl)
		}
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	n, err := client.Exists(ctx, prefix+":"+KeyToken, prefix+":"+KeyUser).Result()
	if err != nil || n != 0 {
		t.Fatalf("expected both keys removed, exists=%d err=%v", n, err)
	}
}

func TestRedis_MalformedUserReadsAsMissing(t *testing.T) {
	client, prefix := testRedis(t)
	var logs bytes.Buffer
	s := NewRedis(client, prefix, 0, zerolog.New(&logs))
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	if err := client.Set(ctx, prefix+":"+KeyUser, "{not json", 0).Err(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if u, ok := s.User(ctx); ok || u != nil {
		t.Fatalf("expected malformed user to read as missing, got %+v", u)
	}
	if !strings.Contains(logs.String(), "discarding malformed stored user") {
		t.Fatalf("expected a warn line, got %q", logs.String())
	}
}
