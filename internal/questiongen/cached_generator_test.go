package questiongen

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/cache"
)

type countingGenerator struct {
	calls     int
	questions []Question
	err       error
}

func (g *countingGenerator) Generate(ctx context.Context, req Request) ([]Question, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.questions, nil
}

func newTestCache(t *testing.T) *cache.CacheHelper {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return cache.NewCacheHelper(client, cache.QuestionCacheConfig.Prefix)
}

func TestCachedGeneratorMissThenHit(t *testing.T) {
	inner := &countingGenerator{
		questions: []Question{{Prompt: "Name the open strings."}},
	}
	g := NewCachedGenerator(inner, newTestCache(t), time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := Request{SkillName: "Guitar", Topic: "chords", Difficulty: "easy", Count: 3}

	first, err := g.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("inner generator called %d times, want 1", inner.calls)
	}

	second, err := g.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("second Generate() error = %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner generator called %d times, want 1 (second call should hit the cache)", inner.calls)
	}
	if len(second) != len(first) || second[0].Prompt != first[0].Prompt {
		t.Errorf("cached result differs: %+v vs %+v", second, first)
	}
}

func TestCachedGeneratorNormalizesKeys(t *testing.T) {
	inner := &countingGenerator{
		questions: []Question{{Prompt: "p"}},
	}
	g := NewCachedGenerator(inner, newTestCache(t), time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, err := g.Generate(context.Background(), Request{SkillName: "  Guitar Chords ", Topic: "Barre", Count: 2}); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Generate(context.Background(), Request{SkillName: "guitar chords", Topic: "barre", Count: 2}); err != nil {
		t.Fatal(err)
	}

	if inner.calls != 1 {
		t.Errorf("inner generator called %d times, want 1 (spellings should share a cache entry)", inner.calls)
	}
}

func TestCachedGeneratorDefaultsAffectKey(t *testing.T) {
	inner := &countingGenerator{
		questions: []Question{{Prompt: "p"}},
	}
	g := NewCachedGenerator(inner, newTestCache(t), time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// Zero count and empty difficulty normalize to the same request as the
	// explicit defaults.
	if _, err := g.Generate(context.Background(), Request{SkillName: "Chess", Topic: "openings"}); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Generate(context.Background(), Request{SkillName: "Chess", Topic: "openings", Difficulty: "medium", Count: DefaultCount}); err != nil {
		t.Fatal(err)
	}

	if inner.calls != 1 {
		t.Errorf("inner generator called %d times, want 1", inner.calls)
	}
}

func TestCachedGeneratorPropagatesErrors(t *testing.T) {
	inner := &countingGenerator{err: errors.New("api unavailable")}
	g := NewCachedGenerator(inner, newTestCache(t), time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, err := g.Generate(context.Background(), Request{SkillName: "Chess", Topic: "openings"}); err == nil {
		t.Fatal("expected the inner error to propagate")
	}
	if inner.calls != 1 {
		t.Errorf("inner generator called %d times, want 1", inner.calls)
	}
	// A failed generation must not poison the cache.
	inner.err = nil
	inner.questions = []Question{{Prompt: "p"}}
	if _, err := g.Generate(context.Background(), Request{SkillName: "Chess", Topic: "openings"}); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("inner generator called %d times, want 2", inner.calls)
	}
}

func TestCachedGeneratorNilCache(t *testing.T) {
	inner := &countingGenerator{
		questions: []Question{{Prompt: "p"}},
	}
	g := NewCachedGenerator(inner, nil, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	for i := 0; i < 2; i++ {
		if _, err := g.Generate(context.Background(), Request{SkillName: "Chess", Topic: "openings"}); err != nil {
			t.Fatal(err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("inner generator called %d times, want 2 (no cache configured)", inner.calls)
	}
}
