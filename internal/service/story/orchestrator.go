// Package story implements the illustration orchestrator: it validates a
// request, gates it on content moderation, derives one seed for the whole
// story, then generates and emits the cover and every scene in order,
// tolerating per-item failures without aborting the run.
package story

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/georgem7154/once-upon-a-prompt/internal/model/story"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/cache"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/imagegen"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/safety"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/storage"
	storyrepo "github.com/georgem7154/once-upon-a-prompt/internal/repository/story"
)

// seedRange bounds the per-story seed
const seedRange = 1_000_000_000

// ErrModerated rejects a story whose combined text fails the safety gate.
// No generation call is made on this path.
var ErrModerated = errors.New("story contains harmful or inappropriate content")

// Emitter receives the ordered event stream of one orchestration run.
// Each Emit is an irreversible ordered write; Close terminates the stream.
type Emitter interface {
	Emit(event string, data any) error
	Close()
}

// ArtifactCache stores generated image bytes and the per-story seed.
// Implemented by cache.RedisCache; errors are treated as misses.
type ArtifactCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	SetBytes(ctx context.Context, key string, value []byte, expiration time.Duration) error
}

// Options wires the orchestrator's collaborators. Generator and Moderator
// are required; Fragments, Artifacts and Cache are optional and best-effort.
type Options struct {
	Generator imagegen.Generator
	Moderator *safety.Moderator
	Fragments storyrepo.FragmentRepository
	Artifacts storage.Storage
	Cache     ArtifactCache
	SeedFn    func() int64 // override for deterministic tests
}

// Orchestrator drives one story's generation run
type Orchestrator struct {
	generator imagegen.Generator
	moderator *safety.Moderator
	fragments storyrepo.FragmentRepository
	artifacts storage.Storage
	cache     ArtifactCache
	seedFn    func() int64
}

// NewOrchestrator builds an orchestrator
func NewOrchestrator(opts Options) *Orchestrator {
	seedFn := opts.SeedFn
	if seedFn == nil {
		seedFn = func() int64 { return rand.Int64N(seedRange) }
	}
	return &Orchestrator{
		generator: opts.Generator,
		moderator: opts.Moderator,
		fragments: opts.Fragments,
		artifacts: opts.Artifacts,
		cache:     opts.Cache,
		seedFn:    seedFn,
	}
}

// Run executes the full state machine: Validating, Moderating,
// GeneratingCover, GeneratingScenes, Done. Every terminal path emits
// exactly one done event and closes the emitter. The returned error is
// non-nil only on the fatal paths (validation or moderation); per-item
// generation failures are reported as error events and do not fail the run.
func (o *Orchestrator) Run(ctx context.Context, req *story.Request, emit Emitter) error {
	defer emit.Close()

	// Validating
	if err := req.Validate(); err != nil {
		o.emit(emit, story.EventError, story.ErrorPayload{Error: err.Error()})
		o.emitDone(emit)
		return err
	}

	// Moderating: the gate runs strictly before any generation work
	if !o.moderator.IsClean(req.CombinedText()) {
		log.Warn().Str("story_id", req.StoryID).Msg("story rejected by moderation")
		o.emit(emit, story.EventError, story.ErrorPayload{Error: ErrModerated.Error()})
		o.emitDone(emit)
		return ErrModerated
	}

	// One seed per story keeps the visual style consistent across artifacts
	// and across re-runs, so a reconnecting client hits the artifact cache
	seed := o.resolveSeed(ctx, req.StoryID)
	log.Info().
		Str("story_id", req.StoryID).
		Int64("seed", seed).
		Msg("starting illustration run")

	// GeneratingCover: failure is reported and the run continues
	coverPrompt := buildCoverPrompt(req)
	if image, err := o.generateItem(ctx, req, story.CoverKey, coverPrompt, seed); err != nil {
		log.Error().Err(err).Str("story_id", req.StoryID).Msg("failed to generate cover image")
		o.emit(emit, story.EventError, story.ErrorPayload{Key: story.CoverKey, Error: err.Error()})
	} else {
		o.persist(ctx, req, story.CoverKey, req.Title(), image, seed)
		o.emit(emit, story.EventCover, story.CoverPayload{
			Title: req.Title(),
			Image: base64.StdEncoding.EncodeToString(image),
		})
	}

	// GeneratingScenes, in scene-key order
	for _, sceneKey := range story.SceneKeys(req.Story) {
		sceneText := req.Story[sceneKey]
		scenePrompt := buildScenePrompt(req, sceneText)

		image, err := o.generateItem(ctx, req, sceneKey, scenePrompt, seed)
		if err != nil {
			log.Error().Err(err).
				Str("story_id", req.StoryID).
				Str("scene", sceneKey).
				Msg("failed to generate scene image")
			o.emit(emit, story.EventError, story.ErrorPayload{Key: sceneKey, Error: err.Error()})
			continue
		}

		o.persist(ctx, req, sceneKey, sceneText, image, seed)
		o.emit(emit, story.EventScene, story.ScenePayload{
			Key:   sceneKey,
			Text:  sceneText,
			Image: base64.StdEncoding.EncodeToString(image),
		})
	}

	// Done
	o.emitDone(emit)
	return nil
}

// resolveSeed returns the story's pinned seed, drawing and pinning a fresh
// one on first run. Artifact cache keys embed the seed, so re-running a
// story must reuse it for the cache to ever hit.
func (o *Orchestrator) resolveSeed(ctx context.Context, storyID string) int64 {
	if o.cache == nil {
		return o.seedFn()
	}

	key := cache.SeedCacheKey(storyID)
	if raw, err := o.cache.GetBytes(ctx, key); err == nil && len(raw) > 0 {
		if seed, perr := strconv.ParseInt(string(raw), 10, 64); perr == nil {
			log.Debug().Str("story_id", storyID).Int64("seed", seed).Msg("reusing pinned seed")
			return seed
		}
	}

	seed := o.seedFn()
	if err := o.cache.SetBytes(ctx, key, []byte(strconv.FormatInt(seed, 10)), cache.ArtifactCacheTTL); err != nil {
		log.Debug().Err(err).Str("story_id", storyID).Msg("seed pin write failed")
	}
	return seed
}

// generateItem produces one artifact image, consulting the artifact cache
// first so a reconnecting client does not spend provider quota twice
func (o *Orchestrator) generateItem(ctx context.Context, req *story.Request, itemKey, prompt string, seed int64) ([]byte, error) {
	if o.cache != nil {
		cacheKey := cache.ArtifactCacheKey(req.StoryID, itemKey, seed)
		if image, err := o.cache.GetBytes(ctx, cacheKey); err == nil && len(image) > 0 {
			log.Debug().Str("story_id", req.StoryID).Str("item", itemKey).Msg("artifact cache hit")
			return image, nil
		}
	}

	image, err := o.generator.Generate(ctx, prompt, seed, imagegen.GenContext{
		UserID:  req.UserID,
		StoryID: req.StoryID,
		ItemKey: itemKey,
	})
	if err != nil {
		return nil, err
	}

	if o.cache != nil {
		cacheKey := cache.ArtifactCacheKey(req.StoryID, itemKey, seed)
		if err := o.cache.SetBytes(ctx, cacheKey, image, cache.ArtifactCacheTTL); err != nil {
			log.Debug().Err(err).Str("item", itemKey).Msg("artifact cache write failed")
		}
	}

	return image, nil
}

// persist saves the artifact to blob storage and the fragment record to the
// story store. Both are best-effort: failures are logged and never surface
// to the client or halt generation.
func (o *Orchestrator) persist(ctx context.Context, req *story.Request, itemKey, text string, image []byte, seed int64) {
	var imageKey string

	if o.artifacts != nil {
		key := storage.ArtifactKey(req.UserID, req.StoryID, itemKey)
		if _, err := o.artifacts.Upload(ctx, key, bytes.NewReader(image), "image/png"); err != nil {
			log.Warn().Err(err).
				Str("story_id", req.StoryID).
				Str("item", itemKey).
				Msg("artifact upload failed, continuing")
		} else {
			imageKey = key
		}
	}

	if o.fragments == nil {
		return
	}

	fragment := &story.Fragment{
		UserID:   req.UserID,
		StoryID:  req.StoryID,
		Key:      itemKey,
		Text:     text,
		ImageKey: imageKey,
		Genre:    req.Genre,
		Tone:     req.Tone,
		Audience: req.Audience,
		Seed:     seed,
	}
	if err := o.fragments.Upsert(ctx, fragment); err != nil {
		log.Warn().Err(err).
			Str("story_id", req.StoryID).
			Str("item", itemKey).
			Msg("fragment save failed, continuing")
	}
}

// emit writes one event; a failed write means the client is gone, which
// must not crash the run
func (o *Orchestrator) emit(emitter Emitter, event string, data any) {
	if err := emitter.Emit(event, data); err != nil {
		log.Debug().Err(err).Str("event", event).Msg("event write failed, client likely disconnected")
	}
}

func (o *Orchestrator) emitDone(emitter Emitter) {
	o.emit(emitter, story.EventDone, story.DonePayload{Message: story.DoneMessage})
}
