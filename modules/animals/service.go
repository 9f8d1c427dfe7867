package animals

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"path"

	"github.com/dmitrymomot/formkit/pkg/binder"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/ratelimiter"
	"github.com/dmitrymomot/formkit/pkg/storage"
)

// ErrEncodeImage is returned when an accepted image cannot be re-encoded.
var ErrEncodeImage = errors.New("failed to encode image")

// Dir is the storage prefix for accepted images.
const Dir = "animals"

// Result is the outcome of classifying one request.
type Result struct {
	Animal bool            `json:"animal"`
	Stored *storage.Object `json:"-"`
}

// Service classifies animal uploads and stores the images of accepted ones.
type Service struct {
	store       storage.Storage
	log         *slog.Logger
	maxBodySize int64
	limit       func(http.Handler) http.Handler
	upload      *binder.Schema[IsAnimalRequest]
	form        *binder.Schema[FormRequest]
}

// Option configures Service.
type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithLimits sets the decoding limits for both endpoints.
func WithLimits(cfg binder.Config) Option {
	return func(s *Service) {
		s.upload = s.upload.WithConfig(cfg)
		s.form = s.form.WithConfig(cfg)
	}
}

// WithMaxBodySize caps whole request bodies. Zero disables the cap.
func WithMaxBodySize(n int64) Option {
	return func(s *Service) { s.maxBodySize = n }
}

// WithRateLimit throttles both endpoints with bucket, keyed by key.
func WithRateLimit(bucket *ratelimiter.Bucket, key ratelimiter.KeyFunc) Option {
	return func(s *Service) {
		s.limit = ratelimiter.Middleware(bucket, ratelimiter.Prefixed(Dir, key))
	}
}

// NewService returns a Service persisting accepted images to store.
func NewService(store storage.Storage, opts ...Option) *Service {
	s := &Service{
		store:  store,
		log:    slog.New(slog.DiscardHandler),
		upload: isAnimalSchema(),
		form:   formSchema(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("animals"))
	s.upload = s.upload.WithLogger(s.log)
	s.form = s.form.WithLogger(s.log)
	return s
}

// Classify answers whether req describes a dog or a cat and, if so, stores
// the image as PNG under Dir using the sanitized client filename.
func (s *Service) Classify(ctx context.Context, req IsAnimalRequest) (Result, error) {
	if !req.AnimalDesc.IsAnimal() {
		s.log.DebugContext(ctx, "not an animal", slog.String("kind", req.AnimalDesc.Kind))
		return Result{}, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, req.Img.Inner); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrEncodeImage, err)
	}

	key := path.Join(Dir, req.Img.SafeName())
	obj, err := s.store.Save(ctx, key, &buf, "image/png")
	if err != nil {
		return Result{}, fmt.Errorf("store %s: %w", key, err)
	}

	s.log.InfoContext(ctx, "animal stored",
		logger.Filename(req.Img.Name),
		logger.Path(obj.Path),
		logger.Bytes(obj.Size),
		slog.String("sha256", obj.SHA256),
	)
	return Result{Animal: true, Stored: obj}, nil
}

// Ready checks that the storage backend accepts writes.
func (s *Service) Ready(ctx context.Context) error {
	_, err := s.store.Save(ctx, path.Join(Dir, ".ready"), bytes.NewReader(nil), "text/plain")
	return err
}
