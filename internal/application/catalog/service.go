// Package catalog provides the application layer for the recipe catalog.
// It owns the ordered recipe sequence and implements the inbound CatalogService port.
package catalog

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/alchemorsel/recipebook/internal/domain/recipe"
	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/alchemorsel/recipebook/internal/ports/outbound"
	"github.com/alchemorsel/recipebook/pkg/errors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var _ inbound.CatalogService = (*Service)(nil)

// Service implements the catalog use cases.
// recipes is guarded by mu; queries scan a stable snapshot under the read lock.
// writeMu serializes Load, Reload and Add so a reload never swaps in a read
// that misses a record appended meanwhile.
type Service struct {
	store    outbound.RecordStore
	metrics  outbound.MetricsRecorder
	validate *validator.Validate
	logger   *zap.Logger

	randMu sync.Mutex
	random outbound.RandomSource

	writeMu sync.Mutex

	mu      sync.RWMutex
	recipes []recipe.Recipe
}

// Option configures a Service
type Option func(*Service)

// WithRandomSource sets the source used by RandomSuggestion
func WithRandomSource(src outbound.RandomSource) Option {
	return func(s *Service) {
		s.random = src
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m outbound.MetricsRecorder) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates an empty catalog backed by store
func NewService(store outbound.RecordStore, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		metrics:  outbound.NopMetrics{},
		validate: newValidator(),
		logger:   logger.Named("catalog"),
		random:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load reads every record from the backing store and appends the well-formed ones
func (s *Service) Load(ctx context.Context) (*inbound.LoadReport, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	lines, err := s.store.ReadAllLines(ctx)
	if err != nil {
		return nil, errors.NewStorageError("read records", err)
	}

	return s.LoadRecords(lines), nil
}

// LoadRecords parses raw lines in order and appends every well-formed recipe.
// Malformed lines are skipped and reported, never fatal.
func (s *Service) LoadRecords(lines []string) *inbound.LoadReport {
	parsed, report := s.parse(lines)

	s.mu.Lock()
	s.recipes = append(s.recipes, parsed...)
	size := len(s.recipes)
	s.mu.Unlock()

	s.metrics.CatalogSize(size)

	s.logger.Info("Catalog loaded",
		zap.Int("loaded", report.Loaded),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("size", size),
	)

	return report
}

// Reload re-reads the backing store and replaces the whole sequence
func (s *Service) Reload(ctx context.Context) (*inbound.LoadReport, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	lines, err := s.store.ReadAllLines(ctx)
	if err != nil {
		return nil, errors.NewStorageError("read records", err)
	}

	parsed, report := s.parse(lines)

	s.mu.Lock()
	s.recipes = parsed
	s.mu.Unlock()

	s.metrics.CatalogSize(len(parsed))

	s.logger.Info("Catalog reloaded",
		zap.Int("loaded", report.Loaded),
		zap.Int("skipped", len(report.Skipped)),
	)

	return report, nil
}

// Add validates a new recipe, appends its record to the backing store and then to the catalog.
// When the write fails the catalog is left untouched.
func (s *Service) Add(ctx context.Context, cmd inbound.AddRecipeCommand) (*inbound.RecipeDTO, error) {
	s.logger.Info("Adding recipe",
		zap.String("name", cmd.Name),
		zap.String("category", cmd.Category),
	)

	if err := s.validateCommand(cmd); err != nil {
		return nil, err
	}

	r, err := recipe.New(cmd.Name, cmd.Ingredients, cmd.Calories, cmd.Category)
	if err != nil {
		return nil, errors.NewBadRequestError(err.Error()).WithCause(err)
	}

	line := recipe.FormatRecord(r)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.AppendLine(ctx, line); err != nil {
		return nil, errors.NewStorageError("append record", err)
	}

	s.mu.Lock()
	s.recipes = append(s.recipes, r)
	size := len(s.recipes)
	s.mu.Unlock()

	s.metrics.RecipeAdded()
	s.metrics.CatalogSize(size)

	s.logger.Info("Recipe added successfully",
		zap.String("name", r.Name()),
		zap.Int("size", size),
	)

	dto := toDTO(r)
	return &dto, nil
}

// All returns every recipe in catalog order
func (s *Service) All() []inbound.RecipeDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return toDTOs(s.recipes)
}

// Len returns the number of recipes in the catalog
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.recipes)
}

// parse turns raw lines into recipes, skipping blank lines and collecting malformed ones
func (s *Service) parse(lines []string) ([]recipe.Recipe, *inbound.LoadReport) {
	report := &inbound.LoadReport{}
	parsed := make([]recipe.Recipe, 0, len(lines))

	for i, line := range lines {
		if recipe.IsBlankRecord(line) {
			continue
		}

		r, err := recipe.ParseRecord(line)
		if err != nil {
			skipped := skippedRecord(i+1, line, err)
			report.Skipped = append(report.Skipped, skipped)

			s.logger.Warn("Skipping malformed record",
				zap.Int("line", skipped.Line),
				zap.String("raw", line),
				zap.Error(skipped.Err),
			)
			continue
		}

		parsed = append(parsed, r)
	}

	report.Loaded = len(parsed)
	if len(report.Skipped) > 0 {
		s.metrics.RecordsSkipped(len(report.Skipped))
	}

	return parsed, report
}

func skippedRecord(line int, raw string, err error) inbound.SkippedRecord {
	if malformed, ok := err.(*recipe.MalformedRecordError); ok {
		malformed.Line = line
	}

	return inbound.SkippedRecord{
		Line:   line,
		Raw:    raw,
		Reason: err.Error(),
		Err:    errors.NewMalformedRecordError(line, err),
	}
}

func toDTO(r recipe.Recipe) inbound.RecipeDTO {
	ingredients := r.Ingredients()
	if ingredients == nil {
		ingredients = []string{}
	}

	return inbound.RecipeDTO{
		Name:            r.Name(),
		Ingredients:     ingredients,
		IngredientCount: r.IngredientCount(),
		Calories:        r.Calories(),
		Category:        r.Category(),
	}
}

func toDTOs(recipes []recipe.Recipe) []inbound.RecipeDTO {
	dtos := make([]inbound.RecipeDTO, len(recipes))
	for i, r := range recipes {
		dtos[i] = toDTO(r)
	}
	return dtos
}
