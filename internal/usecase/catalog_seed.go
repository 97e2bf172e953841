package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/domain/entity"
	domainErrors "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/domain/errors"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/logger"
)

// MaxSeedAttempts bounds the number of full passes Seed makes.
const MaxSeedAttempts = 10

const pictureBaseURI = "http://catalogbaseurltobereplaced/images/products/"

// SeedRecorder receives the result of every attempt and of the whole run.
type SeedRecorder interface {
	RecordSeedAttempt(err error)
	RecordSeedOutcome(err error)
}

type nopSeedRecorder struct{}

func (nopSeedRecorder) RecordSeedAttempt(error) {}
func (nopSeedRecorder) RecordSeedOutcome(error) {}

// CatalogSeeder fills empty catalog tables with the preconfigured rows.
// It must not run concurrently against the same store: the emptiness checks
// are not isolated from each other.
type CatalogSeeder struct {
	repo        CatalogRepository
	log         logger.Logger
	recorder    SeedRecorder
	maxAttempts int
}

func NewCatalogSeeder(repo CatalogRepository, log logger.Logger, recorder SeedRecorder) *CatalogSeeder {
	if recorder == nil {
		recorder = nopSeedRecorder{}
	}
	return &CatalogSeeder{
		repo:        repo,
		log:         log.With(logger.String("component", "catalog_seed")),
		recorder:    recorder,
		maxAttempts: MaxSeedAttempts,
	}
}

// Seed runs full passes over brands, types and items until one succeeds or
// MaxSeedAttempts passes have failed. A failed pass is logged and the next
// one starts again from brands. When every pass fails the returned error
// wraps ErrSeedAttemptsExhausted and the last failure.
func (s *CatalogSeeder) Seed(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err := s.seedOnce(ctx)
		s.recorder.RecordSeedAttempt(err)
		if err == nil {
			s.recorder.RecordSeedOutcome(nil)
			return nil
		}

		lastErr = err
		s.log.Error("catalog seed attempt failed",
			logger.Int("attempt", attempt),
			logger.Error(err),
		)
	}

	err := fmt.Errorf("%w after %d attempts: %w", domainErrors.ErrSeedAttemptsExhausted, s.maxAttempts, lastErr)
	s.recorder.RecordSeedOutcome(err)
	return err
}

func (s *CatalogSeeder) seedOnce(ctx context.Context) error {
	brandCount, err := s.repo.CountBrands(ctx)
	if err != nil {
		return fmt.Errorf("count brands: %w", err)
	}
	if brandCount == 0 {
		brands, err := newBrands(brandSeeds)
		if err != nil {
			return err
		}
		if err := s.repo.CreateBrands(ctx, brands); err != nil {
			return fmt.Errorf("create brands: %w", err)
		}
		s.log.Info("seeded catalog brands", logger.Int("count", len(brands)))
	}

	typeCount, err := s.repo.CountTypes(ctx)
	if err != nil {
		return fmt.Errorf("count types: %w", err)
	}
	if typeCount == 0 {
		types, err := newTypes(typeSeeds)
		if err != nil {
			return err
		}
		if err := s.repo.CreateTypes(ctx, types); err != nil {
			return fmt.Errorf("create types: %w", err)
		}
		s.log.Info("seeded catalog types", logger.Int("count", len(types)))
	}

	itemCount, err := s.repo.CountItems(ctx)
	if err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	if itemCount == 0 {
		brands, err := s.repo.FindAllBrands(ctx)
		if err != nil {
			return fmt.Errorf("load brands: %w", err)
		}
		types, err := s.repo.FindAllTypes(ctx)
		if err != nil {
			return fmt.Errorf("load types: %w", err)
		}
		items, err := preconfiguredItems(brands, types)
		if err != nil {
			return err
		}
		if err := s.repo.CreateItems(ctx, items); err != nil {
			return fmt.Errorf("create items: %w", err)
		}
		s.log.Info("seeded catalog items", logger.Int("count", len(items)))
	}

	return nil
}

var (
	brandSeeds = []string{"Azure", "Visual Studio", "AWS", "Other"}
	typeSeeds  = []string{"Mug", "Wearables", "Office Supplies", "Bag", "USB Memory Stick"}
)

func newBrands(names []string) ([]*entity.CatalogBrand, error) {
	brands := make([]*entity.CatalogBrand, 0, len(names))
	for _, name := range names {
		b, err := entity.NewCatalogBrand(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domainErrors.ErrInvalidInput, err.Error())
		}
		brands = append(brands, b)
	}
	return brands, nil
}

func newTypes(names []string) ([]*entity.CatalogType, error) {
	types := make([]*entity.CatalogType, 0, len(names))
	for _, name := range names {
		ct, err := entity.NewCatalogType(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domainErrors.ErrInvalidInput, err.Error())
		}
		types = append(types, ct)
	}
	return types, nil
}

// itemSeed refers to its type and brand by 1-based position in the
// preconfigured lists.
type itemSeed struct {
	typePos     int
	brandPos    int
	name        string
	description string
	price       string
	picture     int
}

var itemSeeds = []itemSeed{
	{3, 3, "Pen", "Pen", "19.5", 1},
	{2, 2, "Bring the Energy", "Bring the Energy", "8.50", 2},
	{1, 1, "Purple Tumbler", "Purple Tumber", "12", 3},
	{3, 3, "Planner", "Planner", "12", 4},
	{2, 2, "Little Disruptor", "Little Disruptor", "8.5", 5},
	{5, 4, "USB FlashDisk", "USB FlashDisk", "12", 6},
	{2, 2, "Socks", "Socks", "12", 7},
	{1, 1, "White Tumbler", "White Tumbler", "8.5", 8},
	{4, 4, "Tote bag", "Tote bag", "12", 9},
	{2, 2, "Accenture T-shirt", "Accenture T-shirt", "12", 10},
	{1, 1, "Glass Tumbler", "Glass Tumbler", "8.5", 11},
	{3, 3, "UV Sanitizer", "UV Sanitizer", "12", 12},
}

// preconfiguredItems resolves every seed position against the stored rows,
// which are ordered by ID.
func preconfiguredItems(brands []*entity.CatalogBrand, types []*entity.CatalogType) ([]*entity.CatalogItem, error) {
	items := make([]*entity.CatalogItem, 0, len(itemSeeds))
	for _, seed := range itemSeeds {
		if seed.brandPos < 1 || seed.brandPos > len(brands) {
			return nil, fmt.Errorf("item %q references brand %d but the store has %d brands", seed.name, seed.brandPos, len(brands))
		}
		if seed.typePos < 1 || seed.typePos > len(types) {
			return nil, fmt.Errorf("item %q references type %d but the store has %d types", seed.name, seed.typePos, len(types))
		}

		price, err := decimal.NewFromString(seed.price)
		if err != nil {
			return nil, fmt.Errorf("item %q price: %w", seed.name, err)
		}

		item, err := entity.NewCatalogItem(
			seed.name,
			seed.description,
			price,
			fmt.Sprintf("%s%d.png", pictureBaseURI, seed.picture),
			types[seed.typePos-1].ID,
			brands[seed.brandPos-1].ID,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: item %q: %s", domainErrors.ErrInvalidInput, seed.name, err.Error())
		}
		items = append(items, item)
	}
	return items, nil
}
