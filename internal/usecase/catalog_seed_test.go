package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/domain/entity"
	domainErrors "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/domain/errors"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/logger"
)

const attemptFailedMsg = "catalog seed attempt failed"

// memoryCatalogRepository is an in-memory store with auto-increment IDs.
// fail, when set, is consulted before every operation.
type memoryCatalogRepository struct {
	mu     sync.Mutex
	brands []*entity.CatalogBrand
	types  []*entity.CatalogType
	items  []*entity.CatalogItem
	nextID int64
	calls  map[string]int
	fail   func(op string, call int) error
}

func newMemoryCatalogRepository() *memoryCatalogRepository {
	return &memoryCatalogRepository{calls: map[string]int{}}
}

func (r *memoryCatalogRepository) check(op string) error {
	r.calls[op]++
	if r.fail != nil {
		return r.fail(op, r.calls[op])
	}
	return nil
}

func (r *memoryCatalogRepository) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *memoryCatalogRepository) CountBrands(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("CountBrands"); err != nil {
		return 0, err
	}
	return len(r.brands), nil
}

func (r *memoryCatalogRepository) CreateBrands(ctx context.Context, brands []*entity.CatalogBrand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("CreateBrands"); err != nil {
		return err
	}
	for _, b := range brands {
		b.ID = r.id()
		r.brands = append(r.brands, b)
	}
	return nil
}

func (r *memoryCatalogRepository) FindAllBrands(ctx context.Context) ([]*entity.CatalogBrand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("FindAllBrands"); err != nil {
		return nil, err
	}
	return append([]*entity.CatalogBrand(nil), r.brands...), nil
}

func (r *memoryCatalogRepository) CountTypes(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("CountTypes"); err != nil {
		return 0, err
	}
	return len(r.types), nil
}

func (r *memoryCatalogRepository) CreateTypes(ctx context.Context, types []*entity.CatalogType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("CreateTypes"); err != nil {
		return err
	}
	for _, ct := range types {
		ct.ID = r.id()
		r.types = append(r.types, ct)
	}
	return nil
}

func (r *memoryCatalogRepository) FindAllTypes(ctx context.Context) ([]*entity.CatalogType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("FindAllTypes"); err != nil {
		return nil, err
	}
	return append([]*entity.CatalogType(nil), r.types...), nil
}

func (r *memoryCatalogRepository) CountItems(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("CountItems"); err != nil {
		return 0, err
	}
	return len(r.items), nil
}

func (r *memoryCatalogRepository) CreateItems(ctx context.Context, items []*entity.CatalogItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("CreateItems"); err != nil {
		return err
	}
	for _, it := range items {
		it.ID = r.id()
		r.items = append(r.items, it)
	}
	return nil
}

func (r *memoryCatalogRepository) FindAllItems(ctx context.Context) ([]*entity.CatalogItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.CatalogItem(nil), r.items...), nil
}

func (r *memoryCatalogRepository) FindItemByID(ctx context.Context, id int64) (*entity.CatalogItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, domainErrors.ErrItemNotFound
}

func observedLogger() (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.FromZap(zap.New(core)), logs
}

func brandNames(brands []*entity.CatalogBrand) []string {
	names := make([]string, 0, len(brands))
	for _, b := range brands {
		names = append(names, b.Brand)
	}
	return names
}

func typeNames(types []*entity.CatalogType) []string {
	names := make([]string, 0, len(types))
	for _, ct := range types {
		names = append(names, ct.Type)
	}
	return names
}

type recordingSeedRecorder struct {
	attempts []error
	outcomes []error
}

func (r *recordingSeedRecorder) RecordSeedAttempt(err error) { r.attempts = append(r.attempts, err) }
func (r *recordingSeedRecorder) RecordSeedOutcome(err error) { r.outcomes = append(r.outcomes, err) }

func TestCatalogSeeder_SeedsEmptyStore(t *testing.T) {
	repo := newMemoryCatalogRepository()
	recorder := &recordingSeedRecorder{}

	err := NewCatalogSeeder(repo, logger.NewNop(), recorder).Seed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Azure", "Visual Studio", "AWS", "Other"}, brandNames(repo.brands))
	assert.Equal(t, []string{"Mug", "Wearables", "Office Supplies", "Bag", "USB Memory Stick"}, typeNames(repo.types))
	require.Len(t, repo.items, 12)

	pen := repo.items[0]
	assert.Equal(t, "Pen", pen.Name)
	assert.True(t, decimal.RequireFromString("19.5").Equal(pen.Price))
	assert.Equal(t, "http://catalogbaseurltobereplaced/images/products/1.png", pen.PictureURI)
	assert.Equal(t, repo.types[2].ID, pen.CatalogTypeID)
	assert.Equal(t, repo.brands[2].ID, pen.CatalogBrandID)
	assert.Equal(t, "Office Supplies", repo.types[2].Type)
	assert.Equal(t, "AWS", repo.brands[2].Brand)

	usb := repo.items[5]
	assert.Equal(t, "USB FlashDisk", usb.Name)
	assert.Equal(t, repo.types[4].ID, usb.CatalogTypeID)
	assert.Equal(t, repo.brands[3].ID, usb.CatalogBrandID)

	assert.Equal(t, []error{nil}, recorder.attempts)
	assert.Equal(t, []error{nil}, recorder.outcomes)
}

func TestCatalogSeeder_ReferentialIntegrity(t *testing.T) {
	repo := newMemoryCatalogRepository()
	require.NoError(t, NewCatalogSeeder(repo, logger.NewNop(), nil).Seed(context.Background()))

	brandIDs := map[int64]bool{}
	for _, b := range repo.brands {
		brandIDs[b.ID] = true
	}
	typeIDs := map[int64]bool{}
	for _, ct := range repo.types {
		typeIDs[ct.ID] = true
	}

	for _, item := range repo.items {
		assert.True(t, brandIDs[item.CatalogBrandID], "item %q brand %d does not resolve", item.Name, item.CatalogBrandID)
		assert.True(t, typeIDs[item.CatalogTypeID], "item %q type %d does not resolve", item.Name, item.CatalogTypeID)
		assert.False(t, item.Price.IsNegative())
	}
}

func TestCatalogSeeder_Idempotent(t *testing.T) {
	repo := newMemoryCatalogRepository()
	seeder := NewCatalogSeeder(repo, logger.NewNop(), nil)

	require.NoError(t, seeder.Seed(context.Background()))
	require.NoError(t, seeder.Seed(context.Background()))

	assert.Len(t, repo.brands, 4)
	assert.Len(t, repo.types, 5)
	assert.Len(t, repo.items, 12)
	assert.Equal(t, 1, repo.calls["CreateBrands"])
	assert.Equal(t, 1, repo.calls["CreateTypes"])
	assert.Equal(t, 1, repo.calls["CreateItems"])
}

func TestCatalogSeeder_CompletesPartialState(t *testing.T) {
	repo := newMemoryCatalogRepository()
	existing := []*entity.CatalogBrand{{Brand: "Azure"}, {Brand: "Visual Studio"}, {Brand: "AWS"}, {Brand: "Other"}}
	require.NoError(t, repo.CreateBrands(context.Background(), existing))
	before := append([]*entity.CatalogBrand(nil), repo.brands...)

	err := NewCatalogSeeder(repo, logger.NewNop(), nil).Seed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, before, repo.brands)
	assert.Equal(t, 1, repo.calls["CreateBrands"])
	assert.Len(t, repo.types, 5)
	assert.Len(t, repo.items, 12)
	assert.Equal(t, before[2].ID, repo.items[0].CatalogBrandID)
}

func TestCatalogSeeder_RetryBound(t *testing.T) {
	repo := newMemoryCatalogRepository()
	storeDown := errors.New("connection refused")
	repo.fail = func(op string, call int) error {
		if op == "CreateBrands" {
			return storeDown
		}
		return nil
	}
	log, logs := observedLogger()
	recorder := &recordingSeedRecorder{}

	var err error
	assert.NotPanics(t, func() {
		err = NewCatalogSeeder(repo, log, recorder).Seed(context.Background())
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainErrors.ErrSeedAttemptsExhausted)
	assert.ErrorIs(t, err, storeDown)
	assert.Equal(t, MaxSeedAttempts, repo.calls["CreateBrands"])
	assert.Equal(t, MaxSeedAttempts, logs.FilterMessage(attemptFailedMsg).Len())
	assert.Len(t, recorder.attempts, MaxSeedAttempts)
	require.Len(t, recorder.outcomes, 1)
	assert.ErrorIs(t, recorder.outcomes[0], domainErrors.ErrSeedAttemptsExhausted)

	// A failing brand insert aborts the rest of every attempt.
	assert.Zero(t, repo.calls["CountTypes"])
	assert.Zero(t, repo.calls["CountItems"])
}

func TestCatalogSeeder_RecoversFromTransientFailure(t *testing.T) {
	repo := newMemoryCatalogRepository()
	repo.fail = func(op string, call int) error {
		if op == "CreateTypes" && call <= 2 {
			return errors.New("deadlock found when trying to get lock")
		}
		return nil
	}
	log, logs := observedLogger()

	err := NewCatalogSeeder(repo, log, nil).Seed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, logs.FilterMessage(attemptFailedMsg).Len())
	// Every retry restarts from brands, which are already committed.
	assert.Equal(t, 3, repo.calls["CountBrands"])
	assert.Equal(t, 1, repo.calls["CreateBrands"])
	assert.Len(t, repo.brands, 4)
	assert.Len(t, repo.types, 5)
	assert.Len(t, repo.items, 12)

	attempts := logs.FilterMessage(attemptFailedMsg).All()
	assert.EqualValues(t, 1, attempts[0].ContextMap()["attempt"])
	assert.EqualValues(t, 2, attempts[1].ContextMap()["attempt"])
}

func TestCatalogSeeder_UnresolvableReferenceFailsAttempt(t *testing.T) {
	repo := newMemoryCatalogRepository()
	require.NoError(t, repo.CreateBrands(context.Background(), []*entity.CatalogBrand{{Brand: "Azure"}}))
	log, logs := observedLogger()

	err := NewCatalogSeeder(repo, log, nil).Seed(context.Background())

	assert.ErrorIs(t, err, domainErrors.ErrSeedAttemptsExhausted)
	assert.Contains(t, err.Error(), "references brand")
	assert.Empty(t, repo.items)
	assert.Len(t, repo.types, 5)
	assert.Equal(t, MaxSeedAttempts, logs.FilterMessage(attemptFailedMsg).Len())
}

func TestCatalogSeeder_CountErrorUsesMock(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	mockRepo.On("CountBrands", mock.Anything).Return(0, domainErrors.ErrDatabaseError).Times(MaxSeedAttempts)

	err := NewCatalogSeeder(mockRepo, logger.NewNop(), nil).Seed(context.Background())

	assert.ErrorIs(t, err, domainErrors.ErrDatabaseError)
	assert.ErrorIs(t, err, domainErrors.ErrSeedAttemptsExhausted)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "CreateBrands", mock.Anything, mock.Anything)
}

func TestPreconfiguredItems_Fixtures(t *testing.T) {
	brands := []*entity.CatalogBrand{{ID: 10}, {ID: 11}, {ID: 12}, {ID: 13}}
	types := []*entity.CatalogType{{ID: 20}, {ID: 21}, {ID: 22}, {ID: 23}, {ID: 24}}

	items, err := preconfiguredItems(brands, types)
	require.NoError(t, err)
	require.Len(t, items, 12)

	assert.Equal(t, "Bring the Energy", items[1].Name)
	assert.True(t, decimal.RequireFromString("8.50").Equal(items[1].Price))
	assert.Equal(t, int64(21), items[1].CatalogTypeID)
	assert.Equal(t, int64(11), items[1].CatalogBrandID)
	assert.Equal(t, "UV Sanitizer", items[11].Name)
	assert.Equal(t, "http://catalogbaseurltobereplaced/images/products/12.png", items[11].PictureURI)
}

func TestNewBrandsAndTypes(t *testing.T) {
	t.Run("正常系: 固定値から生成", func(t *testing.T) {
		brands, err := newBrands(brandSeeds)
		require.NoError(t, err)
		require.Len(t, brands, 4)
		assert.Equal(t, "Visual Studio", brands[1].Brand)
		assert.Zero(t, brands[1].ID)

		types, err := newTypes(typeSeeds)
		require.NoError(t, err)
		require.Len(t, types, 5)
		assert.Equal(t, "USB Memory Stick", types[4].Type)
	})

	t.Run("異常系: 空の名前は拒否", func(t *testing.T) {
		_, err := newBrands([]string{"Azure", " "})
		assert.ErrorIs(t, err, domainErrors.ErrInvalidInput)

		_, err = newTypes([]string{""})
		assert.ErrorIs(t, err, domainErrors.ErrInvalidInput)
	})
}
