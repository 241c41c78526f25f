package inventory

// Fakes en memoria para los casos de uso. El fake de stock reproduce la
// semántica de la escritura condicional (éxito solo si quantity+delta >=
// minResulting, evaluado bajo lock), que es lo único que importa para los
// tests de concurrencia.

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// --- stock ---

type memStockRepo struct {
	mu         sync.Mutex
	quantities map[string]int
}

func newMemStockRepo(quantities map[string]int) *memStockRepo {
	return &memStockRepo{quantities: quantities}
}

func (r *memStockRepo) Adjust(_ context.Context, variantID string, delta, minResulting int) (repository.AdjustResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.quantities[variantID]
	if !ok {
		return repository.AdjustResult{}, domain.ErrVariantNotFound
	}
	if current+delta < minResulting {
		return repository.AdjustResult{Success: false}, nil
	}
	r.quantities[variantID] = current + delta
	return repository.AdjustResult{
		Success:          true,
		PreviousQuantity: current,
		NewQuantity:      current + delta,
	}, nil
}

func (r *memStockRepo) GetQuantity(_ context.Context, variantID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quantities[variantID]
	if !ok {
		return 0, domain.ErrVariantNotFound
	}
	return q, nil
}

// --- historial ---

type memHistoryRepo struct {
	mu      sync.Mutex
	records []*entity.InventoryHistory
}

func (r *memHistoryRepo) Append(_ context.Context, record *entity.InventoryHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := *record
	rec.ID = fmt.Sprintf("h%d", len(r.records)+1)
	record.ID = rec.ID
	r.records = append(r.records, &rec)
	return nil
}

func (r *memHistoryRepo) ListByProduct(_ context.Context, productID, variantID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.InventoryHistory
	for _, rec := range r.records {
		if rec.ProductID != productID {
			continue
		}
		if variantID != "" && rec.VariantID != variantID {
			continue
		}
		out = append(out, rec)
	}
	if offset < len(out) {
		out = out[offset:]
	} else {
		out = nil
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memHistoryRepo) Turnover(_ context.Context, from, to time.Time) ([]repository.TurnoverRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	agg := make(map[string]*repository.TurnoverRow)
	for _, rec := range r.records {
		if rec.CreatedAt.Before(from) || rec.CreatedAt.After(to) {
			continue
		}
		key := rec.ProductID + "|" + rec.VariantID + "|" + rec.Reason
		row, ok := agg[key]
		if !ok {
			row = &repository.TurnoverRow{ProductID: rec.ProductID, VariantID: rec.VariantID, Reason: rec.Reason}
			agg[key] = row
		}
		row.Movements++
		row.TotalDelta += rec.Adjustment
	}
	out := make([]repository.TurnoverRow, 0, len(agg))
	for _, row := range agg {
		out = append(out, *row)
	}
	return out, nil
}

func (r *memHistoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// --- tx runner ---

// memTxRunner pasa los fakes directamente; failures inyecta errores (en orden)
// antes de ejecutar fn, para ejercitar el coordinador de reintentos.
type memTxRunner struct {
	mu       sync.Mutex
	stock    *memStockRepo
	history  *memHistoryRepo
	failures []error
	runs     int
}

func (t *memTxRunner) Run(_ context.Context, fn func(repository.StockRepository, repository.InventoryHistoryRepository) error) error {
	t.mu.Lock()
	t.runs++
	var injected error
	if len(t.failures) > 0 {
		injected = t.failures[0]
		t.failures = t.failures[1:]
	}
	t.mu.Unlock()
	if injected != nil {
		return injected
	}
	return fn(t.stock, t.history)
}

// --- reservas ---

type memReservationRepo struct {
	mu           sync.Mutex
	reservations []*entity.Reservation
	nextID       int
	sumErr       error
}

func (r *memReservationRepo) Upsert(_ context.Context, res *entity.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reservations {
		if existing.SessionID == res.SessionID && existing.ProductID == res.ProductID && existing.VariantID == res.VariantID {
			existing.Quantity = res.Quantity
			existing.Type = res.Type
			existing.ExpiresAt = res.ExpiresAt
			res.ID = existing.ID
			return nil
		}
	}
	r.nextID++
	res.ID = fmt.Sprintf("r%d", r.nextID)
	cp := *res
	r.reservations = append(r.reservations, &cp)
	return nil
}

func (r *memReservationRepo) GetByID(_ context.Context, id string) (*entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.reservations {
		if res.ID == id {
			cp := *res
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memReservationRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, res := range r.reservations {
		if res.ID == id {
			r.reservations = append(r.reservations[:i], r.reservations[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memReservationRepo) DeleteBySessionProduct(_ context.Context, sessionID, productID, variantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, res := range r.reservations {
		if res.SessionID == sessionID && res.ProductID == productID && res.VariantID == variantID {
			r.reservations = append(r.reservations[:i], r.reservations[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memReservationRepo) SumActive(_ context.Context, productID, variantID string, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sumErr != nil {
		return 0, r.sumErr
	}
	sum := 0
	for _, res := range r.reservations {
		if res.ProductID == productID && res.VariantID == variantID && res.ExpiresAt.After(now) {
			sum += res.Quantity
		}
	}
	return sum, nil
}

func (r *memReservationRepo) SumActiveBatch(_ context.Context, keys []repository.VariantKey, now time.Time) (map[repository.VariantKey]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sumErr != nil {
		return nil, r.sumErr
	}
	wanted := make(map[repository.VariantKey]struct{}, len(keys))
	for _, k := range keys {
		wanted[k] = struct{}{}
	}
	out := make(map[repository.VariantKey]int)
	for _, res := range r.reservations {
		k := repository.VariantKey{ProductID: res.ProductID, VariantID: res.VariantID}
		if _, ok := wanted[k]; ok && res.ExpiresAt.After(now) {
			out[k] += res.Quantity
		}
	}
	return out, nil
}

func (r *memReservationRepo) SumActiveTotal(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := 0
	for _, res := range r.reservations {
		if res.ExpiresAt.After(now) {
			sum += res.Quantity
		}
	}
	return sum, nil
}

func (r *memReservationRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*entity.Reservation
	var purged int64
	for _, res := range r.reservations {
		if res.ExpiresAt.After(now) {
			kept = append(kept, res)
		} else {
			purged++
		}
	}
	r.reservations = kept
	return purged, nil
}

// --- catálogo ---

type memProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
	metrics  *repository.InventoryMetrics
}

func newMemProductRepo(products ...*entity.Product) *memProductRepo {
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &memProductRepo{products: byID}
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id], nil
}

func (r *memProductRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *memProductRepo) Metrics(_ context.Context) (*repository.InventoryMetrics, error) {
	if r.metrics == nil {
		return &repository.InventoryMetrics{}, nil
	}
	return r.metrics, nil
}

func (r *memProductRepo) ListOutOfStock(_ context.Context) ([]repository.OutOfStockItem, error) {
	return nil, nil
}

// --- publisher ---

type recordPublisher struct {
	mu      sync.Mutex
	updates []entity.StockUpdate
}

func (p *recordPublisher) Publish(update entity.StockUpdate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, update)
}

func (p *recordPublisher) all() []entity.StockUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]entity.StockUpdate, len(p.updates))
	copy(out, p.updates)
	return out
}

// --- cache de display ---

type memDisplayCache struct {
	mu      sync.Mutex
	entries map[string]*InventoryInfo
	hits    int
	sets    int
}

func newMemDisplayCache() *memDisplayCache {
	return &memDisplayCache{entries: make(map[string]*InventoryInfo)}
}

func (c *memDisplayCache) GetInventory(_ context.Context, productID, variantID string) (*InventoryInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	info, ok := c.entries[productID+"|"+variantID]
	if ok {
		c.hits++
	}
	return info, ok
}

func (c *memDisplayCache) SetInventory(_ context.Context, productID, variantID string, info *InventoryInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[productID+"|"+variantID] = info
}

func (c *memDisplayCache) Invalidate(_ context.Context, productID, variantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, productID+"|"+variantID)
}
