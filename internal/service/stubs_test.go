package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/nig3l/OPTACOMP-InventorySystems/internal/model"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/repository"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/ws"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory store shared by the stub repositories ──────────────────────────

type memDB struct {
	users      map[uuid.UUID]model.User
	categories map[uuid.UUID]model.Category
	products   map[uuid.UUID]model.Product
	inventory  map[uuid.UUID]model.InventoryItem // keyed by product id
	sales      map[uuid.UUID]model.Sale
	saleItems  []model.SaleItem
	clock      func() time.Time
}

func newMemDB() *memDB {
	return &memDB{
		users:      map[uuid.UUID]model.User{},
		categories: map[uuid.UUID]model.Category{},
		products:   map[uuid.UUID]model.Product{},
		inventory:  map[uuid.UUID]model.InventoryItem{},
		sales:      map[uuid.UUID]model.Sale{},
		clock:      time.Now,
	}
}

func (m *memDB) snapshot() *memDB {
	cp := newMemDB()
	cp.clock = m.clock
	for k, v := range m.users {
		cp.users[k] = v
	}
	for k, v := range m.categories {
		cp.categories[k] = v
	}
	for k, v := range m.products {
		cp.products[k] = v
	}
	for k, v := range m.inventory {
		cp.inventory[k] = v
	}
	for k, v := range m.sales {
		cp.sales[k] = v
	}
	cp.saleItems = append(cp.saleItems, m.saleItems...)
	return cp
}

func (m *memDB) restore(s *memDB) {
	m.users, m.categories, m.products = s.users, s.categories, s.products
	m.inventory, m.sales, m.saleItems = s.inventory, s.sales, s.saleItems
}

var errUnique = &pgconn.PgError{Code: "23505"}

// stubTx rolls the store back when fn fails, like a database transaction.
type stubTx struct{ db *memDB }

func (t *stubTx) Run(_ context.Context, fn func(tx *gorm.DB) error) error {
	snap := t.db.snapshot()
	if err := fn(nil); err != nil {
		t.db.restore(snap)
		return err
	}
	return nil
}

type recordingPublisher struct{ events []ws.Event }

func (p *recordingPublisher) Publish(e ws.Event) { p.events = append(p.events, e) }

func (p *recordingPublisher) count(eventType string) int {
	n := 0
	for _, e := range p.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

// ── Users ─────────────────────────────────────────────────────────────────────

type stubUserRepo struct{ db *memDB }

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.db.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range r.db.users {
		if u.Email == user.Email {
			return errUnique
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = r.db.clock()
	r.db.users[user.ID] = *user
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *model.User) error {
	for id, u := range r.db.users {
		if id != user.ID && u.Email == user.Email {
			return errUnique
		}
	}
	r.db.users[user.ID] = *user
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := r.db.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Password = hash
	r.db.users[id] = u
	return nil
}

func (r *stubUserRepo) List(_ context.Context, skip, limit int) ([]model.User, error) {
	var all []model.User
	for _, u := range r.db.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	return page(all, skip, limit), nil
}

// ── Categories ────────────────────────────────────────────────────────────────

type stubCategoryRepo struct{ db *memDB }

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	for _, existing := range r.db.categories {
		if existing.Name == c.Name {
			return errUnique
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.db.categories[c.ID] = *c
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := r.db.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *stubCategoryRepo) List(_ context.Context, skip, limit int) ([]model.Category, error) {
	var all []model.Category
	for _, c := range r.db.categories {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, skip, limit), nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	for id, existing := range r.db.categories {
		if id != c.ID && existing.Name == c.Name {
			return errUnique
		}
	}
	r.db.categories[c.ID] = *c
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.db.categories[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.db.categories, id)
	return nil
}

func (r *stubCategoryRepo) CountProducts(_ context.Context, id uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.db.products {
		if p.CategoryID == id {
			n++
		}
	}
	return n, nil
}

// ── Products ──────────────────────────────────────────────────────────────────

type stubProductRepo struct{ db *memDB }

func (r *stubProductRepo) Create(_ context.Context, _ *gorm.DB, p *model.Product) error {
	if p.Barcode != nil {
		for _, existing := range r.db.products {
			if existing.Barcode != nil && *existing.Barcode == *p.Barcode {
				return errUnique
			}
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.db.products[p.ID] = *p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	p, ok := r.db.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *stubProductRepo) List(_ context.Context, f repository.ProductFilter) ([]model.Product, error) {
	var out []model.Product
	term := strings.ToLower(f.Search)
	for _, p := range r.db.products {
		if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.ModelNumber), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, f.Skip, f.Limit), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.db.products[p.ID] = *p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.db.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.db.products, id)
	return nil
}

// ── Inventory ─────────────────────────────────────────────────────────────────

type stubInventoryRepo struct{ db *memDB }

func (r *stubInventoryRepo) Create(_ context.Context, _ *gorm.DB, item *model.InventoryItem) error {
	if _, ok := r.db.inventory[item.ProductID]; ok {
		return errUnique
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.db.inventory[item.ProductID] = *item
	return nil
}

func (r *stubInventoryRepo) FindByProductID(_ context.Context, _ *gorm.DB, productID uuid.UUID) (*model.InventoryItem, error) {
	item, ok := r.db.inventory[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

func (r *stubInventoryRepo) FindByProductIDForUpdate(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*model.InventoryItem, error) {
	return r.FindByProductID(ctx, tx, productID)
}

func (r *stubInventoryRepo) FindByProductIDs(_ context.Context, ids []uuid.UUID) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	for _, id := range ids {
		if item, ok := r.db.inventory[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) Save(_ context.Context, _ *gorm.DB, item *model.InventoryItem) error {
	r.db.inventory[item.ProductID] = *item
	return nil
}

func (r *stubInventoryRepo) DeleteByProductID(_ context.Context, _ *gorm.DB, productID uuid.UUID) error {
	delete(r.db.inventory, productID)
	return nil
}

// ── Sales ─────────────────────────────────────────────────────────────────────

type stubSaleRepo struct{ db *memDB }

func (r *stubSaleRepo) CreateHeader(_ context.Context, _ *gorm.DB, sale *model.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = r.db.clock()
	}
	header := *sale
	header.Items = nil
	r.db.sales[sale.ID] = header
	return nil
}

func (r *stubSaleRepo) CreateItem(_ context.Context, _ *gorm.DB, item *model.SaleItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.db.saleItems = append(r.db.saleItems, *item)
	return nil
}

func (r *stubSaleRepo) MarkCommitted(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	s := r.db.sales[id]
	s.Status = model.SaleCommitted
	r.db.sales[id] = s
	return nil
}

func (r *stubSaleRepo) withItems(s model.Sale) model.Sale {
	s.Items = nil
	for _, it := range r.db.saleItems {
		if it.SaleID == s.ID {
			s.Items = append(s.Items, it)
		}
	}
	return s
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.db.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	s = r.withItems(s)
	return &s, nil
}

func (r *stubSaleRepo) List(_ context.Context, f repository.SaleFilter) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.db.sales {
		if f.From != nil && s.CreatedAt.Before(*f.From) {
			continue
		}
		if f.Until != nil && !s.CreatedAt.Before(*f.Until) {
			continue
		}
		out = append(out, r.withItems(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Skip, f.Limit), nil
}

func page[T any](all []T, skip, limit int) []T {
	if skip >= len(all) {
		return nil
	}
	all = all[skip:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}

// ── Fixture ───────────────────────────────────────────────────────────────────

type fixture struct {
	db        *memDB
	events    *recordingPublisher
	users     *stubUserRepo
	category  *stubCategoryRepo
	products  *stubProductRepo
	inventory *stubInventoryRepo
	sales     *stubSaleRepo
	tx        *stubTx
}

func newFixture() *fixture {
	db := newMemDB()
	return &fixture{
		db:        db,
		events:    &recordingPublisher{},
		users:     &stubUserRepo{db},
		category:  &stubCategoryRepo{db},
		products:  &stubProductRepo{db},
		inventory: &stubInventoryRepo{db},
		sales:     &stubSaleRepo{db},
		tx:        &stubTx{db},
	}
}

func (f *fixture) inventoryService() InventoryService {
	return NewInventoryService(f.category, f.products, f.inventory, f.tx, f.events)
}

func (f *fixture) salesService() SalesService {
	return NewSalesService(f.sales, f.products, f.inventory, f.tx, f.events)
}

func (f *fixture) seedCategory(name string) model.Category {
	c := model.Category{Name: name}
	c.ID = uuid.New()
	f.db.categories[c.ID] = c
	return c
}

// seedProduct stores a product and, when quantity >= 0, its inventory row.
func (f *fixture) seedProduct(categoryID uuid.UUID, name string, quantity int) model.Product {
	p := model.Product{
		CategoryID:   categoryID,
		Name:         name,
		CostPrice:    decimal.NewFromInt(80),
		SellingPrice: decimal.NewFromInt(100),
	}
	p.ID = uuid.New()
	f.db.products[p.ID] = p
	if quantity >= 0 {
		f.db.inventory[p.ID] = model.InventoryItem{
			ID:        uuid.New(),
			ProductID: p.ID,
			Quantity:  quantity,
			Status:    model.StatusForQuantity(quantity),
		}
	}
	return p
}
