package services_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/glowmart/glowmart/app/models"
	"github.com/glowmart/glowmart/app/repositories"
)

// dupKeyErr mimics the driver's unique-index violation so the services'
// mongo.IsDuplicateKeyError branch is exercised for real.
func dupKeyErr() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

// ─── principal store ─────────────────────────────────────────────────────────

type fakePrincipalStore struct {
	mu     sync.Mutex
	users  map[primitive.ObjectID]*models.User
	admins map[primitive.ObjectID]*models.Admin
}

func newFakePrincipalStore() *fakePrincipalStore {
	return &fakePrincipalStore{
		users:  map[primitive.ObjectID]*models.User{},
		admins: map[primitive.ObjectID]*models.Admin{},
	}
}

func (f *fakePrincipalStore) CreateUser(_ context.Context, u *models.User) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Phone == u.Phone {
			return primitive.NilObjectID, dupKeyErr()
		}
	}
	id := primitive.NewObjectID()
	cp := *u
	cp.ID = id
	cp.CreatedAt = time.Now()
	f.users[id] = &cp
	return id, nil
}

func (f *fakePrincipalStore) FindUserByPhone(_ context.Context, phone string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakePrincipalStore) FindUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *u
	return &cp, nil
}

func (f *fakePrincipalStore) CreateAdmin(_ context.Context, a *models.Admin) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.admins {
		if existing.Username == a.Username {
			return primitive.NilObjectID, dupKeyErr()
		}
	}
	id := primitive.NewObjectID()
	cp := *a
	cp.ID = id
	f.admins[id] = &cp
	return id, nil
}

func (f *fakePrincipalStore) FindAdminByUsername(_ context.Context, username string) (*models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

// ─── product store ───────────────────────────────────────────────────────────

type fakeProductStore struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*models.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: map[primitive.ObjectID]*models.Product{}}
}

// seed inserts a product directly, bypassing service validation.
func (f *fakeProductStore) seed(p models.Product) *models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.products[p.ID] = &p
	return &p
}

func (f *fakeProductStore) Create(_ context.Context, p *models.Product) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.products {
		if existing.Slug == p.Slug || existing.Name == p.Name {
			return primitive.NilObjectID, dupKeyErr()
		}
	}
	id := primitive.NewObjectID()
	cp := *p
	cp.ID = id
	cp.CreatedAt = time.Now()
	f.products[id] = &cp
	return id, nil
}

func (f *fakeProductStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductStore) FindBySlug(_ context.Context, slug string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeProductStore) SlugExists(_ context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProductStore) ListVisible(_ context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, p := range f.products {
		if p.Visible {
			out = append(out, *p)
		}
	}
	// stable slug order
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Slug < out[j-1].Slug; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (f *fakeProductStore) List(_ context.Context, _ repositories.ListFilter) ([]models.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductStore) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	for k, v := range set {
		switch k {
		case "name":
			p.Name = v.(string)
		case "slug":
			p.Slug = v.(string)
		case "mrp":
			p.MRP = v.(float64)
		case "sellingPrice":
			p.SellingPrice = v.(float64)
		case "description":
			p.Description = v.(string)
		case "image":
			p.Image = v.(string)
		case "visible":
			p.Visible = v.(bool)
		case "category":
			p.Category = v.(string)
		case "stock":
			p.Stock = v.(int)
		}
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductStore) SetStock(_ context.Context, id primitive.ObjectID, stock int) (*models.Product, error) {
	return f.Update(context.Background(), id, bson.M{"stock": stock})
}

func (f *fakeProductStore) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || p.Stock < qty {
		return nil, mongo.ErrNoDocuments
	}
	p.Stock -= qty
	cp := *p
	return &cp, nil
}

func (f *fakeProductStore) IncrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	p.Stock += qty
	return nil
}

func (f *fakeProductStore) stockOf(id primitive.ObjectID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[id]; ok {
		return p.Stock
	}
	return -1
}

// ─── cart store ──────────────────────────────────────────────────────────────

type cartKey struct {
	user    primitive.ObjectID
	product primitive.ObjectID
}

type fakeCartStore struct {
	mu    sync.Mutex
	lines map[cartKey]*models.CartLine
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{lines: map[cartKey]*models.CartLine{}}
}

func (f *fakeCartStore) AddQty(_ context.Context, userID, productID primitive.ObjectID, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := cartKey{userID, productID}
	if line, ok := f.lines[k]; ok {
		line.Qty += qty
		return nil
	}
	f.lines[k] = &models.CartLine{
		ID: primitive.NewObjectID(), UserID: userID, ProductID: productID,
		Qty: qty, AddedAt: time.Now(),
	}
	return nil
}

func (f *fakeCartStore) SetQty(_ context.Context, userID, productID primitive.ObjectID, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	line, ok := f.lines[cartKey{userID, productID}]
	if !ok {
		return mongo.ErrNoDocuments
	}
	line.Qty = qty
	return nil
}

func (f *fakeCartStore) Remove(_ context.Context, userID, productID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lines, cartKey{userID, productID})
	return nil
}

func (f *fakeCartStore) Lines(_ context.Context, userID primitive.ObjectID) ([]models.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.CartLine{}
	for _, line := range f.lines {
		if line.UserID == userID {
			out = append(out, *line)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].AddedAt.Before(out[j-1].AddedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (f *fakeCartStore) Line(_ context.Context, userID, productID primitive.ObjectID) (*models.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	line, ok := f.lines[cartKey{userID, productID}]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *line
	return &cp, nil
}

func (f *fakeCartStore) Clear(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, line := range f.lines {
		if line.UserID == userID {
			delete(f.lines, k)
		}
	}
	return nil
}

func (f *fakeCartStore) count(userID primitive.ObjectID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, line := range f.lines {
		if line.UserID == userID {
			n++
		}
	}
	return n
}

// ─── order store ─────────────────────────────────────────────────────────────

type fakeOrderStore struct {
	mu       sync.Mutex
	orders   []*models.Order
	failNext bool
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{}
}

func (f *fakeOrderStore) Create(_ context.Context, o *models.Order) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return primitive.NilObjectID, errors.New("insert failed")
	}
	id := primitive.NewObjectID()
	cp := *o
	cp.ID = id
	cp.CreatedAt = time.Now()
	f.orders = append(f.orders, &cp)
	return id, nil
}

func (f *fakeOrderStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for i := len(f.orders) - 1; i >= 0; i-- {
		if f.orders[i].UserID == userID {
			out = append(out, *f.orders[i])
		}
	}
	return out, nil
}

func (f *fakeOrderStore) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

// ─── comment store ───────────────────────────────────────────────────────────

type commentKey struct {
	product primitive.ObjectID
	user    primitive.ObjectID
}

type fakeCommentStore struct {
	mu       sync.Mutex
	comments map[commentKey]*models.Comment
	seq      int
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: map[commentKey]*models.Comment{}}
}

// tick hands out strictly increasing timestamps so ordering assertions
// do not depend on clock resolution. Callers must hold f.mu.
func (f *fakeCommentStore) tick() time.Time {
	f.seq++
	return time.Unix(1700000000, 0).Add(time.Duration(f.seq) * time.Millisecond)
}

func (f *fakeCommentStore) Upsert(_ context.Context, c *models.Comment) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := commentKey{c.ProductID, c.UserID}
	now := f.tick()
	if existing, ok := f.comments[k]; ok {
		existing.Text = c.Text
		if c.Rating > 0 {
			existing.Rating = c.Rating
		}
		existing.Visible = true
		existing.UpdatedAt = now
		cp := *existing
		return &cp, nil
	}
	stored := &models.Comment{
		ID: primitive.NewObjectID(), ProductID: c.ProductID, UserID: c.UserID,
		Text: c.Text, Rating: c.Rating, Visible: true,
		CreatedAt: now, UpdatedAt: now,
	}
	f.comments[k] = stored
	cp := *stored
	return &cp, nil
}

func (f *fakeCommentStore) ListVisibleByProduct(_ context.Context, productID primitive.ObjectID, page, limit int64) ([]models.Comment, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Comment{}
	for _, c := range f.comments {
		if c.ProductID == productID && c.Visible {
			out = append(out, *c)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].UpdatedAt.Before(out[j-1].UpdatedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	total := int64(len(out))

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	start := (page - 1) * limit
	if start >= total {
		return []models.Comment{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return out[start:end], total, nil
}

func (f *fakeCommentStore) Moderate(_ context.Context, id primitive.ObjectID, set bson.M) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.comments {
		if c.ID == id {
			if v, ok := set["visible"]; ok {
				c.Visible = v.(bool)
			}
			if v, ok := set["text"]; ok {
				c.Text = v.(string)
			}
			c.UpdatedAt = f.tick()
			cp := *c
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeCommentStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, c := range f.comments {
		if c.ID == id {
			delete(f.comments, k)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}
