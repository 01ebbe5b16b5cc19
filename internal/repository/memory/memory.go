// Package memory implements the repository interfaces in process memory. It
// mirrors the driver's acknowledgement values so handler behavior can be exercised
// without a MongoDB deployment.
package memory

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"watchshop/internal/models"
	"watchshop/internal/repository"
)

// table is an insertion-ordered document map.
type table[T any] struct {
	mu    sync.Mutex
	order []primitive.ObjectID
	docs  map[primitive.ObjectID]T
	// Err, when set, is returned by every operation.
	Err error
	// Calls counts operations, failed ones included.
	Calls int
}

func newTable[T any]() *table[T] {
	return &table[T]{docs: map[primitive.ObjectID]T{}}
}

func (t *table[T]) begin() error {
	t.mu.Lock()
	t.Calls++
	return t.Err
}

func (t *table[T]) insert(id primitive.ObjectID, doc T) *mongo.InsertOneResult {
	if _, ok := t.docs[id]; !ok {
		t.order = append(t.order, id)
	}
	t.docs[id] = doc
	return &mongo.InsertOneResult{InsertedID: id}
}

func (t *table[T]) remove(id primitive.ObjectID) bool {
	if _, ok := t.docs[id]; !ok {
		return false
	}
	delete(t.docs, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) filter(keep func(T) bool) []T {
	out := []T{}
	for _, id := range t.order {
		if doc := t.docs[id]; keep == nil || keep(doc) {
			out = append(out, doc)
		}
	}
	return out
}

func (t *table[T]) first(keep func(T) bool) *T {
	for _, id := range t.order {
		if doc := t.docs[id]; keep(doc) {
			return &doc
		}
	}
	return nil
}

func newID(id primitive.ObjectID) primitive.ObjectID {
	if id.IsZero() {
		return primitive.NewObjectID()
	}
	return id
}

// Store holds one table per collection.
type Store struct {
	Products *table[models.Product]
	Reviews  *table[models.Review]
	Carts    *table[models.CartItem]
	Users    *table[models.User]
	Payments *table[models.PaymentRecord]
}

func NewStore() *Store {
	return &Store{
		Products: newTable[models.Product](),
		Reviews:  newTable[models.Review](),
		Carts:    newTable[models.CartItem](),
		Users:    newTable[models.User](),
		Payments: newTable[models.PaymentRecord](),
	}
}

// Set exposes the store through the repository interfaces.
func (s *Store) Set() repository.Set {
	return repository.Set{
		Products: products{s.Products},
		Reviews:  reviews{s.Reviews},
		Carts:    carts{s.Carts},
		Users:    users{s.Users},
		Payments: payments{s.Payments},
	}
}

// SeedProduct, SeedReview, SeedCart and SeedUser insert documents directly and
// return their ids.
func (s *Store) SeedProduct(p models.Product) primitive.ObjectID {
	s.Products.mu.Lock()
	defer s.Products.mu.Unlock()
	p.ID = newID(p.ID)
	s.Products.insert(p.ID, p)
	return p.ID
}

func (s *Store) SeedReview(r models.Review) primitive.ObjectID {
	s.Reviews.mu.Lock()
	defer s.Reviews.mu.Unlock()
	r.ID = newID(r.ID)
	s.Reviews.insert(r.ID, r)
	return r.ID
}

func (s *Store) SeedCart(c models.CartItem) primitive.ObjectID {
	s.Carts.mu.Lock()
	defer s.Carts.mu.Unlock()
	c.ID = newID(c.ID)
	s.Carts.insert(c.ID, c)
	return c.ID
}

func (s *Store) SeedUser(u models.User) primitive.ObjectID {
	s.Users.mu.Lock()
	defer s.Users.mu.Unlock()
	u.ID = newID(u.ID)
	s.Users.insert(u.ID, u)
	return u.ID
}

// All returns a snapshot of the documents in t.
func All[T any](t *table[T]) []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filter(nil)
}

type products struct{ t *table[models.Product] }

func (r products) FindAll(context.Context) ([]models.Product, error) {
	err := r.t.begin()
	defer r.t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.t.filter(nil), nil
}

func (r products) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	err := r.t.begin()
	defer r.t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.t.first(func(p models.Product) bool { return p.ID == id }), nil
}

func (r products) Insert(_ context.Context, p *models.Product) (*mongo.InsertOneResult, error) {
	err := r.t.begin()
	defer r.t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	doc := *p
	doc.ID = newID(doc.ID)
	return r.t.insert(doc.ID, doc), nil
}

func (r products) Upsert(_ context.Context, id primitive.ObjectID, p *models.Product) (*mongo.UpdateResult, error) {
	err := r.t.begin()
	defer r.t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	doc, exists := r.t.docs[id]
	next := models.Product{ID: id, Name: p.Name, Price: p.Price, Image: p.Image, Details: p.Details}
	r.t.insert(id, next)
	if !exists {
		return &mongo.UpdateResult{UpsertedCount: 1, UpsertedID: id}, nil
	}
	res := &mongo.UpdateResult{MatchedCount: 1}
	if doc != next {
		res.ModifiedCount = 1
	}
	return res, nil
}

func (r products) Delete(_ context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	err := r.t.begin()
	defer r.t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return deleted(r.t.remove(id)), nil
}

type reviews struct{ t *table[models.Review] }

func (r reviews) FindAll(context.Context) ([]models.Review, error) {
	err := r.t.begin()
	defer r.t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.t.filter(nil), nil
}

type carts struct{ t *table[models.CartItem] }

func (r carts) Insert(_ context.Context, item *models.CartItem) (*mongo.InsertOneResult, error) {
	err := r.t.begin()
	defer r.t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	doc := *item
	doc.ID = newID(doc.ID)
	return r.t.insert(doc.ID, doc), nil
}

func (r carts) FindByEmail(_ context.Context, email string) ([]models.CartItem, error) {
	err := r.t.begin()
	defer r.t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.t.filter(func(c models.CartItem) bool { return c.Email == email }), nil
}

func (r carts) Delete(_ context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	err := r.t.begin()
	defer r.t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return deleted(r.t.remove(id)), nil
}

func (r carts) DeleteMany(_ context.Context, ids []primitive.ObjectID) (*mongo.DeleteResult, error) {
	err := r.t.begin()
	defer r.t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	res := &mongo.DeleteResult{}
	for _, id := range ids {
		if r.t.remove(id) {
			res.DeletedCount++
		}
	}
	return res, nil
}

type users struct{ t *table[models.User] }

func (r users) FindAll(context.Context) ([]models.User, error) {
	err := r.t.begin()
	defer r.t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.t.filter(nil), nil
}

func (r users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	err := r.t.begin()
	defer r.t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.t.first(func(u models.User) bool { return u.Email == email }), nil
}

func (r users) Insert(_ context.Context, u *models.User) (*mongo.InsertOneResult, error) {
	err := r.t.begin()
	defer r.t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	doc := *u
	doc.ID = newID(doc.ID)
	return r.t.insert(doc.ID, doc), nil
}

func (r users) SetRole(_ context.Context, id primitive.ObjectID, role models.Role) (*mongo.UpdateResult, error) {
	err := r.t.begin()
	defer r.t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	doc, ok := r.t.docs[id]
	if !ok {
		return &mongo.UpdateResult{}, nil
	}
	res := &mongo.UpdateResult{MatchedCount: 1}
	if doc.Role != role {
		doc.Role = role
		r.t.docs[id] = doc
		res.ModifiedCount = 1
	}
	return res, nil
}

func (r users) Delete(_ context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	err := r.t.begin()
	defer r.t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return deleted(r.t.remove(id)), nil
}

type payments struct{ t *table[models.PaymentRecord] }

func (r payments) Insert(_ context.Context, p *models.PaymentRecord) (*mongo.InsertOneResult, error) {
	err := r.t.begin()
	defer r.t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	doc := *p
	doc.ID = newID(doc.ID)
	doc.CartItems = append([]string(nil), p.CartItems...)
	return r.t.insert(doc.ID, doc), nil
}

func (r payments) FindByEmail(_ context.Context, email string) ([]models.PaymentRecord, error) {
	err := r.t.begin()
	defer r.t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.t.filter(func(p models.PaymentRecord) bool { return p.Email == email }), nil
}

func deleted(ok bool) *mongo.DeleteResult {
	if ok {
		return &mongo.DeleteResult{DeletedCount: 1}
	}
	return &mongo.DeleteResult{}
}
