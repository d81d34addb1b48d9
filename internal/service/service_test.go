package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shofy/internal/events"
	"github.com/Skotchmaster/shofy/internal/models"
	"github.com/Skotchmaster/shofy/internal/repo"
	"github.com/Skotchmaster/shofy/internal/search"
	"github.com/Skotchmaster/shofy/internal/transport"
	"github.com/Skotchmaster/shofy/internal/validation"
	"github.com/Skotchmaster/shofy/pkg/db"
)

type recordedEvent struct {
	topic string
	event events.Event
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{topic: topic, event: e})
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.event.Type)
	}
	return out
}

type memoryIndex struct {
	docs    map[uint]models.Product
	hits    []models.Product
	deleted []uint
}

func (m *memoryIndex) IndexProduct(_ context.Context, p models.Product) error {
	if m.docs == nil {
		m.docs = map[uint]models.Product{}
	}
	m.docs[p.ID] = p
	return nil
}

func (m *memoryIndex) DeleteProduct(_ context.Context, id uint) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *memoryIndex) Search(_ context.Context, _ string, _ int) (int64, []models.Product, error) {
	return int64(len(m.hits)), m.hits, nil
}

type services struct {
	users    *UserService
	stores   *StoreService
	products *ProductService
	cart     *CartService
	events   *recordingPublisher
	index    *memoryIndex
}

func newServices(t *testing.T) services {
	t.Helper()

	gdb, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := &repo.GormRepo{DB: gdb}
	require.NoError(t, r.Migrate(context.Background()))

	pub := &recordingPublisher{}
	idx := &memoryIndex{}
	return services{
		users:    &UserService{Repo: r, Events: pub},
		stores:   &StoreService{Repo: r, Events: pub},
		products: &ProductService{Repo: r, Events: pub, Index: idx},
		cart:     &CartService{Repo: r, Events: pub},
		events:   pub,
		index:    idx,
	}
}

func ptr[T any](v T) *T { return &v }

func createUser(t *testing.T, s services, username string) *models.User {
	t.Helper()
	u, err := s.users.Create(context.Background(), transport.UserFields{
		Name:     ptr("Alice"),
		Username: ptr(username),
		Email:    ptr(username + "@example.com"),
	})
	require.NoError(t, err)
	return u
}

func createStore(t *testing.T, s services, userID uint) *models.Store {
	t.Helper()
	st, err := s.stores.Create(context.Background(), transport.StoreFields{
		UserID:   ptr(userID),
		Name:     ptr("Corner shop"),
		Location: ptr("Berlin"),
	})
	require.NoError(t, err)
	return st
}

func createProduct(t *testing.T, s services, storeID uint, name string) *models.Product {
	t.Helper()
	p, err := s.products.Create(context.Background(), transport.ProductFields{
		StoreID:     ptr(storeID),
		Name:        ptr(name),
		Description: ptr("a " + name),
		Price:       ptr(decimal.RequireFromString("19.990")),
		Quantity:    ptr(10),
	})
	require.NoError(t, err)
	return p
}

func TestUserService_CreateGetRoundTrip(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	created := createUser(t, s, "alice")
	require.NotZero(t, created.ID)

	got, err := s.users.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "alice@example.com", got.Email)

	assert.Equal(t, []string{"user_created"}, s.events.types())
}

func TestUserService_CreateInvalid(t *testing.T) {
	s := newServices(t)

	_, err := s.users.Create(context.Background(), transport.UserFields{
		Name:     ptr("Alice"),
		Username: ptr("a_username_that_is_far_too_long"),
	})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []string{
		"username: ensure this field has no more than 20 characters",
		"email: this field is required",
	}, verrs.Flatten())

	users, err := s.users.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Empty(t, s.events.types())
}

func TestUserService_UpdateMergesAndRevalidates(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")

	updated, err := s.users.Update(ctx, u.ID, transport.UserFields{Name: ptr("Alicia")})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.Name)
	assert.Equal(t, "alice", updated.Username)

	_, err = s.users.Update(ctx, u.ID, transport.UserFields{Email: ptr("")})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)

	got, err := s.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	_, err = s.users.Update(ctx, 999, transport.UserFields{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_DeleteCascades(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")
	st := createStore(t, s, u.ID)
	p := createProduct(t, s, st.UserID, "Lamp")
	_, _, err := s.cart.Add(ctx, transport.CartItemFields{UserID: ptr(u.ID), ProductID: ptr(p.ID), Quantity: ptr(1)})
	require.NoError(t, err)

	deleted, err := s.users.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, deleted.ID)

	_, err = s.stores.GetByUser(ctx, u.ID)
	var ref *ReferenceError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "User with id 1 not found", ref.Error())

	_, err = s.products.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := s.cart.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = s.users.Delete(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_ListCart(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")
	st := createStore(t, s, u.ID)
	p := createProduct(t, s, st.UserID, "Lamp")
	_, _, err := s.cart.Add(ctx, transport.CartItemFields{UserID: ptr(u.ID), ProductID: ptr(p.ID), Quantity: ptr(2)})
	require.NoError(t, err)

	user, items, err := s.users.ListCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	_, _, err = s.users.ListCart(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreService_Create(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.stores.Create(ctx, transport.StoreFields{UserID: ptr(uint(7)), Name: ptr("x"), Location: ptr("y")})
		assert.ErrorIs(t, err, ErrReferenceNotFound)
		assert.EqualError(t, err, "User with id 7 not found")
	})

	u := createUser(t, s, "alice")

	t.Run("invalid", func(t *testing.T) {
		_, err := s.stores.Create(ctx, transport.StoreFields{UserID: ptr(u.ID), Location: ptr("y")})
		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, []string{"name: this field is required"}, verrs.Flatten())
	})

	first := createStore(t, s, u.ID)
	assert.Equal(t, u.ID, first.UserID)

	t.Run("duplicate returns the existing store", func(t *testing.T) {
		existing, err := s.stores.Create(ctx, transport.StoreFields{UserID: ptr(u.ID), Name: ptr("Second"), Location: ptr("Paris")})
		assert.ErrorIs(t, err, ErrDuplicateRelationship)
		require.NotNil(t, existing)
		assert.Equal(t, "Corner shop", existing.Name)

		stores, err := s.stores.List(ctx)
		require.NoError(t, err)
		assert.Len(t, stores, 1)
	})
}

func TestStoreService_GetByUser(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")

	_, err := s.stores.GetByUser(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.stores.GetByUser(ctx, 999)
	assert.EqualError(t, err, "User with id 999 not found")

	createStore(t, s, u.ID)
	st, err := s.stores.GetByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Berlin", st.Location)
}

func TestStoreService_UpdateDeleteAndProducts(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")
	st := createStore(t, s, u.ID)
	p := createProduct(t, s, st.UserID, "Lamp")

	updated, err := s.stores.Update(ctx, st.UserID, transport.StoreFields{UserID: ptr(uint(99)), Location: ptr("Hamburg")})
	require.NoError(t, err)
	assert.Equal(t, u.ID, updated.UserID)
	assert.Equal(t, "Hamburg", updated.Location)
	assert.Equal(t, "Corner shop", updated.Name)

	products, err := s.stores.ListProducts(ctx, st.UserID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)

	_, err = s.stores.Delete(ctx, st.UserID)
	require.NoError(t, err)

	_, err = s.products.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.stores.ListProducts(ctx, st.UserID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductService_CreateRequiresStore(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.products.Create(ctx, transport.ProductFields{
		StoreID:     ptr(uint(5)),
		Name:        ptr("Lamp"),
		Description: ptr("desk lamp"),
		Price:       ptr(decimal.RequireFromString("1")),
		Quantity:    ptr(1),
	})
	assert.ErrorIs(t, err, ErrReferenceNotFound)
	assert.EqualError(t, err, "Store with id 5 not found")

	products, err := s.products.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Empty(t, s.index.docs)
}

func TestProductService_CreateInvalidPrice(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")
	st := createStore(t, s, u.ID)

	_, err := s.products.Create(ctx, transport.ProductFields{
		StoreID:     ptr(st.UserID),
		Name:        ptr("Lamp"),
		Description: ptr("desk lamp"),
		Price:       ptr(decimal.RequireFromString("999999999999.999")),
		Quantity:    ptr(-1),
	})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.ElementsMatch(t, []string{
		"price: ensure that there are no more than 14 digits in total",
		"quantity: ensure this value is greater than or equal to 0",
	}, verrs.Flatten())
}

func TestProductService_IndexLifecycle(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")
	st := createStore(t, s, u.ID)
	p := createProduct(t, s, st.UserID, "Lamp")

	require.Contains(t, s.index.docs, p.ID)
	assert.Equal(t, st.UserID, p.StoreID)

	updated, err := s.products.Update(ctx, p.ID, transport.ProductFields{
		StoreID: ptr(uint(42)),
		Price:   ptr(decimal.RequireFromString("5.5")),
	})
	require.NoError(t, err)
	assert.Equal(t, st.UserID, updated.StoreID)
	assert.True(t, s.index.docs[p.ID].Price.Equal(decimal.RequireFromString("5.5")))

	_, err = s.products.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{p.ID}, s.index.deleted)

	assert.Equal(t, []string{"user_created", "store_created", "product_created", "product_updated", "product_deleted"}, s.events.types())
}

func TestProductService_SearchKeepsHitOrderAndDropsStale(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")
	st := createStore(t, s, u.ID)
	lamp := createProduct(t, s, st.UserID, "Lamp")
	desk := createProduct(t, s, st.UserID, "Desk")

	s.index.hits = []models.Product{{ID: desk.ID}, {ID: 77}, {ID: lamp.ID}}

	got, err := s.products.Search(ctx, "d")
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.Total)
	require.Len(t, got.Products, 2)
	assert.Equal(t, "Desk", got.Products[0].Name)
	assert.Equal(t, "Lamp", got.Products[1].Name)
}

func TestProductService_SearchWithoutIndex(t *testing.T) {
	for _, svc := range []*ProductService{{}, {Index: search.Disabled{}}} {
		_, err := svc.Search(context.Background(), "lamp")
		assert.ErrorIs(t, err, search.ErrDisabled)
	}
}

func TestCartService_AddMerges(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")
	st := createStore(t, s, u.ID)
	p := createProduct(t, s, st.UserID, "Lamp")

	item, created, err := s.cart.Add(ctx, transport.CartItemFields{UserID: ptr(u.ID), ProductID: ptr(p.ID), Quantity: ptr(3)})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 3, item.Quantity)

	item, created, err = s.cart.Add(ctx, transport.CartItemFields{UserID: ptr(u.ID), ProductID: ptr(p.ID), Quantity: ptr(2)})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 5, item.Quantity)

	items, err := s.cart.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	types := s.events.types()
	assert.Equal(t, []string{"cart_item_created", "cart_item_updated"}, types[len(types)-2:])
}

func TestCartService_AddUnknownReferences(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")

	_, _, err := s.cart.Add(ctx, transport.CartItemFields{UserID: ptr(uint(9)), ProductID: ptr(uint(1)), Quantity: ptr(1)})
	assert.EqualError(t, err, "User with id 9 not found")

	_, _, err = s.cart.Add(ctx, transport.CartItemFields{UserID: ptr(u.ID), ProductID: ptr(uint(3)), Quantity: ptr(1)})
	var ref *ReferenceError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "Product", ref.Entity)
	assert.Equal(t, uint(3), ref.ID)
}

func TestCartService_ConcurrentAdds(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")
	st := createStore(t, s, u.ID)
	p := createProduct(t, s, st.UserID, "Lamp")

	const n = 6
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.cart.Add(ctx, transport.CartItemFields{UserID: ptr(u.ID), ProductID: ptr(p.ID), Quantity: ptr(1)})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	items, err := s.cart.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, n, items[0].Quantity)
}

func TestCartService_UpdateAndDelete(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")
	st := createStore(t, s, u.ID)
	p := createProduct(t, s, st.UserID, "Lamp")
	item, _, err := s.cart.Add(ctx, transport.CartItemFields{UserID: ptr(u.ID), ProductID: ptr(p.ID), Quantity: ptr(1)})
	require.NoError(t, err)

	updated, err := s.cart.Update(ctx, item.ID, transport.CartItemFields{Quantity: ptr(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)

	_, err = s.cart.Update(ctx, item.ID, transport.CartItemFields{Quantity: ptr(-2)})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)

	deleted, err := s.cart.Delete(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, deleted.Quantity)

	_, err = s.cart.Get(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	s := newServices(t)
	s.events.err = errors.New("broker down")

	u := createUser(t, s, "alice")
	got, err := s.users.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}
