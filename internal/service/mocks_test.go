package service

import (
	"context"
	"errors"
	"sort"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"
)

// Mock repositories for testing. Each records how often it was called so
// tests can assert on short-circuiting.
type mockProductRepository struct {
	products map[int64]*domain.Product
	nextID   int64

	findByIDCalls   int
	findByNameCalls int
	existsCalls     int
	saveCalls       int
	deleteCalls     int

	saveErr error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[int64]*domain.Product),
		nextID:   1,
	}
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.findByIDCalls++
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	m.findByNameCalls++
	for _, product := range m.products {
		if product.Name == name {
			copied := *product
			return &copied, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	m.existsCalls++
	_, exists := m.products[id]
	return exists, nil
}

func (m *mockProductRepository) FindAll(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	ids := make([]int64, 0, len(m.products))
	for id := range m.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	products := []*domain.Product{}
	for _, id := range ids {
		product := m.products[id]
		if filter.CategoryID != nil && product.Category.ID != *filter.CategoryID {
			continue
		}
		products = append(products, product)
	}
	return products, nil
}

func (m *mockProductRepository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	m.saveCalls++
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	if product.ID == 0 {
		product.ID = m.nextID
		m.nextID++
	} else if _, exists := m.products[product.ID]; !exists {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	m.products[product.ID] = &copied
	return product, nil
}

func (m *mockProductRepository) DeleteByID(ctx context.Context, id int64) error {
	m.deleteCalls++
	if _, exists := m.products[id]; !exists {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

type mockCategoryRepository struct {
	categories    map[int64]*domain.Category
	findByIDCalls int
}

func newMockCategoryRepository(categories ...*domain.Category) *mockCategoryRepository {
	m := &mockCategoryRepository{categories: make(map[int64]*domain.Category)}
	for _, c := range categories {
		m.categories[c.ID] = c
	}
	return m
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	category.ID = int64(len(m.categories) + 1)
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	categories := []*domain.Category{}
	for _, c := range m.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	m.findByIDCalls++
	category, exists := m.categories[id]
	if !exists {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

type mockUserRepository struct {
	users         map[int64]*domain.User
	findByIDCalls int
	lookupErr     error
}

func newMockUserRepository(users ...*domain.User) *mockUserRepository {
	m := &mockUserRepository{users: make(map[int64]*domain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return repository.ErrUserAlreadyExists
		}
	}
	user.ID = int64(len(m.users) + 1)
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	m.findByIDCalls++
	user, exists := m.users[id]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

var errStoreDown = errors.New("store unavailable")
