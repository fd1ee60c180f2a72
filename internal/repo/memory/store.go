package memory

import (
	"context"
	_ "embed"
	"fmt"
	"slices"

	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/nguyentranbao-ct/storefront/pkg/util"
	"gopkg.in/yaml.v3"
)

//go:embed data/seed.yaml
var defaultSeed []byte

type Seed struct {
	Products []models.Product  `yaml:"products"`
	User     models.UserProfile `yaml:"user"`
	Cart     models.CartSummary `yaml:"cart"`
}

type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
}

type ProfileRepository interface {
	GetProfile(ctx context.Context) (*models.UserProfile, error)
}

type CartRepository interface {
	GetSummary(ctx context.Context) (*models.CartSummary, error)
}

// Store serves a fixed dataset. It is read only, so every accessor hands out
// copies and no locking is needed.
type Store struct {
	products []models.Product
	user     models.UserProfile
	cart     models.CartSummary
}

func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("unmarshal seed: %w", err)
	}
	seen := make(map[int]struct{}, len(seed.Products))
	for _, p := range seed.Products {
		if _, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return &seed, nil
}

func NewStore(seed *Seed) *Store {
	return &Store{
		products: cloneProducts(seed.Products),
		user:     seed.User,
		cart:     seed.Cart,
	}
}

// NewDefaultStore loads the embedded dataset.
func NewDefaultStore() (*Store, error) {
	seed, err := ParseSeed(defaultSeed)
	if err != nil {
		return nil, err
	}
	return NewStore(seed), nil
}

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	return cloneProducts(s.products), nil
}

func (s *Store) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	i := slices.IndexFunc(s.products, func(p models.Product) bool { return p.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("product %d: %w", id, models.ErrNotFound)
	}
	p := cloneProduct(s.products[i])
	return &p, nil
}

func (s *Store) GetProfile(ctx context.Context) (*models.UserProfile, error) {
	user := s.user
	return &user, nil
}

func (s *Store) GetSummary(ctx context.Context) (*models.CartSummary, error) {
	cart := s.cart
	return &cart, nil
}

func cloneProducts(in []models.Product) []models.Product {
	return util.ConvertList(in, cloneProduct)
}

func cloneProduct(p models.Product) models.Product {
	if p.Price != nil {
		p.Price = util.Ptr(*p.Price)
	}
	if p.Rating != nil {
		p.Rating = util.Ptr(*p.Rating)
	}
	return p
}
