package usecase

import (
	"context"
	"fmt"

	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/nguyentranbao-ct/storefront/internal/repo/memory"
)

type StoreUsecase interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	GetUserProfile(ctx context.Context) (*models.UserProfile, error)
	GetCartSummary(ctx context.Context) (*models.CartSummary, error)
}

type storeUsecase struct {
	catalog  memory.CatalogRepository
	profiles memory.ProfileRepository
	carts    memory.CartRepository
}

func NewStoreUsecase(
	catalog memory.CatalogRepository,
	profiles memory.ProfileRepository,
	carts memory.CartRepository,
) StoreUsecase {
	return &storeUsecase{
		catalog:  catalog,
		profiles: profiles,
		carts:    carts,
	}
}

func (uc *storeUsecase) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := uc.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		// the wire contract is always an array
		products = []models.Product{}
	}
	return products, nil
}

func (uc *storeUsecase) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	product, err := uc.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (uc *storeUsecase) GetUserProfile(ctx context.Context) (*models.UserProfile, error) {
	user, err := uc.profiles.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return user, nil
}

func (uc *storeUsecase) GetCartSummary(ctx context.Context) (*models.CartSummary, error) {
	cart, err := uc.carts.GetSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("get cart summary: %w", err)
	}
	return cart, nil
}
