package service

import (
	"context"
	"fmt"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"
)

type CartService interface {
	GetCart(ctx context.Context, userID string) (*dto.CartResponse, error)
	AddItem(ctx context.Context, userID string, req *dto.CartItemRequest) (*model.CartItem, error)
	// UpdateItem sets the quantity of a line; zero or less removes it.
	UpdateItem(ctx context.Context, userID string, req *dto.CartItemRequest) error
	RemoveItem(ctx context.Context, userID, productID, variantID string) error
}

type cartServiceImpl struct {
	cartRepo repository.CartRepository
}

func NewCartService(cartRepo repository.CartRepository) CartService {
	return &cartServiceImpl{
		cartRepo: cartRepo,
	}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*dto.CartResponse, error) {
	if userID == "" {
		return nil, ErrAuthentication
	}

	items, err := s.cartRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}

	return &dto.CartResponse{Items: items}, nil
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID string, req *dto.CartItemRequest) (*model.CartItem, error) {
	if userID == "" {
		return nil, ErrAuthentication
	}
	if req.ProductID == "" {
		return nil, fmt.Errorf("productId is required")
	}
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.cartRepo.Add(ctx, &model.CartItem{
		UserID:    userID,
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}

	return item, nil
}

func (s *cartServiceImpl) UpdateItem(ctx context.Context, userID string, req *dto.CartItemRequest) error {
	if userID == "" {
		return ErrAuthentication
	}
	if req.ProductID == "" {
		return fmt.Errorf("productId is required")
	}

	if req.Quantity <= 0 {
		return s.RemoveItem(ctx, userID, req.ProductID, req.VariantID)
	}

	err := s.cartRepo.SetQuantity(ctx, &model.CartItem{
		UserID:    userID,
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	return nil
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, productID, variantID string) error {
	if userID == "" {
		return ErrAuthentication
	}
	if err := s.cartRepo.Remove(ctx, userID, productID, variantID); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}
