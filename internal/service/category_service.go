package service

import (
	"context"
	"fmt"

	"github.com/nig3l/OPTACOMP-InventorySystems/internal/model"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/repository"
	"github.com/nig3l/OPTACOMP-InventorySystems/pkg/validator"

	"github.com/google/uuid"
)

type CategoryService interface {
	Create(ctx context.Context, req *CategoryRequest) (*model.Category, error)
	List(ctx context.Context, skip, limit int) ([]model.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Category, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateCategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) Create(ctx context.Context, req *CategoryRequest) (*model.Category, error) {
	if err := validator.Check(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	category := &model.Category{Name: req.Name, Description: req.Description}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, req.Name)
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context, skip, limit int) ([]model.Category, error) {
	return s.categoryRepo.List(ctx, skip, limit)
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: category not found", ErrNotFound)
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req *UpdateCategoryRequest) (*model.Category, error) {
	if err := validator.Check(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, category.Name)
		}
		return nil, err
	}
	return category, nil
}

// Delete refuses to remove a category that products still reference.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	n, err := s.categoryRepo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: category still has %d product(s)", ErrConflict, n)
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return fmt.Errorf("%w: category not found", ErrNotFound)
		}
		if repository.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: category is still referenced", ErrConflict)
		}
		return err
	}
	return nil
}
