package service

import (
	"context"
	"strings"

	"go-office-inventory/internal/model"
	"go-office-inventory/internal/repository"

	"github.com/google/uuid"
)

type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, req *CategoryRequest, createdBy string) (*model.Category, error)
	Rename(ctx context.Context, id uuid.UUID, req *CategoryRequest, updatedBy string) (*model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.FindAll(ctx)
}

func (s *categoryService) Create(ctx context.Context, req *CategoryRequest, createdBy string) (*model.Category, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	category := &model.Category{Name: strings.TrimSpace(req.Name)}
	category.CreatedBy = createdBy
	category.UpdatedBy = createdBy

	if err := s.repo.Create(ctx, category); err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateCategory
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Rename(ctx context.Context, id uuid.UUID, req *CategoryRequest, updatedBy string) (*model.Category, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	affected, err := s.repo.Rename(ctx, id, strings.TrimSpace(req.Name), updatedBy)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateCategory
		}
		return nil, err
	}
	if affected == 0 {
		return nil, ErrCategoryNotFound
	}
	return s.repo.FindByID(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
