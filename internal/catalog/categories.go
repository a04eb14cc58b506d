package catalog

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/models"
)

type CategoryInput struct {
	Name        string
	Description string
	ImageURL    string
}

func (m *Manager) ListCategories(ctx context.Context) ([]models.Category, error) {
	return m.categories.ListCategories(ctx)
}

func (m *Manager) GetCategory(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	return m.categories.FindCategory(ctx, id)
}

// ensureNameFree fails with Conflict when another category already has name.
func (m *Manager) ensureNameFree(ctx context.Context, name string, self primitive.ObjectID) error {
	existing, err := m.categories.FindCategoryByName(ctx, name)
	switch {
	case err == nil:
		if existing.ID != self {
			return apperror.Conflict("category %q already exists", name)
		}
		return nil
	case apperror.Is(err, apperror.KindNotFound):
		return nil
	default:
		return err
	}
}

func (m *Manager) CreateCategory(ctx context.Context, in CategoryInput) (models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Category{}, apperror.Validation("name is required")
	}
	if err := m.ensureNameFree(ctx, name, primitive.NilObjectID); err != nil {
		return models.Category{}, err
	}

	now := m.now().UTC()
	category := models.Category{
		Name:        name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := m.categories.InsertCategory(ctx, &category); err != nil {
		return models.Category{}, err
	}
	m.logger.Info("category created", "categoryId", category.ID.Hex(), "name", name)
	return category, nil
}

func (m *Manager) UpdateCategory(ctx context.Context, id primitive.ObjectID, in CategoryInput) (models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Category{}, apperror.Validation("name is required")
	}
	category, err := m.categories.FindCategory(ctx, id)
	if err != nil {
		return models.Category{}, err
	}
	if err := m.ensureNameFree(ctx, name, id); err != nil {
		return models.Category{}, err
	}

	renamed := category.Name != name
	category.Name = name
	category.Description = in.Description
	category.ImageURL = in.ImageURL
	category.UpdatedAt = m.now().UTC()

	if err := m.categories.ReplaceCategory(ctx, category); err != nil {
		return models.Category{}, err
	}
	if renamed {
		if err := m.products.RenameCategory(ctx, id, name); err != nil {
			m.logger.Warn("failed to refresh category name on products", "categoryId", id.Hex(), "error", err)
		}
	}
	return category, nil
}

// DeleteCategory refuses to orphan products that still reference the category.
func (m *Manager) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	if _, err := m.categories.FindCategory(ctx, id); err != nil {
		return err
	}
	count, err := m.products.CountInCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("category %s still has %d products", id.Hex(), count)
	}
	if err := m.categories.DeleteCategory(ctx, id); err != nil {
		return err
	}
	m.logger.Info("category deleted", "categoryId", id.Hex())
	return nil
}
