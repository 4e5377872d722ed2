package ledger

import (
	"strings"

	apperrors "bliq/internal/errors"
	"bliq/internal/uuid"
)

const (
	defaultCategoryIcon  = "fa-tag"
	defaultCategoryColor = "bg-slate-700"
)

// Category is a user-defined label for transactions. Icon and Color are
// presentation hints only.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// DefaultCategories returns the categories seeded into a fresh ledger.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "Moradia", Icon: "fa-house", Color: "bg-slate-700"},
		{ID: "2", Name: "Alimentação", Icon: "fa-utensils", Color: "bg-slate-700"},
		{ID: "3", Name: "Transporte", Icon: "fa-car", Color: "bg-slate-700"},
		{ID: "4", Name: "Lazer", Icon: "fa-gamepad", Color: "bg-slate-700"},
		{ID: "5", Name: "Salário", Icon: "fa-money-bill-trend-up", Color: "bg-lime-500"},
		{ID: "6", Name: "Outros", Icon: "fa-tags", Color: "bg-slate-700"},
	}
}

// Categories returns a copy of the category registry in insertion order.
func (s *State) Categories() []Category {
	out := make([]Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// AddCategory appends a new category. Blank icon or color fall back to the
// defaults. Duplicate names are allowed.
func (s *State) AddCategory(name, icon, color string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if strings.TrimSpace(icon) == "" {
		icon = defaultCategoryIcon
	}
	if strings.TrimSpace(color) == "" {
		color = defaultCategoryColor
	}

	category := Category{ID: uuid.New(), Name: name, Icon: icon, Color: color}
	s.categories = append(s.categories, category)
	return category, nil
}

// RemoveCategory deletes the category with the given id and reports whether
// one was found. Transactions referencing the category are not modified.
func (s *State) RemoveCategory(id string) bool {
	for i, c := range s.categories {
		if c.ID == id {
			s.categories = append(s.categories[:i:i], s.categories[i+1:]...)
			return true
		}
	}
	return false
}
