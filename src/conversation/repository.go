package conversation

import (
	"context"

	"chefbot/src/catalog"
	"chefbot/src/model"
	"chefbot/src/storage"
)

// Memo is the durable question/answer and user-name store
type Memo interface {
	Lookup(ctx context.Context, userID, question string) (string, bool, error)
	Store(ctx context.Context, userID, question, answer string) error
	Name(ctx context.Context, userID string) (string, bool, error)
	SetName(ctx context.Context, userID, name string) error
}

// CategoryProvider returns the category set, usually a *catalog.CategoryCache
type CategoryProvider interface {
	Categories(ctx context.Context) (*catalog.Categories, error)
}

// DishSource fetches the dishes of one category
type DishSource interface {
	FetchDishes(ctx context.Context, token string) ([]model.Dish, error)
}

// Answerer produces a free-text answer when no rule matches
type Answerer interface {
	Answer(ctx context.Context, question, name string) (string, error)
}

// Deps are the collaborators of a Dispatcher
type Deps struct {
	Memo       Memo
	Categories CategoryProvider
	Dishes     DishSource
	Sessions   storage.DishSessions
	Answerer   Answerer
}
