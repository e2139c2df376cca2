package portraits

import "context"

type Repository interface {
	Insert(ctx context.Context, p SavedPortrait) error
	FindByIdentity(ctx context.Context, key IdentityKey) (SavedPortrait, bool, error)
	List(ctx context.Context) ([]SavedPortrait, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}
