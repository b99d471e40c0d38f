package service

import (
	"github.com/pkordes/travel-planner/internal/domain"
	"github.com/pkordes/travel-planner/internal/repo"
)

// Catalog kinds need nothing beyond the generic owned resource.
type (
	AttractionService = OwnedResource[domain.Attraction]
	RestaurantService = OwnedResource[domain.Restaurant]
	ActivityService   = OwnedResource[domain.Activity]
	UserService       = OwnedResource[domain.User]
)

func NewAttractionService(r repo.AttractionRepo, users UserGetter, w *Writer) *AttractionService {
	return NewOwnedResource(domain.KindAttraction, r, users, domain.AttractionAllowlist, nil, w)
}

func NewRestaurantService(r repo.RestaurantRepo, users UserGetter, w *Writer) *RestaurantService {
	return NewOwnedResource(domain.KindRestaurant, r, users, domain.RestaurantAllowlist, nil, w)
}

func NewActivityService(r repo.ActivityRepo, users UserGetter, w *Writer) *ActivityService {
	return NewOwnedResource(domain.KindActivity, r, users, domain.ActivityAllowlist, nil, w)
}

// NewUserService serves profile reads, updates and account deletion. A user
// owns its own record, so only the user can change or delete it. Accounts
// are created through AuthService.Register.
func NewUserService(r repo.UserRepo, w *Writer) *UserService {
	return NewOwnedResource(domain.KindUser, repo.Store[domain.User](r), r, domain.UserAllowlist, nil, w)
}
