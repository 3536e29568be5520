package command

import (
	"context"
	stderrors "errors"
	"time"

	"wishlist-service/internal/application/dto"
	"wishlist-service/internal/application/guard"
	"wishlist-service/internal/domain/aggregate"
	"wishlist-service/internal/domain/event"
	"wishlist-service/internal/domain/repository"
	"wishlist-service/internal/infrastructure/bus"
	"wishlist-service/pkg/errors"
	"wishlist-service/pkg/logger"
)

const (
	msgWishlistLimit   = "Wishlist cannot exceed 20 products"
	msgAlreadyExists   = "Product already exists in wishlist"
	msgCustomerMissing = "Customer not found"
	msgProductMissing  = "Product not found in wishlist"
)

// translateDomainError maps aggregate sentinels onto API errors.
func translateDomainError(err error) error {
	switch {
	case stderrors.Is(err, aggregate.ErrWishlistFull):
		return errors.NewWishlistLimitExceededError(msgWishlistLimit)
	case stderrors.Is(err, aggregate.ErrProductAlreadyExists):
		return errors.NewProductAlreadyExistsError(msgAlreadyExists)
	case stderrors.Is(err, aggregate.ErrEmptyCustomerID):
		return errors.NewInvalidCustomerIDError("Customer ID cannot be null or empty")
	default:
		return errors.NewInternalError(err)
	}
}

// publish hands events to the bus after the write succeeded. Delivery
// failures are logged only; the write is already durable.
func publish(ctx context.Context, eventBus bus.EventBus, events []event.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := eventBus.PublishBatch(ctx, events); err != nil {
		logger.Warn(ctx).Err(err).Int("events", len(events)).Msg("failed to publish wishlist events")
	}
}

// AddProductHandler handles add product commands
type AddProductHandler struct {
	repo     repository.WishlistRepository
	eventBus bus.EventBus
}

func NewAddProductHandler(repo repository.WishlistRepository, eventBus bus.EventBus) *AddProductHandler {
	return &AddProductHandler{repo: repo, eventBus: eventBus}
}

// Handle loads or lazily creates the wishlist, appends the product and saves it.
func (h *AddProductHandler) Handle(ctx context.Context, cmd *AddProduct) (*dto.AddProductResponse, error) {
	if cmd == nil {
		return nil, errors.NewValidationError("command cannot be nil")
	}
	if err := guard.CustomerAndProduct(cmd.CustomerID, cmd.ProductID); err != nil {
		return nil, err
	}

	wishlist, err := h.repo.FindByCustomerID(ctx, cmd.CustomerID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if wishlist == nil {
		if wishlist, err = aggregate.NewWishlist(cmd.CustomerID); err != nil {
			return nil, translateDomainError(err)
		}
	}

	if err := wishlist.AddProduct(cmd.ProductID); err != nil {
		return nil, translateDomainError(err)
	}
	added, _ := wishlist.FindProduct(cmd.ProductID)

	if _, err := h.repo.Save(ctx, wishlist); err != nil {
		return nil, errors.NewInternalError(err)
	}

	publish(ctx, h.eventBus, wishlist.GetUncommittedEvents())
	wishlist.MarkEventsAsCommitted()

	logger.Info(ctx).
		Str("customer_id", cmd.CustomerID).
		Str("product_id", cmd.ProductID).
		Int("product_count", wishlist.ProductCount()).
		Msg("product added to wishlist")

	return dto.NewAddProductResponse(cmd.CustomerID, added), nil
}

// RemoveProductHandler handles remove product commands
type RemoveProductHandler struct {
	repo     repository.WishlistRepository
	eventBus bus.EventBus
}

func NewRemoveProductHandler(repo repository.WishlistRepository, eventBus bus.EventBus) *RemoveProductHandler {
	return &RemoveProductHandler{repo: repo, eventBus: eventBus}
}

func (h *RemoveProductHandler) Handle(ctx context.Context, cmd *RemoveProduct) error {
	if cmd == nil {
		return errors.NewValidationError("command cannot be nil")
	}
	if err := guard.CustomerAndProduct(cmd.CustomerID, cmd.ProductID); err != nil {
		return err
	}

	wishlist, err := h.repo.FindByCustomerID(ctx, cmd.CustomerID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if wishlist == nil {
		return errors.NewCustomerNotFoundError(msgCustomerMissing)
	}

	if !wishlist.RemoveProduct(cmd.ProductID) {
		return errors.NewProductNotFoundError(msgProductMissing)
	}

	if _, err := h.repo.Save(ctx, wishlist); err != nil {
		return errors.NewInternalError(err)
	}

	publish(ctx, h.eventBus, wishlist.GetUncommittedEvents())
	wishlist.MarkEventsAsCommitted()

	logger.Info(ctx).
		Str("customer_id", cmd.CustomerID).
		Str("product_id", cmd.ProductID).
		Msg("product removed from wishlist")

	return nil
}

// ClearWishlistHandler handles clear wishlist commands
type ClearWishlistHandler struct {
	repo     repository.WishlistRepository
	eventBus bus.EventBus
	now      func() time.Time
}

func NewClearWishlistHandler(repo repository.WishlistRepository, eventBus bus.EventBus) *ClearWishlistHandler {
	return &ClearWishlistHandler{
		repo:     repo,
		eventBus: eventBus,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (h *ClearWishlistHandler) Handle(ctx context.Context, cmd *ClearWishlist) error {
	if cmd == nil {
		return errors.NewValidationError("command cannot be nil")
	}
	if err := guard.CustomerID(cmd.CustomerID); err != nil {
		return err
	}

	exists, err := h.repo.ExistsByCustomerID(ctx, cmd.CustomerID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if !exists {
		return errors.NewCustomerNotFoundError(msgCustomerMissing)
	}

	if err := h.repo.DeleteByCustomerID(ctx, cmd.CustomerID); err != nil {
		return errors.NewInternalError(err)
	}

	publish(ctx, h.eventBus, []event.DomainEvent{
		&event.WishlistCleared{CustomerID: cmd.CustomerID, Timestamp: h.now()},
	})

	logger.Info(ctx).Str("customer_id", cmd.CustomerID).Msg("wishlist cleared")
	return nil
}
