package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wishlist-service/internal/domain/aggregate"
	"wishlist-service/internal/domain/repository"
)

// WishlistRepository wraps a WishlistRepository with one span per call.
type WishlistRepository struct {
	inner  repository.WishlistRepository
	tracer trace.Tracer
}

func NewWishlistRepository(inner repository.WishlistRepository, tracer trace.Tracer) *WishlistRepository {
	return &WishlistRepository{inner: inner, tracer: tracer}
}

func (r *WishlistRepository) start(ctx context.Context, op, customerID string) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, "repository."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "mongodb"),
			attribute.String("db.collection", "wishlists"),
			attribute.String("wishlist.customer_id", customerID),
		),
	)
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func (r *WishlistRepository) FindByCustomerID(ctx context.Context, customerID string) (*aggregate.Wishlist, error) {
	ctx, span := r.start(ctx, "FindByCustomerID", customerID)
	defer span.End()

	wishlist, err := r.inner.FindByCustomerID(ctx, customerID)
	if err != nil {
		fail(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Bool("wishlist.found", wishlist != nil))
	if wishlist != nil {
		span.SetAttributes(attribute.Int("wishlist.product_count", wishlist.ProductCount()))
	}
	return wishlist, nil
}

func (r *WishlistRepository) Save(ctx context.Context, wishlist *aggregate.Wishlist) (*aggregate.Wishlist, error) {
	ctx, span := r.start(ctx, "Save", wishlist.CustomerID())
	defer span.End()

	saved, err := r.inner.Save(ctx, wishlist)
	if err != nil {
		fail(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("wishlist.id", saved.ID()),
		attribute.Int("wishlist.product_count", saved.ProductCount()),
	)
	return saved, nil
}

func (r *WishlistRepository) DeleteByCustomerID(ctx context.Context, customerID string) error {
	ctx, span := r.start(ctx, "DeleteByCustomerID", customerID)
	defer span.End()

	if err := r.inner.DeleteByCustomerID(ctx, customerID); err != nil {
		fail(span, err)
		return err
	}
	return nil
}

func (r *WishlistRepository) ExistsByCustomerID(ctx context.Context, customerID string) (bool, error) {
	ctx, span := r.start(ctx, "ExistsByCustomerID", customerID)
	defer span.End()

	exists, err := r.inner.ExistsByCustomerID(ctx, customerID)
	if err != nil {
		fail(span, err)
		return false, err
	}

	span.SetAttributes(attribute.Bool("wishlist.exists", exists))
	return exists, nil
}
