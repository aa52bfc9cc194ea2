package storefront

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/electro-atlas/storefront/internal/auth"
	"github.com/electro-atlas/storefront/internal/commerce"
	"github.com/electro-atlas/storefront/internal/domain"
	"github.com/electro-atlas/storefront/internal/localstore"
	"github.com/electro-atlas/storefront/internal/remote"
)

const DefaultHistoryLimit = 10

type ProductCatalog interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	SearchProducts(ctx context.Context, query string, page int) (*commerce.ProductPage, error)
}

type CheckoutAPI interface {
	Checkout(ctx context.Context, token string) (*commerce.CheckoutSession, error)
}

type Deps struct {
	Store        *localstore.Store
	Carts        *remote.CartAccessor
	Wishlists    *remote.WishlistAccessor
	Catalog      ProductCatalog
	Checkout     CheckoutAPI
	HistoryLimit int
}

// Service owns the shared stores and hands out per-request façades.
type Service struct {
	store        *localstore.Store
	carts        *remote.CartAccessor
	wishlists    *remote.WishlistAccessor
	catalog      ProductCatalog
	checkout     CheckoutAPI
	seq          *Sequencer
	historyLimit int
}

func NewService(deps Deps) *Service {
	limit := deps.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Service{
		store:        deps.Store,
		carts:        deps.Carts,
		wishlists:    deps.Wishlists,
		catalog:      deps.Catalog,
		checkout:     deps.Checkout,
		seq:          NewSequencer(),
		historyLimit: limit,
	}
}

// Cart selects the backend for session once. Authenticated sessions use
// the remote cart; everyone else uses the guest store under guestID.
func (s *Service) Cart(session auth.Session, guestID string) *Cart {
	c := &Cart{session: session, seq: s.seq}
	switch {
	case session.Loading():
		c.backend = unavailable{err: ErrSessionPending}
	case session.Authenticated():
		c.backend = serverCart{accessor: s.carts, cred: credentials(session)}
		c.lane = "cart:user:" + session.UserID()
	case guestID == "":
		c.backend = unavailable{err: ErrNoGuestSession}
	default:
		c.backend = guestCart{store: s.store, key: s.store.Key(guestID, localstore.CollectionCart)}
		c.lane = "cart:guest:" + guestID
	}
	return c
}

func (s *Service) Wishlist(session auth.Session, guestID string) *Wishlist {
	w := &Wishlist{session: session, seq: s.seq}
	switch {
	case session.Loading():
		w.backend = unavailableWishlist{err: ErrSessionPending}
	case session.Authenticated():
		w.backend = serverWishlist{accessor: s.wishlists, cred: credentials(session)}
		w.lane = "wishlist:user:" + session.UserID()
	case guestID == "":
		w.backend = unavailableWishlist{err: ErrNoGuestSession}
	default:
		w.backend = guestWishlist{
			store: s.store,
			key:   s.store.Key(guestID, localstore.CollectionWishlist),
			owner: guestID,
		}
		w.lane = "wishlist:guest:" + guestID
	}
	return w
}

// History is always kept in guest storage, whatever the session.
func (s *Service) History(guestID string) *History {
	return &History{
		store: s.store,
		key:   s.store.Key(guestID, localstore.CollectionSearchHistory),
		limit: s.historyLimit,
		owner: guestID,
	}
}

func (s *Service) Product(ctx context.Context, productID string) (*domain.Product, error) {
	return s.catalog.GetProduct(ctx, productID)
}

// Search queries the catalog and records non-empty queries in the guest's
// history. A history write failure does not fail the search.
func (s *Service) Search(ctx context.Context, guestID, query string, page int) (*commerce.ProductPage, error) {
	result, err := s.catalog.SearchProducts(ctx, query, page)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) != "" && guestID != "" {
		if _, errRecord := s.History(guestID).Record(ctx, query); errRecord != nil {
			log.Printf("search history record error: %v \n", errRecord)
		}
	}
	return result, nil
}

// AddToCart resolves productID against the catalog so the inventory guard
// sees current stock, then adds through the session's cart.
func (s *Service) AddToCart(ctx context.Context, session auth.Session, guestID, productID string, quantity int) (*domain.CartView, error) {
	if session.Loading() {
		return nil, ErrSessionPending
	}
	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.Cart(session, guestID).AddItem(ctx, *product, quantity)
}

func (s *Service) AddToWishlist(ctx context.Context, session auth.Session, guestID, productID string) (*domain.WishlistView, error) {
	if session.Loading() {
		return nil, ErrSessionPending
	}
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.Wishlist(session, guestID).AddItem(ctx, *product)
}

// MaxAvailable reports how many more units of productID the session's cart
// can take.
func (s *Service) MaxAvailable(ctx context.Context, session auth.Session, guestID, productID string) (int, error) {
	if session.Loading() {
		return 0, ErrSessionPending
	}
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	return s.Cart(session, guestID).MaxAvailableQuantity(ctx, *product)
}

// Checkout opens a checkout for the authenticated user's cart and drops the
// cached cart once the order exists.
func (s *Service) Checkout(ctx context.Context, session auth.Session) (*commerce.CheckoutSession, error) {
	if session.Loading() {
		return nil, ErrSessionPending
	}
	if !session.Authenticated() {
		return nil, ErrAuthRequired
	}

	var result *commerce.CheckoutSession
	err := s.seq.Do(ctx, "cart:user:"+session.UserID(), func() error {
		var errCheckout error
		result, errCheckout = s.checkout.Checkout(ctx, session.Token)
		if errCheckout != nil {
			return errCheckout
		}
		s.carts.Invalidate(session.UserID())
		return nil
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("checkout error: %v \n", err)
		}
		return nil, err
	}
	return result, nil
}

func credentials(session auth.Session) remote.Credentials {
	return remote.Credentials{UserID: session.UserID(), Token: session.Token}
}
