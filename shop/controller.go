package shop

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tylerpac/solace-client/internal/apierrors"
	"github.com/tylerpac/solace-client/internal/restclient"
	"github.com/tylerpac/solace-client/session"
)

// Product is an immutable catalog snapshot entry.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
}

// Order mirrors the backend's order record. Status is server-authoritative
// and changes asynchronously after checkout (pending → paid via the backend's
// own webhook processing); this client only ever re-fetches it.
type Order struct {
	ID          int64  `json:"id"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Status      string `json:"status"`
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
}

// Snapshot is a completed shop load: both the catalog and (for an
// authenticated session) the order list.
type Snapshot struct {
	Products []Product
	Orders   []Order
}

type checkoutSessionRequest struct {
	ProductID string `json:"productId"`
}

type checkoutSessionResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
	SessionID   string `json:"sessionId"`
}

// Controller loads shop data and originates checkout sessions. It is the
// sole owner of product/order snapshots; it holds no state of its own beyond
// its dependencies.
type Controller struct {
	store      *session.Store
	public     *restclient.Client
	authorized *restclient.Client
	nowTime    func() time.Time
}

// ControllerOption modifies a Controller during construction.
type ControllerOption func(*Controller)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.nowTime = nowFunc
	}
}

// NewController creates a Controller. authorized must carry the bearer
// transport (session.TokenSource.Client); the catalog is fetched without it.
func NewController(baseURL string, store *session.Store, authorized *http.Client, options ...ControllerOption) *Controller {
	c := &Controller{
		store:      store,
		public:     restclient.New(baseURL, nil),
		authorized: restclient.New(baseURL, authorized),
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// LoadCatalog fetches the product list. It works for visitors and
// authenticated users alike.
func (c *Controller) LoadCatalog(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.public.DoJSON(ctx, http.MethodGet, "/shop/products", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// LoadOrders fetches the caller's orders. Without an authenticated session it
// returns an empty list and never touches the network.
func (c *Controller) LoadOrders(ctx context.Context) ([]Order, error) {
	if _, ok := c.store.Current(); !ok {
		return []Order{}, nil
	}

	var orders []Order
	if err := c.authorized.DoJSON(ctx, http.MethodGet, "/shop/orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// LoadAll fetches catalog and orders for a shop visit. The two loads run
// independently; the order load is only dispatched if authentication held at
// dispatch time, and the snapshot is only returned once both are done.
func (c *Controller) LoadAll(ctx context.Context) (*Snapshot, error) {
	var (
		wg       sync.WaitGroup
		products []Product
		orders   = []Order{}
		prodErr  error
		ordErr   error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		products, prodErr = c.LoadCatalog(ctx)
	}()

	if _, ok := c.store.Current(); ok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			orders, ordErr = c.LoadOrders(ctx)
		}()
	}

	wg.Wait()
	if prodErr != nil {
		return nil, prodErr
	}
	if ordErr != nil {
		return nil, ordErr
	}
	return &Snapshot{Products: products, Orders: orders}, nil
}

// Purchase creates a checkout session for the product and returns the hosted
// payment page URL. The caller is responsible for handing the user off to
// that URL; control only returns to this client via the checkout-return URL.
//
// Each call carries a fresh per-attempt idempotency key so the backend can
// tell a retried submit apart from a new attempt. The client never retries on
// its own. Without an authenticated session it fails fast before any network
// call.
func (c *Controller) Purchase(ctx context.Context, productID string) (string, error) {
	if _, ok := c.store.Current(); !ok {
		return "", session.ErrNotAuthenticated
	}

	headers := map[string]string{
		"Idempotency-Key": c.idempotencyKey(productID),
	}

	var resp checkoutSessionResponse
	if err := c.authorized.DoJSON(ctx, http.MethodPost, "/shop/checkout-session", headers, checkoutSessionRequest{ProductID: productID}, &resp); err != nil {
		return "", err
	}
	if resp.CheckoutURL == "" {
		return "", &apierrors.ProtocolError{Message: "no checkout URL was returned by the backend"}
	}

	log.Info().Str("product_id", productID).Str("session_id", resp.SessionID).Msg("checkout session created")
	return resp.CheckoutURL, nil
}

func (c *Controller) idempotencyKey(productID string) string {
	return fmt.Sprintf("checkout-%s-%d", productID, c.nowTime().UnixNano())
}

// Checkout-return query parameter values.
const (
	CheckoutParam   = "checkout"
	CheckoutSuccess = "success"
	CheckoutCancel  = "cancel"
)

// CheckoutReturnStatus maps the coarse checkout-return signal to the
// provisional status line. "success" only means the user came back from the
// payment page; the authoritative order status arrives later through the
// backend, so no order is marked paid here. Unknown values yield "".
func CheckoutReturnStatus(outcome string) string {
	switch outcome {
	case CheckoutSuccess:
		return "Payment completed. The payment provider will update your order status shortly."
	case CheckoutCancel:
		return "Checkout canceled. No charge was made."
	}
	return ""
}
