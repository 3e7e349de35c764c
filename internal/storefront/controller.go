// Package storefront decides which screen a browser session sees and
// mediates every move between screens.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"shopez/internal/apiclient"
	"shopez/internal/models"
	"shopez/internal/services"
	"shopez/internal/session"
	"shopez/internal/validation"
)

// API is the remote server as the controller needs it.
type API interface {
	Login(ctx context.Context, email, password string) (*apiclient.LoginResponse, error)
	Register(ctx context.Context, reg models.Registration) (*apiclient.StatusResponse, error)
	VerifyOTP(ctx context.Context, email, otp string) (*apiclient.StatusResponse, error)
	CreateOrder(ctx context.Context, draft models.OrderDraft, token string) (*apiclient.StatusResponse, error)
}

type Config struct {
	SessionTimeout time.Duration
	// DefaultUserID is used for orders when the login response carries no user id.
	DefaultUserID int
}

// View is a read-only snapshot of everything a renderer needs.
type View struct {
	Screen      Screen           `json:"screen"`
	Mode        AuthMode         `json:"mode"`
	Email       string           `json:"email,omitempty"`
	LoggedIn    bool             `json:"logged_in"`
	OtpVerified bool             `json:"otp_verified"`
	Products    []models.Product `json:"products,omitempty"`
	Cart        models.CartView  `json:"cart"`
	Form        models.FormState `json:"form"`
	Receipt     *models.Receipt  `json:"receipt,omitempty"`
	Notice      string           `json:"notice,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// Controller owns one browser session. Every method runs under the same
// mutex, so no two transitions ever execute concurrently; that includes the
// session timer, which fires on its own goroutine.
type Controller struct {
	mu sync.Mutex

	api     API
	store   session.Store
	catalog *services.ProductService
	orders  *services.OrderService
	timer   *session.Timer
	cfg     Config
	logger  *zap.Logger

	state  State
	cart   models.Cart
	form   models.FormState
	email  string
	userID int
	notice string
	errMsg string

	// epoch is bumped whenever a session ends so a timer that already fired
	// for an older session is ignored.
	epoch  uint64
	closed bool
}

func NewController(api API, store session.Store, catalog *services.ProductService, orders *services.OrderService, cfg Config, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = session.NewMemoryStore()
	}
	if orders == nil {
		orders = services.NewOrderService(nil)
	}
	return &Controller{
		api:     api,
		store:   store,
		catalog: catalog,
		orders:  orders,
		timer:   session.NewTimer(cfg.SessionTimeout),
		cfg:     cfg,
		logger:  logger,
		state:   LoggedOut{Mode: ModeLogin},
		form:    models.NewFormState(),
	}
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Screen:      c.state.Screen(),
		Email:       c.email,
		LoggedIn:    c.state.Screen() != ScreenLoggedOut,
		OtpVerified: Authenticated(c.state),
		Cart:        c.cart.Snapshot(),
		Form:        c.form.Clone(),
		Notice:      c.notice,
		Error:       c.errMsg,
	}
	switch s := c.state.(type) {
	case LoggedOut:
		v.Mode = s.Mode
	case OtpPending:
		v.Email = s.Email
	case Shopping:
		if c.catalog != nil {
			v.Products = c.catalog.GetAllProducts()
		}
	case OrderComplete:
		receipt := s.Receipt
		v.Receipt = &receipt
	}
	return v
}

// Screen is a shortcut for View().Screen.
func (c *Controller) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Screen()
}

// Authenticated reports whether the session is past OTP verification.
func (c *Controller) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Authenticated(c.state)
}

func (c *Controller) ToggleMode() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetMessages()
	return c.apply(ModeToggled{})
}

func (c *Controller) Login(ctx context.Context, form models.LoginForm) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.state.(LoggedOut); !ok {
		return c.notAllowed("login")
	}
	c.resetMessages()
	c.form.SetValues(form.Fields())

	if err := c.login(ctx, form.Email, form.Password); err != nil {
		return c.fail(err, requestMessage(err, "Login failed"))
	}
	return nil
}

// Register validates the account form, creates the account, then logs in.
// No request is made when validation fails.
func (c *Controller) Register(ctx context.Context, reg models.Registration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.state.(LoggedOut); !ok || s.Mode != ModeCreateAccount {
		return c.notAllowed("register")
	}
	c.resetMessages()

	values := reg.Fields()
	c.form.SetValues(values)
	if fe := c.validate(validation.AccountSuite, values); fe != nil {
		return fe
	}

	if _, err := c.api.Register(ctx, reg); err != nil {
		c.logger.Warn("Registration failed", zap.String("email", reg.Email), zap.Error(err))
		return c.fail(err, requestMessage(err, "Registration failed"))
	}
	c.logger.Info("Account created", zap.String("email", reg.Email))

	if err := c.login(ctx, reg.Email, reg.Password); err != nil {
		// The account exists server-side; send the user to the login form.
		c.logger.Warn("Login after registration failed", zap.String("email", reg.Email), zap.Error(err))
		if terr := c.apply(ModeToggled{}); terr != nil {
			return terr
		}
		c.notice = MsgAccountCreated
		return c.fail(err, requestMessage(err, "Login failed"))
	}
	return nil
}

// login runs the login request and moves to OtpPending. Caller holds mu and
// has checked the state is LoggedOut.
func (c *Controller) login(ctx context.Context, email, password string) error {
	resp, err := c.api.Login(ctx, email, password)
	if err != nil {
		c.logger.Warn("Login failed", zap.String("email", email), zap.Error(err))
		return err
	}

	if err := c.store.Set(ctx, session.KeyToken, resp.Token); err != nil {
		return err
	}
	if err := c.store.Set(ctx, session.KeyEmail, email); err != nil {
		return err
	}

	c.email = email
	c.userID = c.cfg.DefaultUserID
	if resp.User.ID != 0 {
		c.userID = resp.User.ID
	}
	return c.apply(LoginSucceeded{Email: email})
}

func (c *Controller) VerifyOTP(ctx context.Context, form models.OtpForm) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending, ok := c.state.(OtpPending)
	if !ok {
		return c.notAllowed("verify otp")
	}
	c.resetMessages()
	c.form.SetValues(form.Fields())

	resp, err := c.api.VerifyOTP(ctx, pending.Email, form.OTP)
	if err != nil {
		var rf *apiclient.RequestFailedError
		if errors.As(err, &rf) && rf.Transport() {
			return c.fail(err, MsgServerError)
		}
		return c.fail(err, requestMessage(err, MsgInvalidOTP))
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = MsgInvalidOTP
		}
		return c.fail(&apiclient.RequestFailedError{Op: "verify otp", StatusCode: http.StatusOK, Message: msg}, msg)
	}

	if err := c.store.Set(ctx, session.KeyEmail, pending.Email); err != nil {
		return err
	}
	if err := c.apply(OtpAccepted{}); err != nil {
		return err
	}
	c.cart.Clear()
	c.armSessionTimer()
	return nil
}

func (c *Controller) AddToCart(productID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.state.(Shopping); !ok {
		return c.notAllowed("add to cart")
	}
	c.resetMessages()

	product, ok := c.catalog.GetProductByID(productID)
	if !ok {
		return ErrUnknownProduct
	}
	c.cart.Add(product)
	return nil
}

func (c *Controller) RemoveFromCart(productID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.state.(Shopping); !ok {
		return c.notAllowed("remove from cart")
	}
	c.resetMessages()

	if !c.cart.Remove(productID) {
		return ErrNotInCart
	}
	return nil
}

func (c *Controller) StartCheckout() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetMessages()
	if _, ok := c.state.(Shopping); ok && c.cart.TotalItems() == 0 {
		return ErrCartEmpty
	}
	return c.apply(CheckoutRequested{})
}

func (c *Controller) CancelCheckout() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetMessages()
	return c.apply(CheckoutCancelled{})
}

// PlaceOrder validates the checkout form and submits the order. On any
// failure the user stays on the checkout screen with a message.
func (c *Controller) PlaceOrder(ctx context.Context, form models.CheckoutForm) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.state.(Checkout); !ok {
		return c.notAllowed("place order")
	}
	c.resetMessages()

	values := form.Fields()
	c.form.SetValues(values)
	if fe := c.validate(validation.CheckoutSuite, values); fe != nil {
		return fe
	}

	token, _, err := c.store.Get(ctx, session.KeyToken)
	if err != nil {
		return err
	}

	draft := c.orders.Draft(c.userID, &c.cart, form.CreditCard)
	resp, err := c.api.CreateOrder(ctx, draft, token)
	if err != nil {
		c.orders.RecordResult(false)
		return c.fail(err, requestMessage(err, MsgOrderFailed))
	}
	if !resp.Success {
		c.orders.RecordResult(false)
		msg := resp.Message
		if msg == "" {
			msg = MsgOrderFailed
		}
		c.logger.Warn("Order creation failed", zap.String("message", resp.Message), zap.Int("tracking_id", draft.TrackingID))
		return c.fail(&apiclient.RequestFailedError{Op: "create order", StatusCode: http.StatusOK, Message: msg}, msg)
	}

	receipt := c.orders.Receipt(form, &c.cart, draft)
	if err := c.apply(OrderAccepted{Receipt: receipt}); err != nil {
		return err
	}
	c.orders.RecordResult(true)
	c.logger.Info("Order placed", zap.Int("tracking_id", draft.TrackingID), zap.String("amount", draft.Amount.String()))
	c.cart.Clear()
	c.notice = MsgOrderPlaced
	return nil
}

func (c *Controller) ReturnToShop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetMessages()
	if err := c.apply(ShopReturned{}); err != nil {
		return err
	}
	c.cart.Clear()
	return nil
}

// Logout ends the session early: the timer is cancelled and the stored
// token, email and cart are cleared.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetMessages()
	return c.endSession(ctx, ReasonLogout)
}

// Close tears the controller down. A pending session timer never fires.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.epoch++
	c.timer.Cancel()
}

func (c *Controller) armSessionTimer() {
	c.timer.Cancel()
	epoch := c.epoch
	if err := c.timer.Arm(func() { c.expire(epoch) }); err != nil {
		c.logger.Error("Failed to arm session timer", zap.Error(err))
		return
	}
	c.logger.Debug("Session timer armed", zap.Duration("timeout", c.timer.Duration()))
}

func (c *Controller) expire(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || epoch != c.epoch || !Authenticated(c.state) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.resetMessages()
	if err := c.endSession(ctx, ReasonExpired); err != nil {
		c.logger.Error("Session expiry incomplete", zap.Error(err))
	}
	c.notice = MsgSessionExpired
}

// endSession clears the store, then moves to LoggedOut and forgets the
// session. A store error is returned but the teardown always completes.
// Caller holds mu.
func (c *Controller) endSession(ctx context.Context, reason EndReason) error {
	if _, err := Transition(c.state, SessionEnded{Reason: reason}); err != nil {
		return err
	}

	clearErr := c.store.Clear(ctx)
	if clearErr != nil {
		c.logger.Error("Failed to clear session store", zap.String("reason", string(reason)), zap.Error(clearErr))
		clearErr = fmt.Errorf("clear session store: %w", clearErr)
	}

	if err := c.apply(SessionEnded{Reason: reason}); err != nil {
		return err
	}
	c.epoch++
	c.timer.Cancel()
	c.cart.Clear()
	c.email = ""
	c.userID = 0
	c.logger.Info("Session ended", zap.String("reason", string(reason)))
	return clearErr
}

// apply runs Transition and, when the screen changes, discards the old
// screen's form. Caller holds mu.
func (c *Controller) apply(ev Event) error {
	from := c.state
	next, err := Transition(from, ev)
	if err != nil {
		var terr *TransitionError
		if errors.As(err, &terr) {
			c.logger.Debug("Rejected transition", zap.Stringer("screen", from.Screen()), zap.String("event", ev.Name()))
		}
		return err
	}

	c.state = next
	if next.Screen() != from.Screen() {
		c.form = models.NewFormState()
		c.logger.Debug("Screen changed",
			zap.Stringer("from", from.Screen()),
			zap.Stringer("to", next.Screen()),
			zap.String("event", ev.Name()),
		)
	}
	return nil
}

// fail surfaces err through the transition function and records msg for
// the user. Caller holds mu.
func (c *Controller) fail(err error, msg string) error {
	c.errMsg = msg
	return c.apply(RequestFailed{Err: err})
}

// validate runs suite and updates the form errors: fields that passed lose
// their error, the failing field gets one, unchecked fields are untouched.
func (c *Controller) validate(suite validation.Suite, values map[string]string) *validation.FieldError {
	res := suite.Run(values)
	for _, field := range res.Passed {
		c.form.ClearError(field)
	}
	if res.Failed != nil {
		c.form.SetError(res.Failed.Field, res.Failed.Message)
		c.errMsg = res.Failed.Message
		return res.Failed
	}
	return nil
}

func (c *Controller) notAllowed(action string) error {
	return &TransitionError{From: c.state.Screen(), Event: action}
}

func (c *Controller) resetMessages() {
	c.notice = ""
	c.errMsg = ""
}

func requestMessage(err error, fallback string) string {
	var rf *apiclient.RequestFailedError
	if errors.As(err, &rf) && rf.Message != "" {
		return rf.Message
	}
	return fallback
}
