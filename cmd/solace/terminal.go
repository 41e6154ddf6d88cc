package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/tylerpac/solace-client/session"
	"github.com/tylerpac/solace-client/view"
)

// terminal is the thin rendering layer over the router: it prints whatever
// surface the router resolved and dispatches typed commands back into it. It
// holds no state of its own.
type terminal struct {
	router *view.Router
	store  *session.Store
	reader *bufio.Reader
}

func newTerminal(router *view.Router, store *session.Store) *terminal {
	return &terminal{
		router: router,
		store:  store,
		reader: bufio.NewReader(os.Stdin),
	}
}

func (t *terminal) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		t.render()
		fmt.Print("> ")

		line, err := t.reader.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read command: %w", err)
		}

		if quit := t.dispatch(ctx, strings.Fields(line)); quit {
			return nil
		}
	}
}

func (t *terminal) dispatch(ctx context.Context, fields []string) bool {
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "quit", "exit":
		return true
	case "home":
		t.router.GoHome()
	case "login":
		t.router.OpenAuth(view.ModeLogin)
		t.runLogin(ctx)
	case "signup":
		t.router.OpenAuth(view.ModeSignup)
		t.runSignup(ctx)
	case "logout":
		t.router.Logout()
	case "dashboard":
		t.router.OpenDashboard()
	case "shop":
		t.router.OpenShop(ctx)
	case "terms":
		t.router.OpenPolicy(view.ViewTerms)
	case "privacy":
		t.router.OpenPolicy(view.ViewPrivacy)
	case "refund":
		t.router.OpenPolicy(view.ViewRefund)
	case "hello":
		t.router.HandleProtected(ctx, "/hello")
	case "test":
		t.router.HandleProtected(ctx, "/test")
	case "buy":
		if len(fields) < 2 {
			fmt.Println("usage: buy <product-id>")
			return false
		}
		if redirect := t.router.HandleBuy(ctx, fields[1]); redirect != "" {
			fmt.Println("Open this URL in your browser to pay:")
			fmt.Println("  " + redirect)
			fmt.Println("Afterwards paste the return URL via: url <return-url>")
		}
	case "url":
		// Consumes a pasted verification link or checkout-return URL.
		if len(fields) < 2 {
			fmt.Println("usage: url <url>")
			return false
		}
		t.router.Startup(ctx, fields[1])
	case "help":
		printHelp()
	default:
		fmt.Printf("unknown command %q (try: help)\n", fields[0])
	}
	return false
}

func (t *terminal) render() {
	fmt.Println()
	fmt.Println("Status:", t.router.Status())

	switch t.router.Surface() {
	case view.SurfaceHome:
		fmt.Println("Welcome to SolaceStudio. Commands: shop, login, signup, help.")
	case view.SurfaceAuth:
		if t.router.State().Mode == view.ModeSignup {
			fmt.Println("Create your user, verify your email, then log in to reach your dashboard.")
		} else {
			fmt.Println("Sign in with your account to access your dashboard.")
		}
	case view.SurfaceDashboard:
		t.renderDashboard()
	case view.SurfaceDashboardLocked:
		fmt.Println("Please log in to access the dashboard (command: login).")
	case view.SurfaceShop:
		t.renderShop()
	case view.SurfaceTerms:
		fmt.Println(termsText)
	case view.SurfacePrivacy:
		fmt.Println(privacyText)
	case view.SurfaceRefund:
		fmt.Println(refundText)
	}
}

func (t *terminal) renderDashboard() {
	sess, ok := t.store.Current()
	if !ok {
		return
	}
	fmt.Println("Customer Dashboard")
	fmt.Println("  Signed in as:", sess.Username)
	fmt.Println("  Session ID:  ", sess.Fingerprint())
	fmt.Println("  API response:", t.router.ProtectedData())
	fmt.Println("Commands: hello, test, shop, logout.")
}

func (t *terminal) renderShop() {
	snapshot := t.router.Snapshot()

	fmt.Println("Shop")
	if len(snapshot.Products) == 0 {
		fmt.Println("  No products configured.")
	}
	for _, p := range snapshot.Products {
		fmt.Printf("  %s — %s (%.2f %s)\n", p.ID, p.Name, float64(p.AmountCents)/100, strings.ToUpper(p.Currency))
	}

	if _, ok := t.store.Current(); ok {
		fmt.Println("Your Orders")
		if len(snapshot.Orders) == 0 {
			fmt.Println("  No orders yet.")
		}
		for _, o := range snapshot.Orders {
			fmt.Printf("  #%d · %s · %s · %.2f %s\n", o.ID, o.ProductName, o.Status, float64(o.AmountCents)/100, strings.ToUpper(o.Currency))
		}
	}
	fmt.Println("Commands: buy <product-id>.")
}

func (t *terminal) runLogin(ctx context.Context) {
	username, password, err := t.promptCredentials()
	if err != nil {
		fmt.Println("aborted:", err)
		return
	}
	t.router.HandleLogin(ctx, username, password)
}

func (t *terminal) runSignup(ctx context.Context) {
	fmt.Print("email: ")
	email, err := t.readLine()
	if err != nil {
		fmt.Println("aborted:", err)
		return
	}

	username, password, err := t.promptCredentials()
	if err != nil {
		fmt.Println("aborted:", err)
		return
	}
	t.router.HandleRegister(ctx, username, password, email)
}

func (t *terminal) promptCredentials() (string, string, error) {
	fmt.Print("username: ")
	username, err := t.readLine()
	if err != nil {
		return "", "", err
	}

	fmt.Print("password: ")
	password, err := t.readPassword()
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

func (t *terminal) readLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *terminal) readPassword() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for pipes and tests.
	return t.readLine()
}

func printHelp() {
	fmt.Println(`Commands:
  home                 show the home page
  shop                 browse products and your orders
  buy <product-id>     start a checkout session
  login / signup       authenticate or create an account
  dashboard            protected area (requires login)
  hello / test         call a protected endpoint
  url <url>            consume a verification or checkout-return link
  terms / privacy / refund
  logout / quit`)
}
