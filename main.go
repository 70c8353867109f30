package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"go-restaurant-tracker/client"
	"go-restaurant-tracker/controllers"
	"go-restaurant-tracker/demoserver"
	"go-restaurant-tracker/models"
	"go-restaurant-tracker/realtime"
	"go-restaurant-tracker/session"
	"go-restaurant-tracker/viewmodel"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using process environment")
	}

	baseURL := os.Getenv("API_BASE_URL")
	wsURL := os.Getenv("WS_URL")
	sessionFile := getenv("SESSION_FILE", ".session.json")
	demoMode := os.Getenv("DEMO_MODE") == "true"

	if baseURL == "" && !demoMode {
		log.Println("API_BASE_URL is not set, starting in demo mode")
		demoMode = true
	}

	if demoMode {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatalf("demo mode: could not listen: %v", err)
		}
		go http.Serve(ln, demoserver.New().Engine)
		baseURL = "http://" + ln.Addr().String()
		wsURL = "ws://" + ln.Addr().String() + "/ws"
		log.Printf("DEMO MODE: built-in demo backend at %s, data is local and fake", baseURL)
	}

	apiClient := client.New(baseURL)
	store := session.NewStore(apiClient, sessionFile)

	sess, err := store.Restore()
	if err != nil {
		log.Fatalf("could not read session file: %v", err)
	}
	if sess == nil {
		email := getenv("LOGIN_EMAIL", defaultEmail(demoMode))
		password := os.Getenv("LOGIN_PASSWORD")
		if demoMode && password == "" {
			password = "demo123"
		}
		if email == "" || password == "" {
			log.Fatal("not logged in: set LOGIN_EMAIL and LOGIN_PASSWORD (or DEMO_MODE=true)")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		sess, err = store.Login(ctx, email, password)
		cancel()
		switch {
		case err == nil:
		case errors.Is(err, client.ErrNetworkUnavailable):
			log.Fatalf("API unreachable (%v); restart with DEMO_MODE=true for a local demo backend", err)
		default:
			var authErr *client.AuthError
			if errors.As(err, &authErr) {
				log.Fatalf("login rejected: %v", authErr)
			}
			log.Fatalf("login failed: %v", err)
		}
	}
	log.Printf("logged in as %s <%s> role=%s", sess.User.Name, sess.User.Email, sess.User.Role)

	state := controllers.NewOrderState()
	channel := realtime.Connect(wsURL, sess.Token, sess.User.User_id, sess.User.User_type)
	tracker := controllers.NewTracker(apiClient, state, sess.User.Role, channel)
	if raw := os.Getenv("POLL_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			tracker.Interval = d
		} else {
			log.Printf("ignoring invalid POLL_INTERVAL %q", raw)
		}
	}
	tracker.OnUpdate = func(orders []models.Order) {
		render(orders, sess.User.Role)
	}

	transitions := controllers.NewTransitionController(apiClient, state, sess.User.Role, tracker.Refetch)
	transitions.OnError = func(orderID string, err error) {
		log.Printf("!! %s: action failed, list will re-sync: %v", orderID, err)
	}

	go tracker.Run()
	go readCommands(transitions, sess.User.Role)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down")
	tracker.Stop()
	if err := store.Logout(context.Background()); err != nil {
		log.Printf("remote logout failed (local session cleared anyway): %v", err)
	}
}

func defaultEmail(demoMode bool) string {
	if demoMode {
		return "driver@200millas.demo"
	}
	return ""
}

// render prints the grouped view after every refresh. It is the whole "UI"
// of the headless tracker.
func render(orders []models.Order, role models.Role) {
	p := viewmodel.Project(orders, role)
	var parts []string
	for _, st := range viewmodel.VisibleStatuses(role) {
		if n := p.Counts[st]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", st, n))
		}
	}
	if n := p.Counts[models.StatusUnknown]; n > 0 {
		parts = append(parts, fmt.Sprintf("unknown:%d", n))
	}
	line := strings.Join(parts, "  ")
	if line == "" {
		line = "no orders"
	}
	if role == models.RoleDriver {
		log.Printf("orders [%d] %s  (available:%d mine:%d)", p.Total(), line, len(p.Available), len(p.Mine))
		return
	}
	log.Printf("orders [%d] %s", p.Total(), line)
}

var commandActions = map[string]models.Action{
	"pickup":  models.ActionPickup,
	"deliver": models.ActionCompleteDelivery,
	"cancel":  models.ActionCancelDelivery,
	"cooked":  models.ActionCompleteCooking,
	"packed":  models.ActionCompletePacking,
}

// readCommands is the interactive side of the tracker: one verb and an order
// id per line, e.g. "pickup ORD004".
func readCommands(transitions *controllers.TransitionController, role models.Role) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			if len(fields) > 0 {
				log.Printf("usage: {pickup|deliver|cancel|cooked|packed} <order-id>")
			}
			continue
		}
		action, ok := commandActions[strings.ToLower(fields[0])]
		if !ok {
			log.Printf("unknown command %q", fields[0])
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := transitions.Transition(ctx, fields[1], action); err != nil {
			log.Printf("%v", err)
		} else {
			log.Printf("%s %s ok (%s)", fields[0], fields[1], role)
		}
		cancel()
	}
}
