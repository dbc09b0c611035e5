package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jawabu/ussd/pkg/domain"
	"github.com/jawabu/ussd/pkg/router"
	"github.com/jawabu/ussd/pkg/screen"
)

// demoRouter wires a small self-service menu so the server runs out of
// the box. Real deployments register their own screens.
func demoRouter() *router.Router {
	r := router.New("demo")
	r.MustRegister("welcome", func() screen.Screen { return &welcomeScreen{} },
		router.AsEntry(), router.AsHome())
	r.MustRegister("balance", func() screen.Screen { return &balanceScreen{} })
	r.MustRegister("airtime", func() screen.Screen { return &airtimeScreen{} })
	r.MustRegister("about", func() screen.Screen { return &aboutScreen{} })
	return r
}

type welcomeScreen struct{}

func (s *welcomeScreen) Actions(r *screen.Request) *screen.ActionSet {
	return screen.MustActionSet(
		screen.Action{Key: "1", Label: "Check balance", Handler: screen.Goto("balance")},
		screen.Action{Key: "2", Label: "Buy airtime", Handler: screen.Goto("airtime")},
		screen.Action{Key: "3", Label: "About", Handler: screen.Goto("about")},
	)
}

func (s *welcomeScreen) Render(ctx context.Context, r *screen.Request) (*domain.Response, error) {
	r.Print("Welcome to Jawabu Self-Service")
	return domain.Continue(), nil
}

type balanceScreen struct{}

func (s *balanceScreen) Render(ctx context.Context, r *screen.Request) (*domain.Response, error) {
	// A real screen would fetch this from an account service.
	r.Printf("Your balance is KES %.2f", 1250.75)
	return domain.End(), nil
}

type airtimeScreen struct{}

func (s *airtimeScreen) NavActions(r *screen.Request) *screen.ActionSet {
	return screen.DefaultNavActions()
}

func (s *airtimeScreen) Validate(ctx context.Context, r *screen.Request, input string) (string, error) {
	amount, err := strconv.Atoi(input)
	if err != nil || amount < 10 {
		return "", domain.Invalid("Enter an amount of at least KES 10")
	}
	return strconv.Itoa(amount), nil
}

func (s *airtimeScreen) Handle(ctx context.Context, r *screen.Request, input string) (*domain.Response, error) {
	r.Printf("You have bought KES %s of airtime.", input)
	r.Print("Thank you.")
	return domain.End(), nil
}

func (s *airtimeScreen) Render(ctx context.Context, r *screen.Request) (*domain.Response, error) {
	r.Print("Enter airtime amount (KES)")
	return domain.Continue(), nil
}

type aboutScreen struct{}

func (s *aboutScreen) NavActions(r *screen.Request) *screen.ActionSet {
	return screen.DefaultNavActions()
}

func (s *aboutScreen) Render(ctx context.Context, r *screen.Request) (*domain.Response, error) {
	for i := 1; i <= 12; i++ {
		r.Print(fmt.Sprintf("%d. Jawabu terms of service, clause %d.", i, i))
	}
	return domain.Continue(), nil
}
