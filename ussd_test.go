package ussd_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jawabu/ussd"
	"github.com/jawabu/ussd/pkg/adapters/memory"
	"github.com/jawabu/ussd/pkg/domain"
	"github.com/jawabu/ussd/pkg/router"
	"github.com/jawabu/ussd/pkg/screen"
)

type greetScreen struct{}

func (s *greetScreen) Handle(ctx context.Context, r *screen.Request, input string) (*domain.Response, error) {
	return domain.Forward("echo").WithInput(input), nil
}

func (s *greetScreen) Render(ctx context.Context, r *screen.Request) (*domain.Response, error) {
	r.Print("Hello world")
	return domain.Continue(), nil
}

type echoScreen struct{}

func (s *echoScreen) Handle(ctx context.Context, r *screen.Request, input string) (*domain.Response, error) {
	r.Printf("Your value was %s", input)
	return domain.End(), nil
}

func (s *echoScreen) Render(ctx context.Context, r *screen.Request) (*domain.Response, error) {
	return domain.Continue(), nil
}

func newApp(t *testing.T, opts ...ussd.Option) *ussd.App {
	t.Helper()
	r := router.New("app")
	r.MustRegister("greet", func() screen.Screen { return &greetScreen{} }, router.AsEntry())
	r.MustRegister("echo", func() screen.Screen { return &echoScreen{} })

	app, err := ussd.New(r, memory.NewCache(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func turn(dial string) *domain.Turn {
	return &domain.Turn{
		Msisdn:      "+254700000001",
		SessionID:   "g-1",
		ServiceCode: "*123#",
		DialString:  dial,
	}
}

func TestAppConversation(t *testing.T) {
	app := newApp(t)
	ctx := context.Background()

	out, err := app.Handle(ctx, turn(""))
	require.NoError(t, err)
	assert.Equal(t, "CON Hello world", out)

	out, err = app.Handle(ctx, turn("1"))
	require.NoError(t, err)
	assert.Equal(t, "END Your value was 1", out)
}

func TestAppConfigDefaults(t *testing.T) {
	app := newApp(t)
	cfg := app.Config()

	assert.Equal(t, "ussd.app.session", cfg.SessionKeyPrefix)
	assert.Equal(t, 75*time.Second, cfg.SessionTTL)
	assert.Equal(t, 120*time.Second, cfg.ScreenStateTTL)
	assert.Equal(t, 182, cfg.MaxPageLength)
}

func TestAppConfigOverride(t *testing.T) {
	app := newApp(t, ussd.WithConfig(ussd.Config{SessionTTL: 90 * time.Second}))
	cfg := app.Config()

	assert.Equal(t, 90*time.Second, cfg.SessionTTL)
	assert.Equal(t, "ussd.app.session", cfg.SessionKeyPrefix, "unset fields keep defaults")
}

func TestAppRequiresEntryScreen(t *testing.T) {
	_, err := ussd.New(router.New("empty"), memory.NewCache())
	require.Error(t, err)
}

func TestAppRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	app := newApp(t, ussd.WithMetrics(reg))
	ctx := context.Background()

	_, err := app.Handle(ctx, turn(""))
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["ussd_turns_total"])
	assert.True(t, names["ussd_turn_duration_seconds"])
}
