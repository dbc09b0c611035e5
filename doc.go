/*
Package ussd is a dialog engine for menu-driven, session-based USSD
services. Each gateway request arrives stateless, carrying the whole
accumulated dial string; the engine turns that into a multi-step
conversation with back/forward navigation, pagination of long output,
and state that survives out-of-order turns and restarts.

Screens are plain types implementing the capability interfaces in
pkg/screen, registered on a pkg/router.Router. The App ties a router to
a Cache adapter (pkg/adapters) and handles turns:

	cache := memory.NewCache()
	r := router.New("demo")
	r.MustRegister("home", func() screen.Screen { return &Home{} }, router.AsEntry())

	app, _ := ussd.New(r, cache)
	out, _ := app.Handle(ctx, &domain.Turn{Msisdn: "254700000001"})
	// out == "CON ..."
*/
package ussd
