// Package bootstrap runs the service lifecycle: it validates the typed
// configuration, initializes the logger, starts registered components,
// runs lifecycle hooks and shuts everything down on SIGINT or SIGTERM.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	app.RegisterComponent(server.NewComponent(srv))
//	return app.Run(ctx)
package bootstrap
