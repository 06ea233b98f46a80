// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

/*
Package supervisor runs Velora's long-lived services under suture v4.

The tree has two layers so a misbehaving maintenance job cannot take the
API down:

	RootSupervisor ("velora")
	├── BackgroundSupervisor ("background-layer")
	│   └── ReconcilerService (orphaned upload sweeper)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff. Supervisor events are logged
through sutureslog, bridged onto the application's zerolog logger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddBackgroundService(services.NewReconcilerService(reconciler))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return tree.Serve(ctx)

Service wrappers live in the services subpackage.
*/
package supervisor
