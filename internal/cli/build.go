package cli

import (
	"github.com/pravsels/deepwork/internal/block/common/log"
	"github.com/pravsels/deepwork/internal/block/config"
	"github.com/pravsels/deepwork/internal/block/gateways/dnsflush"
	"github.com/pravsels/deepwork/internal/block/gateways/execer"
	"github.com/pravsels/deepwork/internal/block/gateways/firewall"
	"github.com/pravsels/deepwork/internal/block/gateways/systemd"
	"github.com/pravsels/deepwork/internal/block/repos/hostsfile"
	"github.com/pravsels/deepwork/internal/block/repos/journal"
	"github.com/pravsels/deepwork/internal/block/repos/unlockfile"
	"github.com/pravsels/deepwork/internal/block/services/controller"
	"github.com/pravsels/deepwork/internal/block/services/scheduler"
)

// buildController constructs the lifecycle controller with all its
// collaborators. The returned cleanup closes the session journal; the
// journal itself is optional, so a failure to open it (for example a
// read-only state dir) only degrades the audit trail.
func buildController(cfg *config.AppConfig) (*controller.Controller, func(), error) {
	logger := log.GetLogger()
	run := execer.New(cfg.CommandTimeout(), logger)

	fw, err := firewall.New(run, logger, nil)
	if err != nil {
		return nil, nil, err
	}

	var jnl controller.Journal
	cleanup := func() {}
	if store, err := journal.Open(cfg.StateDir); err != nil {
		logger.Warn(map[string]any{
			"state_dir": cfg.StateDir,
			"error":     err.Error(),
		}, "session journal unavailable")
	} else {
		jnl = store
		cleanup = func() { _ = store.Close() }
	}

	ctl := controller.New(controller.Options{
		Hosts:           hostsfile.New(cfg.HostsPath, run, logger),
		Releases:        scheduler.New(run, unlockfile.New(cfg.StateDir), logger),
		Flusher:         dnsflush.New(run, logger),
		Firewall:        fw,
		Services:        systemd.New(run, logger),
		Journal:         jnl,
		Logger:          logger,
		FirewallEnabled: cfg.FirewallEnabled,
	})
	return ctl, cleanup, nil
}
