package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	syncFeature "netsync/feature/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	syncAddresses  string
	syncLocation   string
	syncNamespace  string
	syncRole       string
	syncFactsFile  string
	syncVLANs      bool
	syncVRFs       bool
	syncCables     bool
	syncContinue   bool
	syncKeepUnseen bool
	syncDebug      bool
	syncDryRun     bool
	yesConfirm     bool
)

// syncCmd plans a run and applies it after confirmation.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile collected device facts into the inventory",
	Long: `Collects device facts, compares them with the inventory and applies the
creates, updates and deletes needed to make the inventory match the devices.

The change set is always printed first. Nothing is written without confirmation.

Examples:
  # Plan only
  sync --location dc1 --dry-run

  # Apply with interactive confirmation
  sync --location dc1

  # Restrict to two devices and auto-confirm
  sync --location dc1 --addresses "10.0.0.1, 10.0.0.2" --yes

  # Read facts from a local document and delete stored entities the devices no longer report
  sync --location dc1 --facts-file facts.json --keep-unmatched=false --yes`,
	RunE: runSync,
}

func init() {
	f := syncCmd.Flags()
	f.StringVar(&syncAddresses, "addresses", "", "Comma separated device addresses to sync (default: every collected device)")
	f.StringVar(&syncLocation, "location", "", "Location assigned to devices and VLANs")
	f.StringVar(&syncNamespace, "namespace", "", "Namespace for IP addresses and VRFs")
	f.StringVar(&syncRole, "role", "", "Device role")
	f.StringVar(&syncFactsFile, "facts-file", "", "Read facts from a local document instead of object storage")
	f.BoolVar(&syncVLANs, "vlans", true, "Sync VLAN assignments")
	f.BoolVar(&syncVRFs, "vrfs", false, "Sync interface VRFs")
	f.BoolVar(&syncCables, "cables", false, "Sync cables from neighbor discovery")
	f.BoolVar(&syncContinue, "continue-on-failure", true, "Keep going when some devices fail")
	f.BoolVar(&syncKeepUnseen, "keep-unmatched", true, "Keep stored entities the devices no longer report")
	f.BoolVar(&syncDebug, "debug", false, "Log every planned action")
	f.BoolVar(&syncDryRun, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	f.BoolVar(&yesConfirm, "yes", false, "Auto-confirm the change set (non-interactive)")

	RootCmd.AddCommand(syncCmd)
}

// syncRequest builds the run request. Toggles left at their default fall back to the configuration.
func syncRequest(cmd *cobra.Command) syncFeature.Request {
	req := syncFeature.Request{
		Addresses: syncAddresses,
		Location:  syncLocation,
		Namespace: syncNamespace,
		Role:      syncRole,
		Debug:     syncDebug,
		DryRun:    syncDryRun,
	}

	flags := cmd.Flags()
	toggle := func(name string, v bool) *bool {
		if !flags.Changed(name) {
			return nil
		}
		return syncFeature.Bool(v)
	}
	req.SyncVLANs = toggle("vlans", syncVLANs)
	req.SyncVRFs = toggle("vrfs", syncVRFs)
	req.SyncCables = toggle("cables", syncCables)
	req.ContinueOnFailure = toggle("continue-on-failure", syncContinue)
	req.SkipUnmatchedDestination = toggle("keep-unmatched", syncKeepUnseen)
	return req
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := setup()
	if err != nil {
		return err
	}
	defer d.close()
	l := d.logger

	if syncFactsFile != "" {
		d.cfg.Sync.FactsFile = syncFactsFile
	}
	if err := d.connectStorage(ctx); err != nil {
		if d.cfg.Sync.FactsFile == "" {
			return err
		}
		l.Warn("Storage unavailable, reports will not be archived", zap.Error(err))
	}

	svc := d.service()

	l.Info("Planning sync...")
	plan, err := svc.Plan(ctx, syncRequest(cmd))
	if plan == nil {
		return err
	}
	if plan.Err != nil {
		report, _ := svc.Apply(ctx, plan, false)
		printRunReport(l, report)
		return plan.Err
	}

	printChangeSet(l, plan)

	confirmed := false
	switch {
	case plan.ChangeSet.Empty():
		l.Info("Inventory already matches the devices.")
	case plan.Request.DryRun:
		l.Info("Dry-run mode: No changes were made.")
	default:
		confirmed = confirmChangeSet()
		if !confirmed {
			l.Warn("Operation cancelled by user. No changes were made.")
		}
	}

	report, err := svc.Apply(ctx, plan, confirmed)
	printRunReport(l, report)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}

// printChangeSet logs the planned actions with a sample of at most five.
func printChangeSet(l *zap.Logger, plan *syncFeature.Plan) {
	s := plan.ChangeSet.Summary
	l.Info("Change set",
		zap.String("run_id", plan.ID),
		zap.Int("devices", len(plan.Source.Loaded())),
		zap.Int("excluded", len(plan.Source.Excluded())),
		zap.Int("creates", s.Creates),
		zap.Int("updates", s.Updates),
		zap.Int("deletes", s.Deletes),
		zap.Int("skipped", s.Skipped),
	)

	actions := plan.ChangeSet.Actions
	maxShow := min(len(actions), 5)
	for _, a := range actions[:maxShow] {
		l.Info("Sample action",
			zap.String("type", string(a.Type)),
			zap.String("kind", a.Kind),
			zap.String("key", a.Key),
			zap.String("reason", a.Reason),
		)
	}
	if len(actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(actions)-maxShow))
	}
}

func printRunReport(l *zap.Logger, r *syncFeature.Report) {
	if r == nil {
		return
	}
	l.Info("Run report",
		zap.String("run_id", r.ID),
		zap.String("status", string(r.Status)),
		zap.Bool("applied", r.Applied),
		zap.Int("executed", r.Executed),
		zap.Int("failed", len(r.Failures)),
		zap.Int("excluded", r.CountDevices(syncFeature.DeviceExcluded)),
		zap.Duration("duration", r.Duration()),
	)
	for _, dev := range r.Devices {
		if dev.Status == syncFeature.DeviceSucceeded {
			continue
		}
		l.Warn("Device not synced",
			zap.String("key", dev.Key),
			zap.String("status", string(dev.Status)),
			zap.String("stage", string(dev.Stage)),
			zap.String("cause", dev.Cause),
		)
	}
	for _, f := range r.Failures {
		l.Error("Action failed",
			zap.String("type", string(f.Type)),
			zap.String("kind", f.Kind),
			zap.String("key", f.Key),
			zap.String("error", f.Error),
		)
	}
}

// confirmChangeSet prompts the user for confirmation or uses --yes flag.
func confirmChangeSet() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to apply the change set: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
