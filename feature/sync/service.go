package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"netsync/core/logger"
	"netsync/core/metrics"
	"netsync/core/reconcile"
	"netsync/feature/network/facts"
	"netsync/feature/network/inventory"
	"netsync/feature/network/models"
	"netsync/feature/network/source"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Inventory is the stored side of a run: it loads the current state and applies actions.
type Inventory interface {
	reconcile.Mutator
	LoadGraph(ctx context.Context, scope inventory.Scope) (*models.Graph, error)
}

// Plan is a computed but not yet applied run.
type Plan struct {
	ID        string
	Request   Request
	StartedAt time.Time
	Source    *source.Result
	ChangeSet *reconcile.ChangeSet
	// Err is set when the run was aborted before an apply could happen.
	Err error
}

// Service orchestrates runs: collect, normalize both sides, diff and apply.
type Service struct {
	cfg       Config
	collector facts.Collector
	inventory Inventory
	archive   *Archive
	logger    *zap.Logger
	group     singleflight.Group
	now       func() time.Time
}

// NewService creates a new sync service. The collector may be nil when every request
// carries its facts inline; the archive may be nil to skip report persistence.
func NewService(cfg Config, collector facts.Collector, inv Inventory, archive *Archive, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:       cfg,
		collector: collector,
		inventory: inv,
		archive:   archive,
		logger:    logger,
		now:       time.Now,
	}
}

// Run plans and applies a run. Identical concurrent requests share a single run and
// receive the same report.
func (s *Service) Run(ctx context.Context, req Request) (*Report, error) {
	req = req.WithDefaults(s.cfg)
	v, err, shared := s.group.Do(req.fingerprint(), func() (any, error) {
		plan, err := s.Plan(ctx, req)
		if plan == nil {
			return nil, err
		}
		return s.Apply(ctx, plan, true)
	})
	if shared {
		s.logger.Info("Joined an identical run in progress")
	}
	report, _ := v.(*Report)
	return report, err
}

// Plan computes the change set of a run without applying it. A nil plan means the request
// was rejected; a plan with Err set was aborted and should still be passed to Apply so the
// aborted run is reported.
func (s *Service) Plan(ctx context.Context, req Request) (*Plan, error) {
	req = req.WithDefaults(s.cfg)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &Plan{ID: uuid.NewString(), Request: req, StartedAt: s.now()}
	l := logger.WithRun(s.logger, p.ID)
	l.Info("Run started",
		zap.String("location", req.Location),
		zap.String("namespace", req.Namespace),
		zap.Strings("addresses", req.AddressList()),
		zap.Bool("dry_run", req.DryRun),
	)

	collection, err := s.collect(ctx, req)
	if err != nil {
		return p.abort(l, fmt.Errorf("failed to collect facts: %w", err))
	}

	result, target, err := s.normalize(ctx, l, req, collection)
	if err != nil {
		return p.abort(l, err)
	}
	p.Source = result

	excluded := result.Excluded()
	for _, o := range excluded {
		l.Warn("Device excluded from run",
			zap.String("key", o.Key),
			zap.String("stage", string(o.Stage)),
			zap.String("cause", o.Cause),
		)
	}
	if len(excluded) > 0 && !isSet(req.ContinueOnFailure) {
		return p.abort(l, fmt.Errorf("%w: %d device(s) excluded and continue_on_failure is disabled", ErrDeviceFailed, len(excluded)))
	}

	// Entities of excluded devices must survive the run untouched.
	target = target.Restrict(keepExcept(excluded, target))

	if err := result.Graph.Validate(); err != nil {
		return p.abort(l, fmt.Errorf("source inventory is inconsistent: %w", err))
	}

	p.ChangeSet = models.Plan(result.Graph, target, req.modelScope(), req.planOptions())
	l.Info("Change set computed",
		zap.Int("creates", p.ChangeSet.Summary.Creates),
		zap.Int("updates", p.ChangeSet.Summary.Updates),
		zap.Int("deletes", p.ChangeSet.Summary.Deletes),
		zap.Int("skipped", p.ChangeSet.Summary.Skipped),
	)
	if req.Debug {
		for _, a := range p.ChangeSet.Actions {
			l.Info("Planned action",
				zap.String("type", string(a.Type)),
				zap.String("kind", a.Kind),
				zap.String("key", a.Key),
				zap.String("reason", a.Reason),
			)
		}
	}
	return p, nil
}

func (p *Plan) abort(l *zap.Logger, err error) (*Plan, error) {
	l.Error("Run aborted", zap.Error(err))
	p.Err = err
	return p, err
}

// Apply executes the plan when confirmed and not a dry run, then reports, records metrics
// and archives the report. An aborted plan is reported without executing anything.
func (s *Service) Apply(ctx context.Context, p *Plan, confirmed bool) (*Report, error) {
	l := logger.WithRun(s.logger, p.ID)

	var res *reconcile.ApplyResult
	runErr := p.Err
	if runErr == nil && confirmed && !p.Request.DryRun && !p.ChangeSet.Empty() {
		var err error
		res, err = reconcile.ApplyPlan(ctx, p.ChangeSet, s.inventory, reconcile.ApplyOptions{
			Confirmed: true,
			Workers:   s.cfg.Workers,
		})
		if err != nil {
			if res == nil {
				runErr = fmt.Errorf("failed to apply change set: %w", err)
			} else {
				// Cancelled mid-apply: the completed actions stand, the rest are reported.
				l.Warn("Apply interrupted", zap.Error(err), zap.Int("executed", res.Executed()))
			}
		}
	}
	if runErr != nil && p.Err == nil {
		p.Err = runErr
	}

	report := buildReport(p, res, s.now())
	s.record(report)

	l.Info("Run finished",
		zap.String("status", string(report.Status)),
		zap.Int("executed", report.Executed),
		zap.Int("failed", len(report.Failures)),
		zap.Int("excluded", report.CountDevices(DeviceExcluded)),
		zap.Duration("duration", report.Duration()),
	)

	if s.archive != nil {
		// Archive even when the run context was cancelled.
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := s.archive.Save(saveCtx, report); err != nil {
			l.Error("Failed to archive report", zap.Error(err))
		}
	}

	return report, runErr
}

// Report returns an archived run report.
func (s *Service) Report(ctx context.Context, id string) (*Report, error) {
	if s.archive == nil {
		return nil, fmt.Errorf("%w: report archive disabled", ErrReportNotFound)
	}
	return s.archive.Load(ctx, id)
}

func (s *Service) collect(ctx context.Context, req Request) (facts.Collection, error) {
	if req.Facts != nil {
		return facts.StaticCollector{Facts: req.Facts}.Collect(ctx, req.factsRequest())
	}
	if s.collector == nil {
		return nil, errors.New("no fact collector configured")
	}
	return s.collector.Collect(ctx, req.factsRequest())
}

// normalize runs both normalizers. With an explicit device scope the stored devices are
// looked up by the identities the source produced, so the source runs first; otherwise
// both sides are loaded concurrently.
func (s *Service) normalize(ctx context.Context, l *zap.Logger, req Request, collection facts.Collection) (*source.Result, *models.Graph, error) {
	normalizer := source.NewNormalizer(req.sourceParams(s.cfg), l)
	scope := req.targetScope()

	if len(req.AddressList()) > 0 {
		result := normalizer.Normalize(collection)
		for _, o := range result.Loaded() {
			scope.Devices = append(scope.Devices, o.Device)
		}
		if len(scope.Devices) == 0 {
			return result, models.NewGraph(), nil
		}
		target, err := s.inventory.LoadGraph(ctx, scope)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load inventory: %w", err)
		}
		return result, target, nil
	}

	var result *source.Result
	var target *models.Graph
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result = normalizer.Normalize(collection)
		return nil
	})
	g.Go(func() error {
		t, err := s.inventory.LoadGraph(gctx, scope)
		if err != nil {
			return fmt.Errorf("failed to load inventory: %w", err)
		}
		target = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return result, target, nil
}

// keepExcept keeps every stored device except those excluded from the run. Devices
// excluded before their serial was known are matched by hostname, devices that never
// reported an identity by the management address they were collected from.
func keepExcept(excluded []source.DeviceOutcome, target *models.Graph) func(models.DeviceKey) bool {
	keys := make(map[models.DeviceKey]struct{}, len(excluded))
	names := make(map[string]struct{}, len(excluded))
	addresses := make(map[string]struct{}, len(excluded))
	for _, o := range excluded {
		switch {
		case o.Device.Name != "" && o.Device.Serial != "":
			keys[o.Device] = struct{}{}
		case o.Device.Name != "":
			names[o.Device.Name] = struct{}{}
		default:
			addresses[o.Key] = struct{}{}
		}
	}
	return func(k models.DeviceKey) bool {
		if _, ok := keys[k]; ok {
			return false
		}
		if _, ok := names[k.Name]; ok {
			return false
		}
		_, ok := addresses[target.Devices[k].PrimaryIP]
		return !ok
	}
}

func (s *Service) record(r *Report) {
	metrics.RunsTotal.WithLabelValues(string(r.Status)).Inc()
	metrics.RunDuration.Observe(r.Duration().Seconds())
	for _, d := range r.Devices {
		metrics.DevicesTotal.WithLabelValues(string(d.Status)).Inc()
	}

	failed := make(map[string]bool, len(r.Failures))
	for _, f := range r.Failures {
		failed[string(f.Type)+"/"+f.Kind+"/"+f.Key] = true
		metrics.ActionsTotal.WithLabelValues(f.Kind, string(f.Type), "failed").Inc()
	}
	for _, a := range r.Actions {
		switch {
		case !r.Applied:
			metrics.ActionsTotal.WithLabelValues(a.Kind, string(a.Type), "planned").Inc()
		case !failed[string(a.Type)+"/"+a.Kind+"/"+a.Key]:
			metrics.ActionsTotal.WithLabelValues(a.Kind, string(a.Type), "applied").Inc()
		}
	}
	for _, a := range r.Skipped {
		metrics.ActionsTotal.WithLabelValues(a.Kind, string(a.Type), "skipped").Inc()
	}
}
