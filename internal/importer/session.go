package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/autocitypro/import-service/internal/models"
)

var (
	// ErrImportRunning is returned when a run is requested or rows are
	// edited while a run is in flight.
	ErrImportRunning = errors.New("an import is already running")
	// ErrRowNotFound is returned for an unknown row index.
	ErrRowNotFound = errors.New("row not found")
	// ErrRowNotEditable is returned when editing a row that has left the
	// pending state.
	ErrRowNotEditable = errors.New("row is no longer editable")
)

// Catalog is the slice of the backend API the driver needs.
type Catalog interface {
	ListSKUs(ctx context.Context, pageSize int) (map[string]bool, int, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	CreateProduct(ctx context.Context, payload models.CreateProductRequest) (string, error)
}

// Options tunes a session and wires its event callbacks. Callbacks are
// invoked from the import goroutine with snapshot copies; they must not
// call back into the session.
type Options struct {
	// RowDelay is the fixed pause between rows, keeping the backend from
	// being hammered. Zero disables the pause.
	RowDelay time.Duration
	// SKUPageSize is the page size for the one bulk listing call.
	SKUPageSize int
	// SKUPrefix prefixes generated fallback SKUs.
	SKUPrefix string
	Logger    *logrus.Logger

	OnRowStatus func(row models.ImportRow)
	OnProgress  func(p models.ImportProgress)
}

// Session owns one import run's rows and every piece of state the run
// touches: the category cache, the existing-SKU set, the fallback SKU
// counter and the cancel handle. Nothing is shared across sessions, so no
// state can leak between runs.
type Session struct {
	catalog Catalog
	opts    Options
	log     *logrus.Entry

	mu       sync.RWMutex
	rows     []*models.ImportRow
	progress models.ImportProgress
	running  bool
	cancel   context.CancelFunc

	// Per-run state, reset at the start of every run.
	categoryCache map[string]string
	existingSKUs  map[string]bool
	usedSKUs      map[string]bool
	nextSKU       int
}

// NewSession builds a session over an already-validated row set.
func NewSession(catalog Catalog, rows []*models.ImportRow, opts Options) *Session {
	if opts.SKUPageSize <= 0 {
		opts.SKUPageSize = 10000
	}
	if opts.SKUPrefix == "" {
		opts.SKUPrefix = "AC"
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Session{
		catalog: catalog,
		opts:    opts,
		log:     logger.WithField("component", "importer"),
		rows:    rows,
	}
}

// Rows returns a snapshot copy of the row set.
func (s *Session) Rows() []models.ImportRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ImportRow, len(s.rows))
	for i, r := range s.rows {
		out[i] = *r
	}
	return out
}

// Progress returns the current aggregate counters.
func (s *Session) Progress() models.ImportProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress
}

// Running reports whether a run is in flight.
func (s *Session) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Stats summarizes the validated rows for the review step.
func (s *Session) Stats() models.RowStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.ComputeRowStats(s.rows)
}

// SetStock updates CurrentStock on a pending row. The caller enforces the
// mode policy; the session only guards lifecycle.
func (s *Session) SetStock(rowIndex int, stock float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrImportRunning
	}
	for _, r := range s.rows {
		if r.RowIndex == rowIndex {
			if r.Status != models.RowPending {
				return ErrRowNotEditable
			}
			v := stock
			r.CurrentStock = &v
			return nil
		}
	}
	return ErrRowNotFound
}

// ResetFailed resets every error row back to pending, clearing its import
// error, and returns how many rows were reset. Success and skipped rows
// are left untouched.
func (s *Session) ResetFailed() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return 0, ErrImportRunning
	}
	reset := 0
	for _, r := range s.rows {
		if r.Status == models.RowError {
			r.Status = models.RowPending
			r.ImportError = ""
			reset++
		}
	}
	return reset, nil
}

// Cancel requests cooperative cancellation. No further rows are
// attempted; the run context is cancelled, so a catalog request in
// flight is aborted and its row lands in error.
func (s *Session) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Run drives the import to completion: one bulk SKU listing, then every
// importable pending row strictly in file order, one at a time. It blocks
// until done or cancelled and returns the final progress.
func (s *Session) Run(ctx context.Context) (final models.ImportProgress, err error) {
	runCtx, err := s.begin(ctx)
	if err != nil {
		return s.Progress(), err
	}
	defer func() {
		s.finish()
		final = s.Progress()
	}()

	queue, err := s.prepare(runCtx)
	if err != nil {
		return s.Progress(), err
	}

	for _, row := range queue {
		if runCtx.Err() != nil {
			s.log.Info("import cancelled, remaining rows left pending")
			break
		}

		s.setStatus(row, models.RowImporting, "", "")
		s.importRow(runCtx, row)
		s.publishProgress()

		if s.opts.RowDelay > 0 {
			select {
			case <-time.After(s.opts.RowDelay):
			case <-runCtx.Done():
			}
		}
	}

	p := s.Progress()
	s.log.WithFields(logrus.Fields{
		"success": p.Success,
		"failed":  p.Failed,
		"skipped": p.Skipped,
	}).Info("import finished")
	return p, nil
}

// begin transitions the session into the running state and resets all
// per-run caches.
func (s *Session) begin(ctx context.Context) (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil, ErrImportRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.running = true
	s.cancel = cancel
	s.categoryCache = make(map[string]string)
	s.usedSKUs = make(map[string]bool)
	s.progress = models.ImportProgress{Running: true}
	return runCtx, nil
}

func (s *Session) finish() {
	s.mu.Lock()
	s.running = false
	s.progress.Running = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	p := s.progress
	s.mu.Unlock()
	if s.opts.OnProgress != nil {
		s.opts.OnProgress(p)
	}
}

// prepare fetches the existing-SKU set once, pre-marks collisions as
// skipped and seeds the progress counters. The skip check deliberately
// consults only SKUs that existed before the run started: two rows in the
// same file sharing a SKU both attempt creation and the second fails
// server-side.
func (s *Session) prepare(ctx context.Context) ([]*models.ImportRow, error) {
	existing, count, err := s.catalog.ListSKUs(ctx, s.opts.SKUPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch existing SKUs: %w", err)
	}

	s.mu.Lock()
	s.existingSKUs = existing
	s.nextSKU = count + 1

	var queue []*models.ImportRow
	var skipped []*models.ImportRow
	for _, row := range s.rows {
		if !row.Importable() || row.Status != models.RowPending {
			continue
		}
		if row.SKU != "" && existing[row.SKU] {
			skipped = append(skipped, row)
			continue
		}
		queue = append(queue, row)
	}

	for _, row := range skipped {
		row.Status = models.RowSkipped
		row.ImportError = fmt.Sprintf("SKU %s already exists in the catalog", row.SKU)
	}

	s.progress.Total = len(queue)
	s.progress.Skipped = len(skipped)
	p := s.progress
	s.mu.Unlock()

	for _, row := range skipped {
		s.publishRow(row)
	}
	if s.opts.OnProgress != nil {
		s.opts.OnProgress(p)
	}

	s.log.WithFields(logrus.Fields{
		"queued":  len(queue),
		"skipped": len(skipped),
	}).Info("import starting")
	return queue, nil
}

// importRow resolves the category, builds the payload and submits it. One
// row's failure never aborts the batch.
func (s *Session) importRow(ctx context.Context, row *models.ImportRow) {
	categoryID, err := s.resolveCategory(ctx, row)
	if err != nil {
		s.setStatus(row, models.RowError, err.Error(), "")
		return
	}

	payload := models.DraftFromRow(row, categoryID, s.fallbackSKU(row)).WirePayload()

	sku, err := s.catalog.CreateProduct(ctx, payload)
	if err != nil {
		s.log.WithField("row", row.RowIndex).WithError(err).Warn("row import failed")
		s.setStatus(row, models.RowError, err.Error(), "")
		return
	}
	if sku == "" {
		sku = payload.SKU
	}
	s.setStatus(row, models.RowSuccess, "", sku)
}

// resolveCategory returns the row's category id, consulting the in-run
// cache keyed by lower-cased name and creating the category on a miss so
// the same new name is never created twice within one run.
func (s *Session) resolveCategory(ctx context.Context, row *models.ImportRow) (string, error) {
	if row.CategoryID != "" {
		return row.CategoryID, nil
	}
	if row.CategoryName == "" {
		return "", nil
	}

	key := strings.ToLower(row.CategoryName)

	s.mu.RLock()
	cached, ok := s.categoryCache[key]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	category, err := s.catalog.CreateCategory(ctx, row.CategoryName)
	if err != nil {
		return "", fmt.Errorf("failed to resolve category %q: %w", row.CategoryName, err)
	}

	s.mu.Lock()
	s.categoryCache[key] = category.ID
	s.mu.Unlock()
	return category.ID, nil
}

// fallbackSKU reserves the next generated SKU for a row that has none,
// skipping values already present in the catalog or used this run.
func (s *Session) fallbackSKU(row *models.ImportRow) string {
	if row.SKU != "" {
		return row.SKU
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		candidate := fmt.Sprintf("%s-%05d", s.opts.SKUPrefix, s.nextSKU)
		s.nextSKU++
		if !s.existingSKUs[candidate] && !s.usedSKUs[candidate] {
			s.usedSKUs[candidate] = true
			return candidate
		}
	}
}

// setStatus applies a row transition and publishes it.
func (s *Session) setStatus(row *models.ImportRow, status models.RowStatus, importErr, importedSKU string) {
	s.mu.Lock()
	row.Status = status
	row.ImportError = importErr
	if importedSKU != "" {
		row.ImportedSKU = importedSKU
	}
	switch status {
	case models.RowSuccess:
		s.progress.Done++
		s.progress.Success++
	case models.RowError:
		s.progress.Done++
		s.progress.Failed++
	}
	s.mu.Unlock()
	s.publishRow(row)
}

func (s *Session) publishRow(row *models.ImportRow) {
	if s.opts.OnRowStatus == nil {
		return
	}
	s.mu.RLock()
	snapshot := *row
	s.mu.RUnlock()
	s.opts.OnRowStatus(snapshot)
}

func (s *Session) publishProgress() {
	if s.opts.OnProgress == nil {
		return
	}
	s.mu.RLock()
	p := s.progress
	s.mu.RUnlock()
	s.opts.OnProgress(p)
}
