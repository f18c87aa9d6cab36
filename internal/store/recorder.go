package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const defaultInsertTimeout = 10 * time.Second

// Recorder hands finalized submissions to persistence. The local archive is
// written first; external store failures are logged and never returned.
type Recorder struct {
	archive  *Archive
	external Store
	logger   *zap.Logger
	timeout  time.Duration
}

func NewRecorder(archive *Archive, external Store, logger *zap.Logger) *Recorder {
	if archive == nil {
		archive = NewArchive("")
	}
	if external == nil {
		external = Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		archive:  archive,
		external: external,
		logger:   logger,
		timeout:  defaultInsertTimeout,
	}
}

// Record persists the submission and returns the local artifact path.
func (r *Recorder) Record(ctx context.Context, sub Submission) (string, error) {
	log := r.logger.With(
		zap.String("submission_id", sub.ID),
		zap.String("interview_status", string(sub.Status)),
	)

	path, err := r.archive.Save(sub)
	if err != nil {
		return "", fmt.Errorf("save local archive: %w", err)
	}
	log.Info("saved candidate data", zap.String("path", path))

	fields, err := sub.Fields()
	if err != nil {
		log.Error("failed to flatten submission for external store", zap.Error(err))
		return path, nil
	}

	insertCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.external.Insert(insertCtx, sub.ID, fields); err != nil {
		log.Error("failed to insert candidate data into external store", zap.Error(err))
		return path, nil
	}
	log.Debug("inserted candidate data into external store")

	return path, nil
}
