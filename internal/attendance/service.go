// Package attendance orchestrates one marking attempt: identity, location,
// code, snapshot, ledger — each step short-circuiting the whole attempt.
package attendance

import (
	"context"
	"time"

	"secureattend/internal/apperr"
	"secureattend/internal/code"
	"secureattend/internal/directory"
	"secureattend/internal/geo"
	"secureattend/internal/ledger"
	"secureattend/internal/snapshot"
)

// Detector is the narrow face-presence contract the flow depends on.
type Detector interface {
	CountFaces(ctx context.Context, image []byte) (int, error)
}

// Service coordinates the marking sequence for both variants.
type Service struct {
	registry directory.Registry
	codes    code.Store
	ledger   ledger.Ledger
	snaps    *snapshot.Store
	detector Detector
	camera   snapshot.Camera

	origin  geo.Point
	radiusM float64
	window  time.Duration
	now     func() time.Time
}

// Options wires the collaborators a Service needs. Camera is only used by
// the console flow, Detector only by the remote flow.
type Options struct {
	Registry directory.Registry
	Codes    code.Store
	Ledger   ledger.Ledger
	Snaps    *snapshot.Store
	Detector Detector
	Camera   snapshot.Camera

	Classroom geo.Point
	RadiusM   float64
	Validity  time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewService creates a service from its collaborators.
func NewService(opts Options) *Service {
	if opts.RadiusM <= 0 {
		opts.RadiusM = 50
	}
	if opts.Validity <= 0 {
		opts.Validity = code.DefaultValidity
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		registry: opts.Registry,
		codes:    opts.Codes,
		ledger:   opts.Ledger,
		snaps:    opts.Snaps,
		detector: opts.Detector,
		camera:   opts.Camera,
		origin:   opts.Classroom,
		radiusM:  opts.RadiusM,
		window:   opts.Validity,
		now:      opts.Now,
	}
}

// RemoteRequest is one service-variant attempt. Coordinates come from the
// client and are trusted as-is; there is no server-side corroboration
// (known limitation of the deployment, not an oversight in this flow).
type RemoteRequest struct {
	RollNo      string
	Code        string
	Lat         float64
	Lon         float64
	SnapshotB64 string
}

// MarkRemote runs the full sequence for an HTTP attempt and returns the
// appended record. Nothing is persisted before the snapshot step, and no
// snapshot is persisted unless a face was found.
func (s *Service) MarkRemote(ctx context.Context, req RemoteRequest) (ledger.Record, error) {
	student, err := s.registry.Find(ctx, req.RollNo)
	if err != nil {
		return ledger.Record{}, err
	}
	if student == nil {
		return ledger.Record{}, apperr.ErrStudentNotFound
	}

	if !geo.Within(s.origin, geo.Point{Lat: req.Lat, Lon: req.Lon}, s.radiusM) {
		return ledger.Record{}, apperr.ErrLocationOutOfRange
	}

	now := s.now()
	if err := s.validateCode(ctx, req.Code, now); err != nil {
		return ledger.Record{}, err
	}

	img, err := snapshot.Decode(req.SnapshotB64)
	if err != nil {
		return ledger.Record{}, err
	}
	faces, err := s.detector.CountFaces(ctx, img)
	if err != nil {
		return ledger.Record{}, err
	}
	if faces == 0 {
		return ledger.Record{}, apperr.ErrNoFaceDetected
	}
	name, err := s.snaps.Save(student.RollNo, img, now)
	if err != nil {
		return ledger.Record{}, err
	}

	return s.ledger.Append(ctx, ledger.Record{
		Date:     now.Format(ledger.DateLayout),
		RollNo:   student.RollNo,
		Name:     student.Name,
		Code:     req.Code,
		MarkedAt: now,
		Snapshot: name,
		Lat:      req.Lat,
		Lon:      req.Lon,
	})
}

// MarkConsole runs the sequence for one interactive session: the student
// was already authenticated, the roll/name pair is re-verified against
// the registry and the snapshot comes from the camera.
func (s *Service) MarkConsole(ctx context.Context, rollNo, studentName, submitted string, lat, lon float64) (ledger.Record, error) {
	ok, err := s.registry.Verify(ctx, rollNo, studentName)
	if err != nil {
		return ledger.Record{}, err
	}
	if !ok {
		return ledger.Record{}, apperr.ErrAuthentication
	}

	if !geo.Within(s.origin, geo.Point{Lat: lat, Lon: lon}, s.radiusM) {
		return ledger.Record{}, apperr.ErrLocationOutOfRange
	}

	now := s.now()
	if err := s.validateCode(ctx, submitted, now); err != nil {
		return ledger.Record{}, err
	}

	img, err := s.camera.Capture(ctx)
	if err != nil {
		return ledger.Record{}, err
	}
	name, err := s.snaps.Save(rollNo, img, now)
	if err != nil {
		return ledger.Record{}, err
	}

	return s.ledger.Append(ctx, ledger.Record{
		Date:     now.Format(ledger.DateLayout),
		RollNo:   rollNo,
		Name:     studentName,
		Code:     submitted,
		MarkedAt: now,
		Snapshot: name,
		Lat:      lat,
		Lon:      lon,
	})
}

// Distance reports how far a point is from the classroom, for user-facing
// rejection messages.
func (s *Service) Distance(lat, lon float64) float64 {
	return geo.Distance(s.origin, geo.Point{Lat: lat, Lon: lon})
}

func (s *Service) validateCode(ctx context.Context, submitted string, now time.Time) error {
	active, err := s.codes.Active(ctx)
	if err != nil {
		return err
	}
	return code.Validate(active, submitted, now, s.window)
}
