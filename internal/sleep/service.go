package sleep

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Validation messages. Validation happens at the service boundary; the
// repository is never invoked when it fails.
const (
	msgStartBeforeEnd = "Start time must be earlier than end time."
	msgInvalidDate    = "Invalid date format."
	msgNotUpdated     = "Sleep record not updated."
)

// Service enforces business rules and maps records to transfer views.
// Engine failures pass through unchanged: same status, same message.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a Service over the given repository.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListPage returns a page of record views. On engine failure the page
// metadata is preserved and the failure forwarded.
func (s *Service) ListPage(ctx context.Context, q PageQuery) PagedResponse[View] {
	res := s.repo.GetPage(ctx, q)
	if res.Status == StatusFail {
		s.logger.Warn("list sleeps failed", zap.String("message", res.Message))
		out := PageFail[View](res.Message, res.PageNumber, res.PageSize)
		out.TotalRecords = res.TotalRecords
		out.TotalPages = res.TotalPages
		return out
	}

	views := make([]View, 0, len(res.Data))
	for _, rec := range res.Data {
		views = append(views, NewView(rec))
	}
	return PageSuccess(views, res.PageNumber, res.PageSize, res.TotalRecords)
}

// GetByID returns a single record view.
func (s *Service) GetByID(ctx context.Context, id int64) Response[View] {
	res := s.repo.GetByID(ctx, id)
	if res.Status == StatusFail {
		return Fail[View](res.Message)
	}
	return Success(NewView(*res.Data))
}

// Create validates and stores a new sleep record.
func (s *Service) Create(ctx context.Context, req CreateRequest) Response[View] {
	start, end, msg := parseInterval(req.Start, req.End)
	if msg != "" {
		return Fail[View](msg)
	}

	res := s.repo.Create(ctx, Record{Start: start, End: end})
	if res.Status == StatusFail {
		s.logger.Warn("create sleep failed", zap.String("message", res.Message))
		return Fail[View](res.Message)
	}
	return Success(NewView(*res.Data))
}

// Update validates and overwrites the record with the given id.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) Response[View] {
	start, end, msg := parseInterval(req.Start, req.End)
	if msg != "" {
		return Fail[View](msg)
	}

	res := s.repo.Update(ctx, Record{ID: id, Start: start, End: end})
	if res.Status == StatusFail {
		s.logger.Warn("update sleep failed", zap.Int64("id", id), zap.String("message", res.Message))
		if res.Message == "" {
			return Fail[View](msgNotUpdated)
		}
		return Fail[View](res.Message)
	}
	return Success(NewView(*res.Data))
}

// Delete soft-deletes the record with the given id. The success payload is
// always empty; callers must not depend on one.
func (s *Service) Delete(ctx context.Context, id int64) Response[View] {
	res := s.repo.SoftDelete(ctx, id)
	if res.Status == StatusFail {
		return Fail[View](res.Message)
	}
	return Response[View]{Status: StatusSuccess}
}

// parseInterval parses both timestamps and checks start < end.
// A non-empty message means validation failed.
func parseInterval(startStr, endStr string) (start, end time.Time, msg string) {
	var err error
	if start, err = parseTime(startStr); err != nil {
		return start, end, msgInvalidDate
	}
	if end, err = parseTime(endStr); err != nil {
		return start, end, msgInvalidDate
	}
	if !start.Before(end) {
		return start, end, msgStartBeforeEnd
	}
	return start, end, ""
}
