package activity

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Typed wrappers producing the canonical descriptions for each event.

func (s *Service) RecordJobCreated(ctx context.Context, jobID, actorID, clientName string, now time.Time) error {
	return s.Record(ctx, RecordParams{
		JobID:       jobID,
		ActorID:     actorID,
		Kind:        KindCreated,
		Description: fmt.Sprintf("Job created for client: %s", clientName),
	}, now)
}

func (s *Service) RecordAssigned(ctx context.Context, jobID, actorID, assigneeName, assigneeID string, now time.Time) error {
	return s.Record(ctx, RecordParams{
		JobID:       jobID,
		ActorID:     actorID,
		Kind:        KindAssigned,
		Description: fmt.Sprintf("Job assigned to %s", assigneeName),
		Metadata:    map[string]any{"assigneeId": assigneeID},
	}, now)
}

func (s *Service) RecordReassigned(ctx context.Context, jobID, actorID, previousName, newName, newID string, now time.Time) error {
	return s.Record(ctx, RecordParams{
		JobID:       jobID,
		ActorID:     actorID,
		Kind:        KindReassigned,
		Description: fmt.Sprintf("Job reassigned from %s to %s", previousName, newName),
		Metadata:    map[string]any{"previousAssignee": previousName, "newAssigneeId": newID},
	}, now)
}

func (s *Service) RecordStatusChanged(ctx context.Context, jobID, actorID, oldStatus, newStatus string, now time.Time) error {
	return s.Record(ctx, RecordParams{
		JobID:       jobID,
		ActorID:     actorID,
		Kind:        KindStatusChanged,
		Description: fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus),
		Metadata:    map[string]any{"oldStatus": oldStatus, "newStatus": newStatus},
	}, now)
}

func (s *Service) RecordCommentAdded(ctx context.Context, jobID, actorID, actorName string, now time.Time) error {
	return s.Record(ctx, RecordParams{
		JobID:       jobID,
		ActorID:     actorID,
		Kind:        KindCommentAdded,
		Description: fmt.Sprintf("%s added a comment", actorName),
	}, now)
}

func (s *Service) RecordFileUploaded(ctx context.Context, jobID, actorID, fileName string, now time.Time) error {
	return s.Record(ctx, RecordParams{
		JobID:       jobID,
		ActorID:     actorID,
		Kind:        KindFileUploaded,
		Description: fmt.Sprintf("File uploaded: %s", fileName),
		Metadata:    map[string]any{"fileName": fileName},
	}, now)
}

func (s *Service) RecordCompleted(ctx context.Context, jobID, actorID string, now time.Time) error {
	return s.Record(ctx, RecordParams{
		JobID:       jobID,
		ActorID:     actorID,
		Kind:        KindCompleted,
		Description: "Job marked as completed",
	}, now)
}

func (s *Service) RecordCancelled(ctx context.Context, jobID, actorID, reason string, now time.Time) error {
	desc := "Job cancelled"
	var metadata map[string]any
	if reason != "" {
		desc = fmt.Sprintf("Job cancelled: %s", reason)
		metadata = map[string]any{"reason": reason}
	}
	return s.Record(ctx, RecordParams{
		JobID:       jobID,
		ActorID:     actorID,
		Kind:        KindCancelled,
		Description: desc,
		Metadata:    metadata,
	}, now)
}

func (s *Service) RecordUpdated(ctx context.Context, jobID, actorID string, fieldsChanged []string, now time.Time) error {
	desc := "Job updated"
	var metadata map[string]any
	if len(fieldsChanged) > 0 {
		desc = fmt.Sprintf("Job updated: %s", strings.Join(fieldsChanged, ", "))
		metadata = map[string]any{"fieldsChanged": fieldsChanged}
	}
	return s.Record(ctx, RecordParams{
		JobID:       jobID,
		ActorID:     actorID,
		Kind:        KindUpdated,
		Description: desc,
		Metadata:    metadata,
	}, now)
}
