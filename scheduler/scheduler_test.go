package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"jobwatch/calendar"
	"jobwatch/escalation"
	"jobwatch/job"
)

func date(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSource struct {
	jobs []job.Job
	err  error
}

func (f *fakeSource) ListActive(_ context.Context) ([]job.Job, error) {
	return f.jobs, f.err
}

type fakeResolver struct {
	recipients map[string][]string
	errFor     map[string]error
}

func (f *fakeResolver) Resolve(_ context.Context, j job.Job, _ escalation.Level) ([]string, error) {
	if err := f.errFor[j.ID]; err != nil {
		return nil, err
	}
	return f.recipients[j.ID], nil
}

type dispatchCall struct {
	jobID string
	level escalation.Level
	n     int
}

type fakeDispatcher struct {
	mu     sync.Mutex
	calls  []dispatchCall
	errFor map[string]error
	// sentOnError simulates a partial dispatch.
	sentOnError int
}

func (f *fakeDispatcher) Dispatch(_ context.Context, j job.Job, level escalation.Level, recipients []string, _ time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor[j.ID]; err != nil {
		return f.sentOnError, err
	}
	f.calls = append(f.calls, dispatchCall{jobID: j.ID, level: level, n: len(recipients)})
	return len(recipients), nil
}

func newScheduler(src *fakeSource, res *fakeResolver, dis *fakeDispatcher) *Scheduler {
	eval := escalation.NewEvaluator(calendar.New(time.Sunday), escalation.DefaultPolicy(), 24)
	return New(src, eval, res, dis, discardLogger(), 4, time.Second)
}

func staleJob(id string, baseline time.Time) job.Job {
	return job.Job{ID: id, Title: id, AssigneeID: "staff-" + id, LastActivityAt: &baseline}
}

func TestRunOnce_DispatchesDueJobs(t *testing.T) {
	// Friday 09:00 baselines evaluated the following Thursday: well past 48h.
	baseline := date(2024, 11, 1, 9, 0)
	fresh := date(2024, 11, 7, 8, 0)

	src := &fakeSource{jobs: []job.Job{
		staleJob("j1", baseline),
		staleJob("j2", fresh), // under threshold
		{ID: "j3", AssigneeID: "s3"}, // never active
	}}
	res := &fakeResolver{recipients: map[string][]string{"j1": {"a", "b", "c"}}}
	dis := &fakeDispatcher{errFor: map[string]error{}}

	s := newScheduler(src, res, dis)
	summary, err := s.RunOnce(context.Background(), date(2024, 11, 7, 9, 0))
	if err != nil {
		t.Fatalf("run once: %v", err)
	}

	if summary.JobsChecked != 3 {
		t.Errorf("expected 3 jobs checked, got %d", summary.JobsChecked)
	}
	if summary.NotificationsSent != 3 {
		t.Errorf("expected 3 notifications, got %d", summary.NotificationsSent)
	}
	if len(dis.calls) != 1 || dis.calls[0].jobID != "j1" || dis.calls[0].level != escalation.Level2 {
		t.Errorf("expected one LEVEL_2 dispatch for j1, got %+v", dis.calls)
	}
	if !summary.EvaluatedAt.Equal(date(2024, 11, 7, 9, 0)) {
		t.Errorf("expected evaluation timestamp echoed, got %v", summary.EvaluatedAt)
	}
}

func TestRunOnce_JobFailureDoesNotAbortPass(t *testing.T) {
	baseline := date(2024, 11, 1, 9, 0)

	src := &fakeSource{jobs: []job.Job{
		staleJob("broken", baseline),
		staleJob("healthy", baseline),
	}}
	res := &fakeResolver{
		recipients: map[string][]string{"broken": {"x"}, "healthy": {"a", "b"}},
	}
	dis := &fakeDispatcher{errFor: map[string]error{"broken": errors.New("store timeout")}}

	s := newScheduler(src, res, dis)
	summary, err := s.RunOnce(context.Background(), date(2024, 11, 7, 9, 0))
	if err != nil {
		t.Fatalf("run once: %v", err)
	}

	if summary.JobsChecked != 2 {
		t.Errorf("expected 2 jobs checked, got %d", summary.JobsChecked)
	}
	if summary.NotificationsSent != 2 {
		t.Errorf("expected healthy job's 2 notifications, got %d", summary.NotificationsSent)
	}
	if len(dis.calls) != 1 || dis.calls[0].jobID != "healthy" {
		t.Errorf("expected healthy job dispatched, got %+v", dis.calls)
	}
}

func TestRunOnce_ResolverFailureSkipsJob(t *testing.T) {
	baseline := date(2024, 11, 1, 9, 0)

	src := &fakeSource{jobs: []job.Job{staleJob("j1", baseline)}}
	res := &fakeResolver{errFor: map[string]error{"j1": errors.New("directory down")}}
	dis := &fakeDispatcher{errFor: map[string]error{}}

	s := newScheduler(src, res, dis)
	summary, err := s.RunOnce(context.Background(), date(2024, 11, 7, 9, 0))
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if summary.NotificationsSent != 0 || len(dis.calls) != 0 {
		t.Errorf("expected no dispatch when resolution fails")
	}
}

func TestRunOnce_PartialDispatchCountsWrites(t *testing.T) {
	baseline := date(2024, 11, 1, 9, 0)

	src := &fakeSource{jobs: []job.Job{staleJob("j1", baseline)}}
	res := &fakeResolver{recipients: map[string][]string{"j1": {"a", "b", "c"}}}
	dis := &fakeDispatcher{
		errFor:      map[string]error{"j1": errors.New("sink unavailable")},
		sentOnError: 2,
	}

	s := newScheduler(src, res, dis)
	summary, err := s.RunOnce(context.Background(), date(2024, 11, 7, 9, 0))
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if summary.NotificationsSent != 2 {
		t.Errorf("expected the 2 written notifications counted, got %d", summary.NotificationsSent)
	}
}

func TestRunOnce_ListFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	s := newScheduler(src, &fakeResolver{}, &fakeDispatcher{errFor: map[string]error{}})

	if _, err := s.RunOnce(context.Background(), time.Now()); err == nil {
		t.Fatalf("expected list failure to surface")
	}
}

func TestRunOnce_EmptyStore(t *testing.T) {
	s := newScheduler(&fakeSource{}, &fakeResolver{}, &fakeDispatcher{errFor: map[string]error{}})

	summary, err := s.RunOnce(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if summary.JobsChecked != 0 || summary.NotificationsSent != 0 {
		t.Errorf("expected empty summary, got %+v", summary)
	}
}

func TestRunOnce_ManyJobsBoundedWorkers(t *testing.T) {
	baseline := date(2024, 11, 1, 9, 0)
	jobs := make([]job.Job, 50)
	recipients := make(map[string][]string, 50)
	for i := range jobs {
		id := string(rune('a' + i%26)) + string(rune('0' + i/26))
		jobs[i] = staleJob("job-"+id, baseline)
		recipients["job-"+id] = []string{"staff"}
	}

	src := &fakeSource{jobs: jobs}
	res := &fakeResolver{recipients: recipients}
	dis := &fakeDispatcher{errFor: map[string]error{}}

	s := newScheduler(src, res, dis)
	summary, err := s.RunOnce(context.Background(), date(2024, 11, 7, 9, 0))
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if summary.NotificationsSent != 50 {
		t.Errorf("expected 50 notifications, got %d", summary.NotificationsSent)
	}
	if len(dis.calls) != 50 {
		t.Errorf("expected 50 dispatches, got %d", len(dis.calls))
	}
}
