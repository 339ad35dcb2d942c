package service

import (
	"context"
	"testing"
	"time"

	"contractor-estimate-be/internal/dto"
	"contractor-estimate-be/internal/entity"
	"contractor-estimate-be/internal/pkg/logger"
	"contractor-estimate-be/internal/repository/contract"
	"contractor-estimate-be/internal/repository/memory"
	"contractor-estimate-be/internal/repository/specification"
	"contractor-estimate-be/internal/repository/unitofwork"
	"contractor-estimate-be/pkg/estimator"
	"contractor-estimate-be/pkg/patch"

	"github.com/google/uuid"
)

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

var _ logger.ILogger = noopLogger{}

// fakeStore backs the in-memory repositories for service tests. Matching
// interprets the same specifications the real GORM implementations translate
// to WHERE clauses.
type fakeStore struct {
	estimates []*entity.Estimate
	projects  []*entity.Project
	files     []*entity.ProjectFile
}

func matchID(id, want uuid.UUID) bool { return id == want }

func matchSpecsEstimate(doc *entity.Estimate, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if !matchID(doc.Id, sp.ID) {
				return false
			}
		case specification.ByProjectID:
			if !matchID(doc.ProjectId, sp.ProjectID) {
				return false
			}
		case specification.UserOwnedBy:
			if !matchID(doc.UserId, sp.UserID) {
				return false
			}
		}
	}
	return true
}

func matchSpecsProject(p *entity.Project, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if !matchID(p.Id, sp.ID) {
				return false
			}
		case specification.UserOwnedBy:
			if !matchID(p.UserId, sp.UserID) {
				return false
			}
		}
	}
	return true
}

func matchSpecsFile(f *entity.ProjectFile, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if !matchID(f.Id, sp.ID) {
				return false
			}
		case specification.ByProjectID:
			if !matchID(f.ProjectId, sp.ProjectID) {
				return false
			}
		case specification.UserOwnedBy:
			if !matchID(f.UserId, sp.UserID) {
				return false
			}
		}
	}
	return true
}

type fakeEstimateRepo struct{ store *fakeStore }

func (r *fakeEstimateRepo) Create(_ context.Context, e *entity.Estimate) error {
	r.store.estimates = append(r.store.estimates, e.Clone())
	return nil
}

func (r *fakeEstimateRepo) Update(_ context.Context, e *entity.Estimate) error {
	for i, existing := range r.store.estimates {
		if existing.Id == e.Id {
			r.store.estimates[i] = e.Clone()
			return nil
		}
	}
	return nil
}

func (r *fakeEstimateRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, existing := range r.store.estimates {
		if existing.Id == id {
			r.store.estimates = append(r.store.estimates[:i], r.store.estimates[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeEstimateRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Estimate, error) {
	for _, e := range r.store.estimates {
		if matchSpecsEstimate(e, specs) {
			return e.Clone(), nil
		}
	}
	return nil, nil
}

func (r *fakeEstimateRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Estimate, error) {
	var out []*entity.Estimate
	for _, e := range r.store.estimates {
		if matchSpecsEstimate(e, specs) {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

func (r *fakeEstimateRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(context.Background(), specs...)
	return int64(len(all)), nil
}

type fakeProjectRepo struct{ store *fakeStore }

func (r *fakeProjectRepo) Create(_ context.Context, p *entity.Project) error {
	r.store.projects = append(r.store.projects, p)
	return nil
}
func (r *fakeProjectRepo) Update(_ context.Context, _ *entity.Project) error { return nil }
func (r *fakeProjectRepo) Delete(_ context.Context, _ uuid.UUID) error       { return nil }
func (r *fakeProjectRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Project, error) {
	for _, p := range r.store.projects {
		if matchSpecsProject(p, specs) {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProjectRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Project, error) {
	var out []*entity.Project
	for _, p := range r.store.projects {
		if matchSpecsProject(p, specs) {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *fakeProjectRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.store.projects)), nil
}

type fakeFileRepo struct{ store *fakeStore }

func (r *fakeFileRepo) Create(_ context.Context, f *entity.ProjectFile) error {
	r.store.files = append(r.store.files, f)
	return nil
}
func (r *fakeFileRepo) Update(_ context.Context, _ *entity.ProjectFile) error { return nil }
func (r *fakeFileRepo) Delete(_ context.Context, _ uuid.UUID) error           { return nil }
func (r *fakeFileRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ProjectFile, error) {
	for _, f := range r.store.files {
		if matchSpecsFile(f, specs) {
			return f, nil
		}
	}
	return nil, nil
}
func (r *fakeFileRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ProjectFile, error) {
	var out []*entity.ProjectFile
	for _, f := range r.store.files {
		if matchSpecsFile(f, specs) {
			out = append(out, f)
		}
	}
	return out, nil
}
func (r *fakeFileRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.store.files)), nil
}

type fakeUow struct{ store *fakeStore }

func (u *fakeUow) Begin(context.Context) error { return nil }
func (u *fakeUow) Commit() error               { return nil }
func (u *fakeUow) Rollback() error             { return nil }
func (u *fakeUow) ProjectRepository() contract.ProjectRepository {
	return &fakeProjectRepo{store: u.store}
}
func (u *fakeUow) EstimateRepository() contract.EstimateRepository {
	return &fakeEstimateRepo{store: u.store}
}
func (u *fakeUow) ProjectFileRepository() contract.ProjectFileRepository {
	return &fakeFileRepo{store: u.store}
}
func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository { return nil }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository { return nil }

type fakeFactory struct{ store *fakeStore }

func (f *fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type stubGenerator struct {
	lastInput estimator.GenerationInput
	result    *entity.Estimate
	err       error
}

func (g *stubGenerator) Generate(_ context.Context, input estimator.GenerationInput) (*entity.Estimate, error) {
	g.lastInput = input
	if g.err != nil {
		return nil, g.err
	}
	return g.result.Clone(), nil
}

func newTestService(store *fakeStore, gen *stubGenerator) IEstimateService {
	return NewEstimateService(
		&fakeFactory{store: store},
		gen,
		memory.NewEstimateCache(),
		nil,
		nil,
		nil,
		noopLogger{},
	)
}

func seedEstimate(store *fakeStore, userId uuid.UUID) *entity.Estimate {
	doc := &entity.Estimate{
		Id:                 uuid.New(),
		ProjectId:          uuid.New(),
		UserId:             userId,
		ProjectDescription: "Garage build",
		EstimateItems: []entity.EstimateItem{
			{Uid: "a1", Description: "Pour slab", Category: "Concrete", CostRangeMin: 3000, CostRangeMax: 5000},
			{Uid: "b2", Description: "Frame walls", Category: "Carpentry", CostRangeMin: 4000, CostRangeMax: 7000},
		},
		CreatedAt: time.Now(),
	}
	patch.RecalculateTotals(doc)
	store.estimates = append(store.estimates, doc)
	return doc
}

func TestApplyPatchesPersistsOnce(t *testing.T) {
	store := &fakeStore{}
	userId := uuid.New()
	doc := seedEstimate(store, userId)
	svc := newTestService(store, &stubGenerator{})

	res, err := svc.ApplyPatches(context.Background(), userId, &dto.ApplyPatchesRequest{
		EstimateId: doc.Id,
		Patches: []patch.Request{
			{JSONPath: "/estimate_items/a1/cost_range_min", Operation: patch.OperationReplace, NewValue: 3500.0},
			{JSONPath: "/estimate_items/nope/cost_range_min", Operation: patch.OperationReplace, NewValue: 1.0},
		},
	})
	if err != nil {
		t.Fatalf("ApplyPatches: %v", err)
	}

	if len(res.Outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(res.Outcomes))
	}
	if !res.Outcomes[0].Success || res.Outcomes[1].Success {
		t.Errorf("unexpected outcomes: %+v", res.Outcomes)
	}
	if res.Estimate.EstimatedTotalMin != 7500 {
		t.Errorf("total min = %v, want 7500", res.Estimate.EstimatedTotalMin)
	}

	persisted := store.estimates[0]
	if persisted.EstimateItems[0].CostRangeMin != 3500 {
		t.Errorf("persisted item not updated: %v", persisted.EstimateItems[0].CostRangeMin)
	}
	if persisted.UpdatedAt == nil {
		t.Error("persisted document missing updated_at")
	}
}

func TestApplyPatchesMissingEstimateIsFatal(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &stubGenerator{})

	_, err := svc.ApplyPatches(context.Background(), uuid.New(), &dto.ApplyPatchesRequest{
		EstimateId: uuid.New(),
		Patches: []patch.Request{
			{JSONPath: "/project_description", Operation: patch.OperationReplace, NewValue: "x"},
		},
	})
	if err == nil {
		t.Fatal("expected error for missing estimate")
	}
}

func TestApplyPatchesEnforcesOwnership(t *testing.T) {
	store := &fakeStore{}
	doc := seedEstimate(store, uuid.New())
	svc := newTestService(store, &stubGenerator{})

	_, err := svc.ApplyPatches(context.Background(), uuid.New(), &dto.ApplyPatchesRequest{
		EstimateId: doc.Id,
		Patches: []patch.Request{
			{JSONPath: "/project_description", Operation: patch.OperationReplace, NewValue: "x"},
		},
	})
	if err == nil {
		t.Fatal("expected error when patching another user's estimate")
	}
}

func TestRegenerateCreatesWhenMissing(t *testing.T) {
	store := &fakeStore{}
	userId := uuid.New()
	projectId := uuid.New()
	store.projects = append(store.projects, &entity.Project{
		Id:          projectId,
		UserId:      userId,
		Name:        "Garage",
		Description: "Two-car garage",
		CreatedAt:   time.Now(),
	})
	store.files = append(store.files, &entity.ProjectFile{
		Id: uuid.New(), ProjectId: projectId, UserId: userId,
		Name: "site-notes.txt", MimeType: "text/plain", Content: "sloped lot", Processed: true,
	})

	generated := &entity.Estimate{
		ProjectDescription: "Two-car garage",
		EstimateItems: []entity.EstimateItem{
			{Uid: "g1", Description: "Foundation", Category: "Concrete", CostRangeMin: 8000, CostRangeMax: 12000},
		},
	}
	patch.RecalculateTotals(generated)
	gen := &stubGenerator{result: generated}
	svc := newTestService(store, gen)

	res, err := svc.Regenerate(context.Background(), userId, &dto.RegenerateEstimateRequest{
		ProjectId:        projectId,
		RequestedChanges: "make it two cars",
	})
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	if gen.lastInput.ProjectDescription != "Two-car garage" {
		t.Errorf("generator got description %q", gen.lastInput.ProjectDescription)
	}
	if gen.lastInput.RequestedChanges != "make it two cars" {
		t.Errorf("generator got changes %q", gen.lastInput.RequestedChanges)
	}
	if len(gen.lastInput.Files) != 1 {
		t.Errorf("generator got %d files, want 1", len(gen.lastInput.Files))
	}
	if res.Estimate.Id == uuid.Nil {
		t.Error("new estimate has no id")
	}
	if len(store.estimates) != 1 {
		t.Fatalf("expected 1 persisted estimate, got %d", len(store.estimates))
	}
	if store.estimates[0].UserId != userId {
		t.Error("persisted estimate not owned by requester")
	}
}

func TestRegenerateReplacesInPlace(t *testing.T) {
	store := &fakeStore{}
	userId := uuid.New()
	existing := seedEstimate(store, userId)
	store.projects = append(store.projects, &entity.Project{
		Id: existing.ProjectId, UserId: userId, Name: "Garage", CreatedAt: time.Now(),
	})

	generated := &entity.Estimate{
		ProjectDescription: "Garage build",
		EstimateItems: []entity.EstimateItem{
			{Uid: "r1", Description: "Rebuilt item", Category: "General", CostRangeMin: 100, CostRangeMax: 200},
		},
	}
	patch.RecalculateTotals(generated)
	gen := &stubGenerator{result: generated}
	svc := newTestService(store, gen)

	res, err := svc.Regenerate(context.Background(), userId, &dto.RegenerateEstimateRequest{
		ProjectId: existing.ProjectId,
	})
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	if res.Estimate.Id != existing.Id {
		t.Errorf("regeneration changed the document id: %s != %s", res.Estimate.Id, existing.Id)
	}
	// The existing description wins over the project's, since the user may
	// have refined it through patches.
	if gen.lastInput.ProjectDescription != "Garage build" {
		t.Errorf("generator got description %q", gen.lastInput.ProjectDescription)
	}
	if len(store.estimates) != 1 {
		t.Fatalf("expected the document replaced in place, got %d rows", len(store.estimates))
	}
	if len(store.estimates[0].EstimateItems) != 1 || store.estimates[0].EstimateItems[0].Uid != "r1" {
		t.Errorf("persisted document not replaced: %+v", store.estimates[0].EstimateItems)
	}
}

func TestUpdateDetails(t *testing.T) {
	store := &fakeStore{}
	userId := uuid.New()
	doc := seedEstimate(store, userId)
	svc := newTestService(store, &stubGenerator{})

	desc := "Garage build with loft"
	duration := "6-8 weeks"
	res, err := svc.UpdateDetails(context.Background(), userId, &dto.UpdateEstimateDetailsRequest{
		EstimateId:         doc.Id,
		ProjectDescription: &desc,
		EstimatedDuration:  &duration,
	})
	if err != nil {
		t.Fatalf("UpdateDetails: %v", err)
	}

	if res.Estimate.ProjectDescription != desc {
		t.Errorf("description = %q", res.Estimate.ProjectDescription)
	}
	if res.Estimate.EstimatedDuration != duration {
		t.Errorf("duration = %q", res.Estimate.EstimatedDuration)
	}
	if store.estimates[0].ProjectDescription != desc {
		t.Error("update not persisted")
	}
	// Untouched fields keep their values.
	if len(store.estimates[0].EstimateItems) != 2 {
		t.Error("items modified by a details update")
	}
}

func TestShowChecksOwnership(t *testing.T) {
	store := &fakeStore{}
	doc := seedEstimate(store, uuid.New())
	svc := newTestService(store, &stubGenerator{})

	if _, err := svc.Show(context.Background(), uuid.New(), doc.Id); err == nil {
		t.Fatal("expected error for foreign estimate")
	}
}
